package member

import (
	"encoding/json"
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /members
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not load members", nil)
		return
	}
	httpx.JSONSuccess(w, members, nil)
}

// Create handles POST /members
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}

	if details := httpx.ValidateStruct(in); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid member payload", details)
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not create member", nil)
		return
	}

	httpx.JSONSuccessCreated(w, created)
}

// Update handles PUT /members/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Member id is required", nil)
		return
	}

	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}

	if details := httpx.ValidateStruct(in); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid member payload", details)
		return
	}

	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Member not found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not update member", nil)
		return
	}

	httpx.JSONSuccess(w, updated, nil)
}

// Delete handles DELETE /members/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Member id is required", nil)
		return
	}

	err := h.service.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrHasActiveLoans):
			httpx.JSONError(w, http.StatusBadRequest, "ACTIVE_LOANS", "Cannot delete member with active loans", nil)
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Member not found", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not delete member", nil)
		}
		return
	}

	httpx.JSONSuccess(w, nil, nil)
}
