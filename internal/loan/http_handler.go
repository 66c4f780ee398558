package loan

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /loans?active=true&unpaid=true
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := Filter{
		Active: query.Get("active") == "true",
		Unpaid: query.Get("unpaid") == "true",
	}

	views, err := h.service.List(r.Context(), filter)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not load loans", nil)
		return
	}

	httpx.JSONSuccess(w, views, nil)
}

// Checkout handles POST /loans
func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var in CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}

	if details := httpx.ValidateStruct(in); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid checkout payload", details)
		return
	}

	created, err := h.service.Checkout(r.Context(), in)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}

	httpx.JSONSuccessCreated(w, created)
}

// updateRequest is the PUT /loans/{id} body. A fine_status of Paid settles
// the fine; a return_date closes the loan.
type updateRequest struct {
	ReturnDate *time.Time `json:"return_date"`
	BookID     string     `json:"book_id"`
	FineStatus string     `json:"fine_status"`
}

// Update handles PUT /loans/{id}, covering both returning a book and paying
// a fine.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Loan id is required", nil)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}

	switch {
	case req.FineStatus == FinePaid:
		paid, err := h.service.PayFine(r.Context(), id)
		if err != nil {
			h.writeTransitionError(w, err)
			return
		}
		httpx.JSONSuccess(w, paid, nil)

	case req.ReturnDate != nil:
		returned, err := h.service.Return(r.Context(), ReturnInput{
			LoanID:     id,
			ReturnDate: *req.ReturnDate,
			BookID:     req.BookID,
		})
		if err != nil {
			h.writeTransitionError(w, err)
			return
		}
		httpx.JSONSuccess(w, returned, nil)

	default:
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request must set return_date or fine_status=Paid", nil)
	}
}

func (h *HTTPHandler) writeTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, ErrBookUnavailable):
		httpx.JSONError(w, http.StatusBadRequest, "BOOK_UNAVAILABLE", "Book is not available for checkout", nil)
	case errors.Is(err, ErrAlreadyReturned):
		httpx.JSONError(w, http.StatusBadRequest, "ALREADY_RETURNED", "Loan has already been returned", nil)
	case errors.Is(err, ErrFineNotUnpaid):
		httpx.JSONError(w, http.StatusBadRequest, "FINE_NOT_UNPAID", "Loan has no unpaid fine", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not update loan", nil)
	}
}
