package loan

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/book"
)

func newHandlerFixture(t *testing.T) (*fakeRepo, *HTTPHandler, *Service) {
	t.Helper()
	repo := newFakeRepo()
	repo.addBook("b1", book.StatusAvailable)
	svc := newTestService(repo, &fakeCache{}, &fakePublisher{})
	return repo, NewHTTPHandler(svc), svc
}

func TestHTTPHandler_Checkout(t *testing.T) {
	due := time.Now().Add(14 * 24 * time.Hour).UTC().Format(time.RFC3339)

	t.Run("created", func(t *testing.T) {
		_, handler, _ := newHandlerFixture(t)

		body := fmt.Sprintf(`{"book_id":"b1","member_id":"m1","due_date":%q}`, due)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(body))

		handler.Checkout(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"return_date":null`)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		_, handler, _ := newHandlerFixture(t)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(`{"book_id":"b1"}`))

		handler.Checkout(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("book on loan is a conflict", func(t *testing.T) {
		repo, handler, _ := newHandlerFixture(t)
		repo.books["b1"].Status = book.StatusOnLoan

		body := fmt.Sprintf(`{"book_id":"b1","member_id":"m1","due_date":%q}`, due)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(body))

		handler.Checkout(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "BOOK_UNAVAILABLE")
	})

	t.Run("bad json rejected", func(t *testing.T) {
		_, handler, _ := newHandlerFixture(t)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader("{"))

		handler.Checkout(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	due := time.Now().Add(14 * 24 * time.Hour)

	checkout := func(t *testing.T, svc *Service) Loan {
		t.Helper()
		created, err := svc.Checkout(context.Background(), CheckoutInput{BookID: "b1", MemberID: "m1", DueDate: due})
		require.NoError(t, err)
		return created
	}

	t.Run("return closes the loan", func(t *testing.T) {
		_, handler, svc := newHandlerFixture(t)
		created := checkout(t, svc)

		body := fmt.Sprintf(`{"return_date":%q,"book_id":"b1"}`, due.Add(-time.Hour).UTC().Format(time.RFC3339))
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/loans/"+created.ID, strings.NewReader(body))
		r.SetPathValue("id", created.ID)

		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"fine_status":"None"`)
	})

	t.Run("second return conflicts", func(t *testing.T) {
		_, handler, svc := newHandlerFixture(t)
		created := checkout(t, svc)
		_, err := svc.Return(context.Background(), ReturnInput{LoanID: created.ID, ReturnDate: due})
		require.NoError(t, err)

		body := fmt.Sprintf(`{"return_date":%q}`, due.UTC().Format(time.RFC3339))
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/loans/"+created.ID, strings.NewReader(body))
		r.SetPathValue("id", created.ID)

		handler.Update(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ALREADY_RETURNED")
	})

	t.Run("pay fine settles an unpaid fine", func(t *testing.T) {
		_, handler, svc := newHandlerFixture(t)
		created := checkout(t, svc)
		_, err := svc.Return(context.Background(), ReturnInput{LoanID: created.ID, ReturnDate: due.Add(72 * time.Hour)})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/loans/"+created.ID, strings.NewReader(`{"fine_status":"Paid"}`))
		r.SetPathValue("id", created.ID)

		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"fine_status":"Paid"`)
	})

	t.Run("unknown loan is 404", func(t *testing.T) {
		_, handler, _ := newHandlerFixture(t)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/loans/ghost", strings.NewReader(`{"fine_status":"Paid"}`))
		r.SetPathValue("id", "ghost")

		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("neither return nor payment is 400", func(t *testing.T) {
		_, handler, svc := newHandlerFixture(t)
		created := checkout(t, svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/loans/"+created.ID, strings.NewReader(`{}`))
		r.SetPathValue("id", created.ID)

		handler.Update(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_List(t *testing.T) {
	_, handler, svc := newHandlerFixture(t)
	due := time.Now().Add(-48 * time.Hour) // already overdue
	_, err := svc.Checkout(context.Background(), CheckoutInput{BookID: "b1", MemberID: "m1", DueDate: due})
	require.NoError(t, err)

	t.Run("active listing includes current fine", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/loans?active=true", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "current_fine")
		assert.Contains(t, w.Body.String(), `"book":{`)
		assert.Contains(t, w.Body.String(), `"member":{`)
	})

	t.Run("plain listing omits current fine", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/loans", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "current_fine")
	})
}
