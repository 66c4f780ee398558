package loan

import (
	"errors"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/member"
)

var (
	// ErrNotFound is returned when a loan is not found.
	ErrNotFound = errors.New("loan not found")
	// ErrBookUnavailable is returned when checking out a book that is not
	// Available.
	ErrBookUnavailable = errors.New("book is not available")
	// ErrAlreadyReturned is returned when returning a loan twice.
	ErrAlreadyReturned = errors.New("loan already returned")
	// ErrFineNotUnpaid is returned when paying a fine that is not Unpaid.
	ErrFineNotUnpaid = errors.New("loan has no unpaid fine")
	// ErrInvalidInput is returned for malformed transition requests.
	ErrInvalidInput = errors.New("invalid loan input")
)

// Fine status values. A fine obligation only exists while status is Unpaid;
// the status moves Unpaid -> Paid and never reverses.
const (
	FineNone   = "None"
	FineUnpaid = "Unpaid"
	FinePaid   = "Paid"
)

// Loan represents a lending transaction. ReturnDate nil means the loan is
// active. FineAmount is authoritative only once ReturnDate is set.
type Loan struct {
	ID           string     `json:"id"`
	BookID       string     `json:"book_id"`
	MemberID     string     `json:"member_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date"`
	FineAmount   float64    `json:"fine_amount"`
	FineStatus   string     `json:"fine_status"`
}

// Active reports whether the loan is still open.
func (l Loan) Active() bool {
	return l.ReturnDate == nil
}

// Populated is a loan joined with the book and member it references.
type Populated struct {
	Loan
	Book   book.Book
	Member member.Member
}

// View is the response projection of a loan: reference IDs are replaced by
// the embedded book and member, matching what API consumers expect. The
// stored shape is never mutated to produce it.
type View struct {
	ID           string        `json:"id"`
	Book         book.Book     `json:"book"`
	Member       member.Member `json:"member"`
	CheckoutDate time.Time     `json:"checkout_date"`
	DueDate      time.Time     `json:"due_date"`
	ReturnDate   *time.Time    `json:"return_date"`
	FineAmount   float64       `json:"fine_amount"`
	FineStatus   string        `json:"fine_status"`
	CurrentFine  *float64      `json:"current_fine,omitempty"`
}

// Project converts a populated loan into its response view.
func Project(p Populated) View {
	return View{
		ID:           p.ID,
		Book:         p.Book,
		Member:       p.Member,
		CheckoutDate: p.CheckoutDate,
		DueDate:      p.DueDate,
		ReturnDate:   p.ReturnDate,
		FineAmount:   p.FineAmount,
		FineStatus:   p.FineStatus,
	}
}

// ProjectWithCurrentFine projects an active loan, annotating it with the
// fine accrued as of now. Accrued fines are computed, never stored.
func ProjectWithCurrentFine(p Populated, engine FineEngine, now time.Time) View {
	v := Project(p)
	fine := engine.Accrued(now, p.DueDate)
	v.CurrentFine = &fine
	return v
}

// Filter selects which loans to list.
type Filter struct {
	Active bool
	Unpaid bool
}

// CheckoutInput carries the fields required to open a loan.
type CheckoutInput struct {
	BookID   string    `json:"book_id" validate:"required"`
	MemberID string    `json:"member_id" validate:"required"`
	DueDate  time.Time `json:"due_date" validate:"required"`
}

// ReturnInput carries the fields of a return request. BookID is optional;
// when present it must match the loan's own book reference.
type ReturnInput struct {
	LoanID     string
	ReturnDate time.Time
	BookID     string
}
