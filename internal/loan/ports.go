package loan

import (
	"context"
	"time"
)

// Repository defines the contract for loan storage. The three mutating
// calls are the durability boundary of the lifecycle: each commits the loan
// row and the paired book status change in one transaction, using
// conditional updates so concurrent transitions cannot both succeed.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Populated, error)
	GetByID(ctx context.Context, id string) (Loan, error)

	// CreateWithBookCheckout inserts an active loan and flips the book
	// Available -> On Loan in one transaction. Returns ErrBookUnavailable
	// when the book is not Available, book.ErrNotFound when it does not
	// exist.
	CreateWithBookCheckout(ctx context.Context, bookID, memberID string, dueDate time.Time) (Loan, error)

	// FinalizeReturn closes an active loan, storing the finalized fine, and
	// flips the book back to Available in one transaction. Returns
	// ErrAlreadyReturned when the loan is no longer active.
	FinalizeReturn(ctx context.Context, loanID string, returnDate time.Time, fineAmount float64, fineStatus string, bookID string) (Loan, error)

	// MarkFinePaid moves fine status Unpaid -> Paid. Returns ErrFineNotUnpaid
	// when there is no unpaid fine, ErrNotFound when the loan is absent.
	MarkFinePaid(ctx context.Context, loanID string) (Loan, error)

	HasActiveLoanForMember(ctx context.Context, memberID string) (bool, error)
}

// CachePatcher is the slice of the book cache the lifecycle needs: reflect
// one book's status change, or drop the snapshot. Both are fail-open.
type CachePatcher interface {
	PatchOne(ctx context.Context, bookID, status string)
	Invalidate(ctx context.Context)
}
