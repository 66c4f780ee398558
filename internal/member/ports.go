package member

import (
	"context"
)

// Repository defines the contract for member data storage.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, id string) (Member, error)
	Create(ctx context.Context, in CreateInput) (Member, error)
	Update(ctx context.Context, id string, in UpdateInput) (Member, error)
	Delete(ctx context.Context, id string) error
}

// ActiveLoanChecker reports whether a member is still referenced by an open
// loan. Satisfied by the loan repository.
type ActiveLoanChecker interface {
	HasActiveLoanForMember(ctx context.Context, memberID string) (bool, error)
}
