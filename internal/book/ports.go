package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	Create(ctx context.Context, in CreateInput) (Book, error)
	Update(ctx context.Context, id string, in UpdateInput) (Book, error)
	Delete(ctx context.Context, id string) error
}

// Cache is the advisory snapshot cache over the full book collection. All
// methods are fail-open: a broken cache behaves like a cold one and never
// returns an error.
type Cache interface {
	Get(ctx context.Context) ([]Book, bool)
	Set(ctx context.Context, books []Book)
	Invalidate(ctx context.Context)
}
