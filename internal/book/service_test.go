package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	books   []Book
	err     error
	deleted []string
}

func (f *fakeRepo) List(ctx context.Context) ([]Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.books, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Book, error) {
	if f.err != nil {
		return Book{}, f.err
	}
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

func (f *fakeRepo) Create(ctx context.Context, in CreateInput) (Book, error) {
	if f.err != nil {
		return Book{}, f.err
	}
	b := Book{ID: "new", Title: in.Title, Author: in.Author, ISBN: in.ISBN, Category: in.Category, Status: StatusAvailable}
	f.books = append(f.books, b)
	return b, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	if f.err != nil {
		return Book{}, f.err
	}
	for i := range f.books {
		if f.books[i].ID == id {
			if in.Title != nil {
				f.books[i].Title = *in.Title
			}
			return f.books[i], nil
		}
	}
	return Book{}, ErrNotFound
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeCache is a fail-open cache double: a "down" cache is simply one that
// always misses, which is exactly the contract the service sees.
type fakeCache struct {
	snapshot    []Book
	present     bool
	sets        int
	invalidates int
}

func (f *fakeCache) Get(ctx context.Context) ([]Book, bool) {
	if !f.present {
		return nil, false
	}
	return f.snapshot, true
}

func (f *fakeCache) Set(ctx context.Context, books []Book) {
	f.snapshot = books
	f.present = true
	f.sets++
}

func (f *fakeCache) Invalidate(ctx context.Context) {
	f.snapshot = nil
	f.present = false
	f.invalidates++
}

var sampleBooks = []Book{
	{ID: "b1", Title: "Dune", Status: StatusAvailable},
	{ID: "b2", Title: "Neuromancer", Status: StatusOnLoan},
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit serves the snapshot", func(t *testing.T) {
		cache := &fakeCache{snapshot: sampleBooks, present: true}
		svc := NewService(&fakeRepo{}, cache, nil)

		books, source, err := svc.List(ctx)

		require.NoError(t, err)
		assert.Equal(t, SourceCache, source)
		assert.Equal(t, sampleBooks, books)
	})

	t.Run("cache miss falls through to the store and repopulates", func(t *testing.T) {
		cache := &fakeCache{}
		svc := NewService(&fakeRepo{books: sampleBooks}, cache, nil)

		books, source, err := svc.List(ctx)

		require.NoError(t, err)
		assert.Equal(t, SourceStore, source)
		assert.Equal(t, sampleBooks, books)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("cache down still returns the full correct list", func(t *testing.T) {
		// A broken cache is indistinguishable from a cold one.
		cache := &fakeCache{}
		svc := NewService(&fakeRepo{books: sampleBooks}, cache, nil)

		books, _, err := svc.List(ctx)

		require.NoError(t, err)
		assert.Equal(t, sampleBooks, books)
	})

	t.Run("store failure is fatal", func(t *testing.T) {
		svc := NewService(&fakeRepo{err: errors.New("connection refused")}, &fakeCache{}, nil)

		_, _, err := svc.List(ctx)
		assert.Error(t, err)
	})
}

func TestService_WritesInvalidateCache(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		cache := &fakeCache{snapshot: sampleBooks, present: true}
		svc := NewService(&fakeRepo{}, cache, nil)

		created, err := svc.Create(ctx, CreateInput{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", Category: "SF"})

		require.NoError(t, err)
		assert.Equal(t, StatusAvailable, created.Status)
		assert.Equal(t, 1, cache.invalidates)
	})

	t.Run("update", func(t *testing.T) {
		cache := &fakeCache{snapshot: sampleBooks, present: true}
		repo := &fakeRepo{books: append([]Book{}, sampleBooks...)}
		svc := NewService(repo, cache, nil)

		title := "Dune Messiah"
		updated, err := svc.Update(ctx, "b1", UpdateInput{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.Equal(t, 1, cache.invalidates)
	})

	t.Run("update of a missing book does not invalidate", func(t *testing.T) {
		cache := &fakeCache{snapshot: sampleBooks, present: true}
		svc := NewService(&fakeRepo{}, cache, nil)

		_, err := svc.Update(ctx, "ghost", UpdateInput{})

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, cache.invalidates)
	})

	t.Run("delete", func(t *testing.T) {
		cache := &fakeCache{snapshot: sampleBooks, present: true}
		repo := &fakeRepo{books: sampleBooks}
		svc := NewService(repo, cache, nil)

		require.NoError(t, svc.Delete(ctx, "b1"))
		assert.Equal(t, []string{"b1"}, repo.deleted)
		assert.Equal(t, 1, cache.invalidates)
	})
}
