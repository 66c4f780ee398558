package book

import (
	"context"

	"libraryapi/internal/metrics"
)

// Service provides book-related business logic with a cache-aside read path.
type Service struct {
	repo    Repository
	cache   Cache
	metrics metrics.Recorder
}

// NewService creates a new book service.
func NewService(repo Repository, cache Cache, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NoOp{}
	}
	return &Service{repo: repo, cache: cache, metrics: recorder}
}

// List returns the full book collection. It consults the cache first; on a
// miss or any cache failure it reads from the store and repopulates the
// cache best-effort. The returned source is diagnostic only.
func (s *Service) List(ctx context.Context) ([]Book, ListSource, error) {
	if books, ok := s.cache.Get(ctx); ok {
		s.metrics.Incr("books.list", "source:cache")
		return books, SourceCache, nil
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, SourceStore, err
	}

	s.cache.Set(ctx, books)
	s.metrics.Incr("books.list", "source:store")
	return books, SourceStore, nil
}

// GetByID returns one book by its ID.
func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a book. New books always start Available.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return Book{}, err
	}

	s.cache.Invalidate(ctx)
	s.metrics.Incr("books.create")
	return created, nil
}

// Update edits a book's descriptive fields and returns the post-update row.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Book{}, err
	}

	s.cache.Invalidate(ctx)
	s.metrics.Incr("books.update")
	return updated, nil
}

// Delete removes a book.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	s.metrics.Incr("books.delete")
	return nil
}
