package member

import (
	"context"
	"strings"
)

// Service provides member-related business logic.
type Service struct {
	repo  Repository
	loans ActiveLoanChecker
}

// NewService creates a new member service.
func NewService(repo Repository, loans ActiveLoanChecker) *Service {
	return &Service{repo: repo, loans: loans}
}

// List returns all members.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

// GetByID returns one member by ID.
func (s *Service) GetByID(ctx context.Context, id string) (Member, error) {
	return s.repo.GetByID(ctx, id)
}

// Create registers a member. Names are uppercased and status defaults to
// Active.
func (s *Service) Create(ctx context.Context, in CreateInput) (Member, error) {
	in.Name = strings.ToUpper(in.Name)
	if in.Status == "" {
		in.Status = StatusActive
	}
	return s.repo.Create(ctx, in)
}

// Update edits a member and returns the post-update row.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Member, error) {
	if in.Name != nil {
		upper := strings.ToUpper(*in.Name)
		in.Name = &upper
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes a member unless an open loan still references them.
func (s *Service) Delete(ctx context.Context, id string) error {
	active, err := s.loans.HasActiveLoanForMember(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return ErrHasActiveLoans
	}
	return s.repo.Delete(ctx, id)
}
