package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/events"
	"libraryapi/internal/metrics"
)

// Service is the loan lifecycle controller. Every transition validates
// against current store state, commits the primary mutation, and only then
// runs the best-effort side effects. The cache patch completes or fails
// before the caller gets a response; the event publish is fire and forget.
type Service struct {
	repo      Repository
	cache     CachePatcher
	publisher events.Publisher
	engine    FineEngine
	logger    *slog.Logger
	metrics   metrics.Recorder

	now func() time.Time
}

// NewService creates the lifecycle controller.
func NewService(repo Repository, cache CachePatcher, publisher events.Publisher, engine FineEngine, logger *slog.Logger, recorder metrics.Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoOp{}
	}
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		engine:    engine,
		logger:    logger.With("component", "loan-service"),
		metrics:   recorder,
		now:       time.Now,
	}
}

// List returns loans matching the filter, populated with their book and
// member. Active listings carry the fine accrued as of the current time.
func (s *Service) List(ctx context.Context, f Filter) ([]View, error) {
	loans, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]View, 0, len(loans))
	for _, p := range loans {
		if f.Active {
			views = append(views, ProjectWithCurrentFine(p, s.engine, now))
		} else {
			views = append(views, Project(p))
		}
	}
	return views, nil
}

// Checkout opens a loan for an Available book. No write happens when the
// precondition fails.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (Loan, error) {
	if in.BookID == "" || in.MemberID == "" || in.DueDate.IsZero() {
		return Loan{}, fmt.Errorf("%w: book_id, member_id and due_date are required", ErrInvalidInput)
	}

	created, err := s.repo.CreateWithBookCheckout(ctx, in.BookID, in.MemberID, in.DueDate)
	if err != nil {
		return Loan{}, err
	}

	s.cache.PatchOne(ctx, in.BookID, book.StatusOnLoan)
	events.BestEffort(s.logger, "publish checkout", func() error {
		return s.publisher.Publish(ctx, events.BookCheckedOut(created.ID, created.BookID, created.MemberID, created.DueDate))
	})

	s.metrics.Incr("loans.checkout")
	return created, nil
}

// Return closes an active loan, finalizing its fine. A second return of the
// same loan is a conflict and never double-charges.
func (s *Service) Return(ctx context.Context, in ReturnInput) (Loan, error) {
	if in.LoanID == "" || in.ReturnDate.IsZero() {
		return Loan{}, fmt.Errorf("%w: loan id and return_date are required", ErrInvalidInput)
	}

	current, err := s.repo.GetByID(ctx, in.LoanID)
	if err != nil {
		return Loan{}, err
	}
	if !current.Active() {
		return Loan{}, ErrAlreadyReturned
	}
	if in.BookID != "" && in.BookID != current.BookID {
		return Loan{}, fmt.Errorf("%w: book_id does not match the loan", ErrInvalidInput)
	}

	fineAmount := s.engine.Finalize(in.ReturnDate, current.DueDate)
	fineStatus := FineNone
	if fineAmount > 0 {
		fineStatus = FineUnpaid
	}

	returned, err := s.repo.FinalizeReturn(ctx, in.LoanID, in.ReturnDate, fineAmount, fineStatus, current.BookID)
	if err != nil {
		return Loan{}, err
	}

	s.cache.PatchOne(ctx, current.BookID, book.StatusAvailable)
	events.BestEffort(s.logger, "publish return", func() error {
		return s.publisher.Publish(ctx, events.BookReturned(returned.ID, returned.BookID, returned.FineAmount))
	})

	s.metrics.Incr("loans.return")
	return returned, nil
}

// PayFine settles an unpaid fine. Paying a missing or already settled fine
// is a conflict, not a silent no-op.
func (s *Service) PayFine(ctx context.Context, loanID string) (Loan, error) {
	if loanID == "" {
		return Loan{}, fmt.Errorf("%w: loan id is required", ErrInvalidInput)
	}

	paid, err := s.repo.MarkFinePaid(ctx, loanID)
	if err != nil {
		return Loan{}, err
	}

	events.BestEffort(s.logger, "publish fine paid", func() error {
		return s.publisher.Publish(ctx, events.FinePaid(paid.ID, paid.FineAmount))
	})

	s.metrics.Incr("loans.fine_paid")
	return paid, nil
}
