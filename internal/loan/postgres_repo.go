package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/book"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const loanColumns = "id, book_id, member_id, checkout_date, due_date, return_date, fine_amount, fine_status"

func scanLoan(row pgx.Row) (Loan, error) {
	var l Loan
	err := row.Scan(&l.ID, &l.BookID, &l.MemberID, &l.CheckoutDate, &l.DueDate, &l.ReturnDate, &l.FineAmount, &l.FineStatus)
	return l, err
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Populated, error) {
	clauses := []string{"1=1"}
	if f.Active {
		clauses = append(clauses, "l.return_date IS NULL")
	}
	if f.Unpaid {
		clauses = append(clauses, fmt.Sprintf("l.fine_status = '%s'", FineUnpaid))
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.book_id, l.member_id, l.checkout_date, l.due_date, l.return_date, l.fine_amount, l.fine_status,
		       b.id, b.title, b.author, b.isbn, b.category, b.status, b.created_at, b.updated_at,
		       m.id, m.name, m.city, m.status, m.join_date
		FROM loans l
		JOIN books b ON b.id = l.book_id
		JOIN members m ON m.id = l.member_id
		WHERE %s
		ORDER BY l.checkout_date DESC`, strings.Join(clauses, " AND "))

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Populated{}
	for rows.Next() {
		var p Populated
		err := rows.Scan(
			&p.ID, &p.Loan.BookID, &p.Loan.MemberID, &p.CheckoutDate, &p.DueDate, &p.ReturnDate, &p.FineAmount, &p.FineStatus,
			&p.Book.ID, &p.Book.Title, &p.Book.Author, &p.Book.ISBN, &p.Book.Category, &p.Book.Status, &p.Book.CreatedAt, &p.Book.UpdatedAt,
			&p.Member.ID, &p.Member.Name, &p.Member.City, &p.Member.Status, &p.Member.JoinDate,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Loan, error) {
	query := fmt.Sprintf("SELECT %s FROM loans WHERE id = $1", loanColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	l, err := scanLoan(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, err
	}
	return l, nil
}

// CreateWithBookCheckout flips the book On Loan and inserts the loan in one
// transaction. The book update is conditional on the current status, so two
// concurrent checkouts of the same book cannot both commit.
func (r *PostgresRepo) CreateWithBookCheckout(ctx context.Context, bookID, memberID string, dueDate time.Time) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	tag, err := tx.Exec(timeoutCtx,
		"UPDATE books SET status = $1, updated_at = now() WHERE id = $2 AND status = $3",
		book.StatusOnLoan, bookID, book.StatusAvailable)
	if err != nil {
		return Loan{}, fmt.Errorf("flip book on loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(timeoutCtx, "SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)", bookID).Scan(&exists); err != nil {
			return Loan{}, err
		}
		if !exists {
			return Loan{}, book.ErrNotFound
		}
		return Loan{}, ErrBookUnavailable
	}

	query := fmt.Sprintf(`
		INSERT INTO loans (book_id, member_id, due_date, fine_status)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, loanColumns)

	l, err := scanLoan(tx.QueryRow(timeoutCtx, query, bookID, memberID, dueDate, FineNone))
	if err != nil {
		return Loan{}, fmt.Errorf("insert loan: %w", err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Loan{}, err
	}
	return l, nil
}

// FinalizeReturn closes the loan and flips the book back to Available in
// one transaction. The loan update is conditional on the loan still being
// active; a concurrent double return loses the race and gets a conflict.
func (r *PostgresRepo) FinalizeReturn(ctx context.Context, loanID string, returnDate time.Time, fineAmount float64, fineStatus string, bookID string) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	query := fmt.Sprintf(`
		UPDATE loans
		SET return_date = $2, fine_amount = $3, fine_status = $4
		WHERE id = $1 AND return_date IS NULL
		RETURNING %s`, loanColumns)

	l, err := scanLoan(tx.QueryRow(timeoutCtx, query, loanID, returnDate, fineAmount, fineStatus))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(timeoutCtx, "SELECT EXISTS(SELECT 1 FROM loans WHERE id = $1)", loanID).Scan(&exists); err != nil {
				return Loan{}, err
			}
			if !exists {
				return Loan{}, ErrNotFound
			}
			return Loan{}, ErrAlreadyReturned
		}
		return Loan{}, fmt.Errorf("finalize loan: %w", err)
	}

	if _, err := tx.Exec(timeoutCtx,
		"UPDATE books SET status = $1, updated_at = now() WHERE id = $2",
		book.StatusAvailable, bookID); err != nil {
		return Loan{}, fmt.Errorf("flip book available: %w", err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Loan{}, err
	}
	return l, nil
}

// MarkFinePaid moves fine status Unpaid -> Paid with a conditional update,
// so the status can never regress or double-settle.
func (r *PostgresRepo) MarkFinePaid(ctx context.Context, loanID string) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE loans
		SET fine_status = $2
		WHERE id = $1 AND fine_status = $3
		RETURNING %s`, loanColumns)

	l, err := scanLoan(r.db.QueryRow(timeoutCtx, query, loanID, FinePaid, FineUnpaid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := r.db.QueryRow(timeoutCtx, "SELECT EXISTS(SELECT 1 FROM loans WHERE id = $1)", loanID).Scan(&exists); err != nil {
				return Loan{}, err
			}
			if !exists {
				return Loan{}, ErrNotFound
			}
			return Loan{}, ErrFineNotUnpaid
		}
		return Loan{}, fmt.Errorf("mark fine paid: %w", err)
	}
	return l, nil
}

func (r *PostgresRepo) HasActiveLoanForMember(ctx context.Context, memberID string) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var active bool
	err := r.db.QueryRow(timeoutCtx,
		"SELECT EXISTS(SELECT 1 FROM loans WHERE member_id = $1 AND return_date IS NULL)",
		memberID).Scan(&active)
	if err != nil {
		return false, err
	}
	return active, nil
}
