package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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

const memberColumns = "id, name, city, status, join_date"

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.City, &m.Status, &m.JoinDate)
	return m, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]Member, error) {
	query := fmt.Sprintf("SELECT %s FROM members ORDER BY name", memberColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Member, error) {
	query := fmt.Sprintf("SELECT %s FROM members WHERE id = $1", memberColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	m, err := scanMember(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
}

func (r *PostgresRepo) Create(ctx context.Context, in CreateInput) (Member, error) {
	query := fmt.Sprintf(`
		INSERT INTO members (name, city, status)
		VALUES ($1, $2, $3)
		RETURNING %s`, memberColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	m, err := scanMember(r.db.QueryRow(timeoutCtx, query, in.Name, in.City, in.Status))
	if err != nil {
		return Member{}, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id string, in UpdateInput) (Member, error) {
	sets := []string{}
	args := []any{id}
	argn := 2

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argn))
		args = append(args, value)
		argn++
	}

	if in.Name != nil {
		appendSet("name", *in.Name)
	}
	if in.City != nil {
		appendSet("city", *in.City)
	}
	if in.Status != nil {
		appendSet("status", *in.Status)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf("UPDATE members SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), memberColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	m, err := scanMember(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, fmt.Errorf("update member: %w", err)
	}
	return m, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM members WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
