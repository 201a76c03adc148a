package till

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindOpen returns the open session of a branch, if any.
func (r *Repository) FindOpen(ctx context.Context, tenantID int64, branchID string) (*Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, branch_id, opened_by, closed_by, opening_float, closing_amount, status, opened_at, closed_at
		FROM till_sessions
		WHERE tenant_id = $1 AND branch_id = $2 AND status = $3`,
		tenantID, branchID, StatusOpen)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListByBranch returns a branch's sessions, newest first.
func (r *Repository) ListByBranch(ctx context.Context, tenantID int64, branchID string) ([]Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, branch_id, opened_by, closed_by, opening_float, closing_amount, status, opened_at, closed_at
		FROM till_sessions
		WHERE tenant_id = $1 AND branch_id = $2 ORDER BY opened_at DESC`,
		tenantID, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

// Insert opens a new session.
func (r *Repository) Insert(ctx context.Context, session Session) (Session, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO till_sessions (tenant_id, branch_id, opened_by, opening_float, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, tenant_id, branch_id, opened_by, closed_by, opening_float, closing_amount, status, opened_at, closed_at`,
		session.TenantID, session.BranchID, session.OpenedBy, session.OpeningFloat, StatusOpen)
	return scanSession(row)
}

// Close marks a session closed with the counted amount.
func (r *Repository) Close(ctx context.Context, tenantID, sessionID, closedBy, closingAmount int64) (Session, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE till_sessions
		SET status = $4, closed_by = $3, closing_amount = $5, closed_at = now()
		WHERE tenant_id = $1 AND id = $2 AND status = $6
		RETURNING id, tenant_id, branch_id, opened_by, closed_by, opening_float, closing_amount, status, opened_at, closed_at`,
		tenantID, sessionID, closedBy, StatusClosed, closingAmount, StatusOpen)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrSessionClosed
		}
		return Session{}, err
	}
	return session, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var session Session
	err := row.Scan(&session.ID, &session.TenantID, &session.BranchID, &session.OpenedBy,
		&session.ClosedBy, &session.OpeningFloat, &session.ClosingAmount,
		&session.Status, &session.OpenedAt, &session.ClosedAt)
	return session, err
}
