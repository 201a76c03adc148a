package tenants

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

// FindByKey fetches a tenant by its key.
func (r *Repository) FindByKey(ctx context.Context, key string) (*Tenant, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, key, name, is_active, created_at FROM tenants WHERE key = $1`, key)
	var tenant Tenant
	if err := row.Scan(&tenant.ID, &tenant.Key, &tenant.Name, &tenant.IsActive, &tenant.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}
