package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// List returns all categories of a tenant in display order.
func (r *Repository) List(ctx context.Context, tenantID int64) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, name, sort_order, created_at, updated_at
		FROM categories WHERE tenant_id = $1 ORDER BY sort_order, name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a category.
func (r *Repository) Create(ctx context.Context, category Category) (Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (tenant_id, name, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id, tenant_id, name, sort_order, created_at, updated_at`,
		category.TenantID, category.Name, category.SortOrder)
	var created Category
	err := row.Scan(&created.ID, &created.TenantID, &created.Name, &created.SortOrder, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Category{}, shared.ErrDuplicate
		}
		return Category{}, err
	}
	return created, nil
}

// Update renames or reorders a category.
func (r *Repository) Update(ctx context.Context, category Category) (Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories SET name = $3, sort_order = $4, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING id, tenant_id, name, sort_order, created_at, updated_at`,
		category.TenantID, category.ID, category.Name, category.SortOrder)
	var updated Category
	err := row.Scan(&updated.ID, &updated.TenantID, &updated.Name, &updated.SortOrder, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return updated, nil
}

// Delete removes a category.
func (r *Repository) Delete(ctx context.Context, tenantID, categoryID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE tenant_id = $1 AND id = $2`, tenantID, categoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
