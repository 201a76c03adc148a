package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/db"
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

// List returns all items of a tenant ordered by SKU.
func (r *Repository) List(ctx context.Context, tenantID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, COALESCE(category_id, 0), sku, name, quantity, reorder_level, price_cents, created_at, updated_at
		FROM inventory_items WHERE tenant_id = $1 ORDER BY sku`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Get fetches one item.
func (r *Repository) Get(ctx context.Context, tenantID, itemID int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, COALESCE(category_id, 0), sku, name, quantity, reorder_level, price_cents, created_at, updated_at
		FROM inventory_items WHERE tenant_id = $1 AND id = $2`, tenantID, itemID)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts an item.
func (r *Repository) Create(ctx context.Context, item Item) (Item, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (tenant_id, category_id, sku, name, quantity, reorder_level, price_cents)
		VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $7)
		RETURNING id, tenant_id, COALESCE(category_id, 0), sku, name, quantity, reorder_level, price_cents, created_at, updated_at`,
		item.TenantID, item.CategoryID, item.SKU, item.Name, item.Quantity, item.ReorderLevel, item.PriceCents)
	created, err := scanItem(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Item{}, shared.ErrDuplicate
		}
		return Item{}, err
	}
	return created, nil
}

// AdjustQuantity applies a delta to an item's stock and records the
// adjustment, atomically.
func (r *Repository) AdjustQuantity(ctx context.Context, tenantID int64, adj Adjustment) (Item, error) {
	var item Item
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE inventory_items SET quantity = quantity + $3, updated_at = now()
			WHERE tenant_id = $1 AND id = $2
			RETURNING id, tenant_id, COALESCE(category_id, 0), sku, name, quantity, reorder_level, price_cents, created_at, updated_at`,
			tenantID, adj.ItemID, adj.Delta)
		var scanErr error
		item, scanErr = scanItem(row)
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return scanErr
		}
		if item.Quantity < 0 {
			return ErrNegativeStock
		}
		_, scanErr = tx.Exec(ctx, `
			INSERT INTO inventory_adjustments (item_id, delta, reason, actor_id)
			VALUES ($1, $2, $3, $4)`,
			adj.ItemID, adj.Delta, adj.Reason, adj.Actor)
		return scanErr
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.TenantID, &item.CategoryID, &item.SKU, &item.Name,
		&item.Quantity, &item.ReorderLevel, &item.PriceCents, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}
