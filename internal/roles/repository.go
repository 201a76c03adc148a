package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// Repository provides PostgreSQL backed persistence for role definitions.
// It also serves as the role source behind the authorization cache.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRoles returns the authorization snapshot of a tenant's roles,
// implementing authz.RoleSource.
func (r *Repository) ListRoles(ctx context.Context, tenantKey string) ([]authz.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.key, r.permissions, r.scope, r.is_system
		FROM roles r
		JOIN tenants t ON t.id = r.tenant_id
		WHERE t.key = $1`, tenantKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []authz.Role
	for rows.Next() {
		var role authz.Role
		if err := rows.Scan(&role.Key, &role.Permissions, &role.Scope, &role.IsSystem); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

// List returns all role definitions of a tenant ordered by key.
func (r *Repository) List(ctx context.Context, tenantID int64) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, key, name, permissions, scope, is_system, created_at, updated_at
		FROM roles WHERE tenant_id = $1 ORDER BY key`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

// GetByKey fetches one role definition.
func (r *Repository) GetByKey(ctx context.Context, tenantID int64, key string) (*Role, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, key, name, permissions, scope, is_system, created_at, updated_at
		FROM roles WHERE tenant_id = $1 AND key = $2`, tenantID, key)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// Create inserts a role definition.
func (r *Repository) Create(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO roles (tenant_id, key, name, permissions, scope, is_system)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, tenant_id, key, name, permissions, scope, is_system, created_at, updated_at`,
		role.TenantID, role.Key, role.Name, role.Permissions, role.Scope, role.IsSystem)
	created, err := scanRole(row)
	if err != nil {
		return Role{}, mapPgError(err)
	}
	return created, nil
}

// Update replaces name, permissions and scope of a role.
func (r *Repository) Update(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE roles SET name = $3, permissions = $4, scope = $5, updated_at = now()
		WHERE tenant_id = $1 AND key = $2
		RETURNING id, tenant_id, key, name, permissions, scope, is_system, created_at, updated_at`,
		role.TenantID, role.Key, role.Name, role.Permissions, role.Scope)
	updated, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return updated, nil
}

// Delete removes a role definition.
func (r *Repository) Delete(ctx context.Context, tenantID int64, key string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM roles WHERE tenant_id = $1 AND key = $2`, tenantID, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row rowScanner) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.TenantID, &role.Key, &role.Name,
		&role.Permissions, &role.Scope, &role.IsSystem, &role.CreatedAt, &role.UpdatedAt)
	return role, err
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
