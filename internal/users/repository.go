package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/platform/db"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// Repository provides PostgreSQL backed persistence. It doubles as the
// account source behind the authorization guard.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindAccount loads the authorization view of a user, implementing
// authz.AccountSource. Returns (nil, nil) when the user does not exist in
// the tenant.
func (r *Repository) FindAccount(ctx context.Context, tenantKey string, userID int64) (*authz.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.status, u.roles
		FROM users u
		JOIN tenants t ON t.id = u.tenant_id
		WHERE t.key = $1 AND u.id = $2`, tenantKey, userID)
	var account authz.Account
	if err := row.Scan(&account.ID, &account.Status, &account.Roles); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT role_key, branch_id FROM user_role_grants WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var grant authz.ScopedGrant
		if err := rows.Scan(&grant.RoleKey, &grant.BranchID); err != nil {
			return nil, err
		}
		account.Grants = append(account.Grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail fetches a user by email within a tenant, for login.
func (r *Repository) FindByEmail(ctx context.Context, tenantKey, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.tenant_id, u.email, u.name, u.password_hash, u.status, u.roles, u.created_at, u.updated_at
		FROM users u
		JOIN tenants t ON t.id = u.tenant_id
		WHERE t.key = $1 AND lower(u.email) = lower($2)`, tenantKey, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns all users of a tenant ordered by id.
func (r *Repository) List(ctx context.Context, tenantID int64) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, email, name, password_hash, status, roles, created_at, updated_at
		FROM users WHERE tenant_id = $1 ORDER BY id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// Get fetches one user by id within a tenant.
func (r *Repository) Get(ctx context.Context, tenantID, userID int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, email, name, password_hash, status, roles, created_at, updated_at
		FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a user.
func (r *Repository) Create(ctx context.Context, user User) (User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (tenant_id, email, name, password_hash, status, roles)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, tenant_id, email, name, password_hash, status, roles, created_at, updated_at`,
		user.TenantID, user.Email, user.Name, user.PasswordHash, user.Status, user.Roles)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, shared.ErrDuplicate
		}
		return User{}, err
	}
	return created, nil
}

// SetStatus updates a user's status.
func (r *Repository) SetStatus(ctx context.Context, tenantID, userID int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET status = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, userID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetRoles replaces a user's coarse role list.
func (r *Repository) SetRoles(ctx context.Context, tenantID, userID int64, roles []string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET roles = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, userID, roles)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetGrants replaces a user's scoped grants inside one transaction.
func (r *Repository) SetGrants(ctx context.Context, tenantID, userID int64, grants []authz.ScopedGrant) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT count(*) FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, userID)
		var count int
		if err := row.Scan(&count); err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_role_grants WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, grant := range grants {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_role_grants (user_id, role_key, branch_id) VALUES ($1, $2, $3)`,
				userID, grant.RoleKey, grant.BranchID); err != nil {
				return err
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.TenantID, &user.Email, &user.Name,
		&user.PasswordHash, &user.Status, &user.Roles, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}
