package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// RepositoryPort defines data access methods for user management.
type RepositoryPort interface {
	List(ctx context.Context, tenantID int64) ([]User, error)
	Get(ctx context.Context, tenantID, userID int64) (*User, error)
	Create(ctx context.Context, user User) (User, error)
	SetStatus(ctx context.Context, tenantID, userID int64, status string) error
	SetRoles(ctx context.Context, tenantID, userID int64, roles []string) error
	SetGrants(ctx context.Context, tenantID, userID int64, grants []authz.ScopedGrant) error
}

// Service handles user management logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the attributes of a new user.
type CreateInput struct {
	Email    string
	Name     string
	Password string
	Roles    []string
}

// List returns all users of the tenant.
func (s *Service) List(ctx context.Context, tenant shared.Tenant) ([]User, error) {
	return s.repo.List(ctx, tenant.ID)
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, tenant shared.Tenant, userID int64) (*User, error) {
	return s.repo.Get(ctx, tenant.ID, userID)
}

// Create hashes the password and inserts an active user.
func (s *Service) Create(ctx context.Context, tenant shared.Tenant, input CreateInput) (User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" {
		return User{}, errors.New("users: email required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{
		TenantID:     tenant.ID,
		Email:        input.Email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		Status:       authz.StatusActive,
		Roles:        normalizeKeys(input.Roles),
	})
}

// SetStatus enables or disables a user. Any status other than "active"
// denies all authorization checks.
func (s *Service) SetStatus(ctx context.Context, tenant shared.Tenant, userID int64, status string) error {
	status = strings.TrimSpace(strings.ToLower(status))
	if status == "" {
		return errors.New("users: status required")
	}
	return s.repo.SetStatus(ctx, tenant.ID, userID, status)
}

// SetRoles replaces a user's coarse roles. Coarse roles apply tenant-wide.
func (s *Service) SetRoles(ctx context.Context, tenant shared.Tenant, userID int64, roles []string) error {
	return s.repo.SetRoles(ctx, tenant.ID, userID, normalizeKeys(roles))
}

// SetGrants replaces a user's branch-scoped grants.
func (s *Service) SetGrants(ctx context.Context, tenant shared.Tenant, userID int64, grants []authz.ScopedGrant) error {
	cleaned := make([]authz.ScopedGrant, 0, len(grants))
	for _, grant := range grants {
		grant.RoleKey = strings.TrimSpace(strings.ToLower(grant.RoleKey))
		grant.BranchID = strings.TrimSpace(grant.BranchID)
		if grant.RoleKey == "" {
			continue
		}
		cleaned = append(cleaned, grant)
	}
	return s.repo.SetGrants(ctx, tenant.ID, userID, cleaned)
}

func normalizeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(strings.ToLower(key))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
