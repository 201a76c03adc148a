package roles

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// RepositoryPort defines data access methods for role management.
type RepositoryPort interface {
	List(ctx context.Context, tenantID int64) ([]Role, error)
	GetByKey(ctx context.Context, tenantID int64, key string) (*Role, error)
	Create(ctx context.Context, role Role) (Role, error)
	Update(ctx context.Context, role Role) (Role, error)
	Delete(ctx context.Context, tenantID int64, key string) error
}

// Invalidator drops a tenant's cached role snapshot after a mutation.
type Invalidator interface {
	Invalidate(tenantKey string)
}

var (
	roleKeyPattern   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	permTokenPattern = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// ErrInvalidInput marks rejected role keys, scopes or permission strings.
var ErrInvalidInput = errors.New("roles: invalid input")

// Service handles role business logic. Every committed mutation invalidates
// the tenant's role cache so guards see it on the next check.
type Service struct {
	repo  RepositoryPort
	cache Invalidator
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// RoleInput carries the mutable attributes of a role.
type RoleInput struct {
	Key         string
	Name        string
	Permissions []string
	Scope       authz.Scope
}

// List returns all role definitions of the tenant.
func (s *Service) List(ctx context.Context, tenant shared.Tenant) ([]Role, error) {
	return s.repo.List(ctx, tenant.ID)
}

// Get returns one role definition.
func (s *Service) Get(ctx context.Context, tenant shared.Tenant, key string) (*Role, error) {
	return s.repo.GetByKey(ctx, tenant.ID, strings.TrimSpace(key))
}

// Create validates and inserts a role, then invalidates the tenant cache.
func (s *Service) Create(ctx context.Context, tenant shared.Tenant, input RoleInput) (Role, error) {
	input.Key = strings.ToLower(strings.TrimSpace(input.Key))
	if !roleKeyPattern.MatchString(input.Key) {
		return Role{}, fmt.Errorf("%w: role key %q", ErrInvalidInput, input.Key)
	}
	if err := validateInput(&input); err != nil {
		return Role{}, err
	}
	created, err := s.repo.Create(ctx, Role{
		TenantID:    tenant.ID,
		Key:         input.Key,
		Name:        input.Name,
		Permissions: input.Permissions,
		Scope:       input.Scope,
	})
	if err != nil {
		return Role{}, err
	}
	s.cache.Invalidate(tenant.Key)
	return created, nil
}

// Update replaces a role's attributes, then invalidates the tenant cache.
// System roles accept permission changes but keep their key.
func (s *Service) Update(ctx context.Context, tenant shared.Tenant, key string, input RoleInput) (Role, error) {
	input.Key = strings.ToLower(strings.TrimSpace(key))
	if err := validateInput(&input); err != nil {
		return Role{}, err
	}
	updated, err := s.repo.Update(ctx, Role{
		TenantID:    tenant.ID,
		Key:         input.Key,
		Name:        input.Name,
		Permissions: input.Permissions,
		Scope:       input.Scope,
	})
	if err != nil {
		return Role{}, err
	}
	s.cache.Invalidate(tenant.Key)
	return updated, nil
}

// Delete removes a role, then invalidates the tenant cache. System roles
// cannot be deleted.
func (s *Service) Delete(ctx context.Context, tenant shared.Tenant, key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	role, err := s.repo.GetByKey(ctx, tenant.ID, key)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return shared.ErrSystemRole
	}
	if err := s.repo.Delete(ctx, tenant.ID, key); err != nil {
		return err
	}
	s.cache.Invalidate(tenant.Key)
	return nil
}

func validateInput(input *RoleInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Scope == "" {
		input.Scope = authz.ScopeTenant
	}
	if input.Scope != authz.ScopeTenant && input.Scope != authz.ScopeBranch {
		return fmt.Errorf("%w: scope %q", ErrInvalidInput, input.Scope)
	}
	seen := make(map[string]struct{}, len(input.Permissions))
	cleaned := make([]string, 0, len(input.Permissions))
	for _, p := range input.Permissions {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if err := validatePermission(p); err != nil {
			return err
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		cleaned = append(cleaned, p)
	}
	input.Permissions = cleaned
	return nil
}

// validatePermission accepts the global wildcard, dotted token sequences and
// a trailing ".*" prefix wildcard. Wildcards elsewhere are rejected.
func validatePermission(perm string) error {
	if perm == authz.Wildcard {
		return nil
	}
	tokens := strings.Split(perm, ".")
	for i, token := range tokens {
		if token == "*" {
			if i == len(tokens)-1 && i > 0 {
				continue
			}
			return fmt.Errorf("%w: wildcard only allowed as trailing segment in %q", ErrInvalidInput, perm)
		}
		if !permTokenPattern.MatchString(token) {
			return fmt.Errorf("%w: permission %q", ErrInvalidInput, perm)
		}
	}
	return nil
}
