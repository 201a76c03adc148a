package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

type memoryRepo struct {
	roles  map[string]Role
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{roles: make(map[string]Role)}
}

func (r *memoryRepo) List(ctx context.Context, tenantID int64) ([]Role, error) {
	var out []Role
	for _, role := range r.roles {
		out = append(out, role)
	}
	return out, nil
}

func (r *memoryRepo) GetByKey(ctx context.Context, tenantID int64, key string) (*Role, error) {
	role, ok := r.roles[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &role, nil
}

func (r *memoryRepo) Create(ctx context.Context, role Role) (Role, error) {
	if _, ok := r.roles[role.Key]; ok {
		return Role{}, shared.ErrDuplicate
	}
	r.nextID++
	role.ID = r.nextID
	r.roles[role.Key] = role
	return role, nil
}

func (r *memoryRepo) Update(ctx context.Context, role Role) (Role, error) {
	existing, ok := r.roles[role.Key]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	role.ID = existing.ID
	role.IsSystem = existing.IsSystem
	r.roles[role.Key] = role
	return role, nil
}

func (r *memoryRepo) Delete(ctx context.Context, tenantID int64, key string) error {
	if _, ok := r.roles[key]; !ok {
		return shared.ErrNotFound
	}
	delete(r.roles, key)
	return nil
}

type invalidationSpy struct {
	keys []string
}

func (s *invalidationSpy) Invalidate(tenantKey string) {
	s.keys = append(s.keys, tenantKey)
}

var testTenant = shared.Tenant{ID: 1, Key: "acme"}

func TestCreateInvalidatesCache(t *testing.T) {
	spy := &invalidationSpy{}
	svc := NewService(newMemoryRepo(), spy)

	role, err := svc.Create(context.Background(), testTenant, RoleInput{
		Key:         "Cashier",
		Name:        "Cashier",
		Permissions: []string{"orders.read", "Orders.Read", "orders.create"},
	})
	require.NoError(t, err)
	require.Equal(t, "cashier", role.Key)
	require.Equal(t, authz.ScopeTenant, role.Scope)
	require.Equal(t, []string{"orders.read", "orders.create"}, role.Permissions)
	require.Equal(t, []string{"acme"}, spy.keys)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	spy := &invalidationSpy{}
	repo := newMemoryRepo()
	svc := NewService(repo, spy)

	_, err := svc.Create(context.Background(), testTenant, RoleInput{
		Key: "cashier", Permissions: []string{"orders.read"},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), testTenant, "cashier", RoleInput{
		Permissions: []string{"orders.*"},
		Scope:       authz.ScopeBranch,
	})
	require.NoError(t, err)
	require.Len(t, spy.keys, 2)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	spy := &invalidationSpy{}
	repo := newMemoryRepo()
	svc := NewService(repo, spy)

	_, err := svc.Create(context.Background(), testTenant, RoleInput{
		Key: "cashier", Permissions: []string{"orders.read"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), testTenant, "cashier"))
	require.Len(t, spy.keys, 2)
	require.NotContains(t, repo.roles, "cashier")
}

func TestDeleteSystemRoleRejected(t *testing.T) {
	spy := &invalidationSpy{}
	repo := newMemoryRepo()
	repo.roles["owner"] = Role{Key: "owner", Permissions: []string{"*"}, IsSystem: true}
	svc := NewService(repo, spy)

	err := svc.Delete(context.Background(), testTenant, "owner")
	require.ErrorIs(t, err, shared.ErrSystemRole)
	require.Empty(t, spy.keys)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := NewService(newMemoryRepo(), &invalidationSpy{})
	ctx := context.Background()

	_, err := svc.Create(ctx, testTenant, RoleInput{Key: "Bad Key", Permissions: []string{"orders.read"}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, testTenant, RoleInput{Key: "cashier", Permissions: []string{"orders.read"}, Scope: "region"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, testTenant, RoleInput{Key: "cashier", Permissions: []string{"*.read"}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, testTenant, RoleInput{Key: "cashier", Permissions: []string{"orders.*", "*"}})
	require.NoError(t, err)
}

func TestServiceFeedsCacheInvalidation(t *testing.T) {
	// End to end against a real cache: a mutation must be visible to the
	// next snapshot read without waiting out the TTL.
	repo := newMemoryRepo()
	source := &snapshotSource{repo: repo}
	cache := authz.NewRoleCache(source, authz.DefaultCacheTTL)
	svc := NewService(repo, cache)
	ctx := context.Background()

	_, err := svc.Create(ctx, testTenant, RoleInput{Key: "cashier", Permissions: []string{"orders.read"}})
	require.NoError(t, err)

	snapshot, err := cache.Get(ctx, testTenant.Key)
	require.NoError(t, err)
	require.Contains(t, snapshot, "cashier")

	_, err = svc.Update(ctx, testTenant, "cashier", RoleInput{Permissions: []string{"orders.*"}})
	require.NoError(t, err)

	snapshot, err = cache.Get(ctx, testTenant.Key)
	require.NoError(t, err)
	require.Equal(t, []string{"orders.*"}, snapshot["cashier"].Permissions)
}

type snapshotSource struct {
	repo *memoryRepo
}

func (s *snapshotSource) ListRoles(ctx context.Context, tenantKey string) ([]authz.Role, error) {
	var out []authz.Role
	for _, role := range s.repo.roles {
		out = append(out, authz.Role{
			Key:         role.Key,
			Permissions: role.Permissions,
			Scope:       role.Scope,
			IsSystem:    role.IsSystem,
		})
	}
	return out, nil
}
