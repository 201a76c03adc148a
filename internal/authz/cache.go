package authz

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how stale a tenant role snapshot may get.
const DefaultCacheTTL = 60 * time.Second

// RoleSource lists all roles of a tenant, typically backed by the roles
// repository.
type RoleSource interface {
	ListRoles(ctx context.Context, tenantKey string) ([]Role, error)
}

type roleEntry struct {
	roles    RoleMap
	loadedAt time.Time
}

// RoleCache holds per-tenant role snapshots for at most the configured TTL.
// Concurrent misses for the same tenant may each reload from the source;
// the overwrites are idempotent so no reload coordination is attempted.
type RoleCache struct {
	source RoleSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]roleEntry
}

// NewRoleCache builds a cache over the given source. A non-positive ttl
// falls back to DefaultCacheTTL.
func NewRoleCache(source RoleSource, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RoleCache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]roleEntry),
	}
}

// Get returns the tenant's role snapshot, reloading from the source when no
// entry exists or the entry has expired. Source errors propagate; no stale
// fallback is attempted. The returned map is shared and must not be mutated.
func (c *RoleCache) Get(ctx context.Context, tenantKey string) (RoleMap, error) {
	c.mu.RLock()
	entry, ok := c.entries[tenantKey]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.loadedAt) < c.ttl {
		return entry.roles, nil
	}

	roles, err := c.source.ListRoles(ctx, tenantKey)
	if err != nil {
		return nil, err
	}
	snapshot := make(RoleMap, len(roles))
	for _, role := range roles {
		key := normalizeKey(role.Key)
		if key == "" {
			continue
		}
		role.Key = key
		snapshot[key] = role
	}

	c.mu.Lock()
	c.entries[tenantKey] = roleEntry{roles: snapshot, loadedAt: c.now()}
	c.mu.Unlock()
	return snapshot, nil
}

// Invalidate drops the tenant's snapshot so the next Get reloads. Role
// mutations must call this after their write commits.
func (c *RoleCache) Invalidate(tenantKey string) {
	c.mu.Lock()
	delete(c.entries, tenantKey)
	c.mu.Unlock()
}
