package authz

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls atomic.Int64
	roles []Role
	err   error
}

func (s *countingSource) ListRoles(ctx context.Context, tenantKey string) ([]Role, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.roles, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(source RoleSource, ttl time.Duration) (*RoleCache, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	cache := NewRoleCache(source, ttl)
	cache.now = clock.Now
	return cache, clock
}

func TestRoleCacheServesWithinTTL(t *testing.T) {
	source := &countingSource{roles: []Role{{Key: "cashier", Scope: ScopeTenant}}}
	cache, clock := newTestCache(source, time.Minute)
	ctx := context.Background()

	first, err := cache.Get(ctx, "acme")
	require.NoError(t, err)
	require.Contains(t, first, "cashier")

	clock.Advance(30 * time.Second)
	_, err = cache.Get(ctx, "acme")
	require.NoError(t, err)
	require.EqualValues(t, 1, source.calls.Load())
}

func TestRoleCacheExpires(t *testing.T) {
	source := &countingSource{roles: []Role{{Key: "cashier"}}}
	cache, clock := newTestCache(source, time.Minute)
	ctx := context.Background()

	_, err := cache.Get(ctx, "acme")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = cache.Get(ctx, "acme")
	require.NoError(t, err)
	require.EqualValues(t, 2, source.calls.Load())
}

func TestRoleCacheInvalidateForcesReload(t *testing.T) {
	source := &countingSource{roles: []Role{{Key: "cashier"}}}
	cache, _ := newTestCache(source, time.Minute)
	ctx := context.Background()

	_, err := cache.Get(ctx, "acme")
	require.NoError(t, err)

	cache.Invalidate("acme")
	_, err = cache.Get(ctx, "acme")
	require.NoError(t, err)
	require.EqualValues(t, 2, source.calls.Load())
}

func TestRoleCacheTenantsAreIsolated(t *testing.T) {
	source := &countingSource{roles: []Role{{Key: "cashier"}}}
	cache, _ := newTestCache(source, time.Minute)
	ctx := context.Background()

	_, err := cache.Get(ctx, "acme")
	require.NoError(t, err)
	_, err = cache.Get(ctx, "globex")
	require.NoError(t, err)
	require.EqualValues(t, 2, source.calls.Load())

	cache.Invalidate("acme")
	_, err = cache.Get(ctx, "globex")
	require.NoError(t, err)
	require.EqualValues(t, 2, source.calls.Load())
}

func TestRoleCachePropagatesSourceError(t *testing.T) {
	source := &countingSource{err: errors.New("store down")}
	cache, _ := newTestCache(source, time.Minute)

	_, err := cache.Get(context.Background(), "acme")
	require.Error(t, err)
}

func TestRoleCacheNormalizesKeys(t *testing.T) {
	source := &countingSource{roles: []Role{
		{Key: " Cashier ", Permissions: []string{"orders.read"}},
		{Key: ""},
	}}
	cache, _ := newTestCache(source, time.Minute)

	roles, err := cache.Get(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Contains(t, roles, "cashier")
}

func TestRoleCacheConcurrentMisses(t *testing.T) {
	source := &countingSource{roles: []Role{{Key: "cashier"}}}
	cache, _ := newTestCache(source, time.Minute)
	ctx := context.Background()

	const goroutines = 32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			<-start
			roles, err := cache.Get(ctx, "acme")
			require.NoError(t, err)
			require.Contains(t, roles, "cashier")
		}()
	}
	close(start)
	wg.Wait()

	// Concurrent misses may each reload, but never more often than the
	// number of callers, and a fresh entry must exist afterwards.
	calls := source.calls.Load()
	require.GreaterOrEqual(t, calls, int64(1))
	require.LessOrEqual(t, calls, int64(goroutines))

	_, err := cache.Get(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, calls, source.calls.Load())
}

func TestRoleCacheConcurrentReadersAndInvalidation(t *testing.T) {
	source := &countingSource{roles: []Role{{Key: "cashier"}}}
	cache, _ := newTestCache(source, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, err := cache.Get(ctx, "acme")
				require.NoError(t, err)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			cache.Invalidate("acme")
		}
	}()
	wg.Wait()
}
