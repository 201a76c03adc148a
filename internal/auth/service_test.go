package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/users"
)

type stubUsers struct {
	user *users.User
}

func (s *stubUsers) FindByEmail(ctx context.Context, tenantKey, email string) (*users.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func newTestService(t *testing.T, user *users.User) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(&stubUsers{user: user}, NewTokenStore(client, time.Hour))
}

func testUser(t *testing.T, password string) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &users.User{ID: 7, Email: "cashier@acme.test", PasswordHash: string(hash)}
}

var tenant = shared.Tenant{ID: 1, Key: "acme"}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc := newTestService(t, testUser(t, "hunter2hunter2"))
	ctx := context.Background()

	token, err := svc.Login(ctx, tenant, "cashier@acme.test", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Resolve(ctx, tenant, token)
	require.NoError(t, err)
	require.EqualValues(t, 7, userID)

	// The token is bound to its tenant.
	_, err = svc.Resolve(ctx, shared.Tenant{ID: 2, Key: "globex"}, token)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc := newTestService(t, testUser(t, "hunter2hunter2"))

	_, err := svc.Login(context.Background(), tenant, "cashier@acme.test", "wrong-password")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Login(context.Background(), tenant, "ghost@acme.test", "hunter2hunter2")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestService(t, testUser(t, "hunter2hunter2"))
	ctx := context.Background()

	token, err := svc.Login(ctx, tenant, "cashier@acme.test", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tenant, token))
	_, err = svc.Resolve(ctx, tenant, token)
	require.ErrorIs(t, err, ErrTokenNotFound)
}
