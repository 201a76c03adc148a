package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound indicates an unknown or expired token.
var ErrTokenNotFound = errors.New("auth: token not found")

// TokenStore keeps opaque bearer tokens in Redis, mapped to user ids and
// scoped per tenant so a token never crosses tenant boundaries.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenStore{client: client, ttl: ttl}
}

// Issue creates a token for the user and stores it with the configured TTL.
func (s *TokenStore) Issue(ctx context.Context, tenantKey string, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, tokenKey(tenantKey, token), userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user id behind a token.
func (s *TokenStore) Resolve(ctx context.Context, tenantKey, token string) (int64, error) {
	raw, err := s.client.Get(ctx, tokenKey(tenantKey, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrTokenNotFound
		}
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Revoke removes a token.
func (s *TokenStore) Revoke(ctx context.Context, tenantKey, token string) error {
	return s.client.Del(ctx, tokenKey(tenantKey, token)).Err()
}

func tokenKey(tenantKey, token string) string {
	return fmt.Sprintf("auth:token:%s:%s", tenantKey, token)
}
