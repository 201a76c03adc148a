package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/users"
)

// UserSource looks up users for credential verification.
type UserSource interface {
	FindByEmail(ctx context.Context, tenantKey, email string) (*users.User, error)
}

// Service verifies credentials and manages bearer tokens. It only
// establishes identity; permission checks happen in the authorization
// guard downstream.
type Service struct {
	source UserSource
	tokens *TokenStore
}

// NewService builds Service instance.
func NewService(source UserSource, tokens *TokenStore) *Service {
	return &Service{source: source, tokens: tokens}
}

// Login verifies the credentials and issues a bearer token. Failures are
// uniformly reported as invalid credentials.
func (s *Service) Login(ctx context.Context, tenant shared.Tenant, email, password string) (string, error) {
	user, err := s.source.FindByEmail(ctx, tenant.Key, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", shared.ErrInvalidCredentials
	}
	return s.tokens.Issue(ctx, tenant.Key, user.ID)
}

// Logout revokes a bearer token.
func (s *Service) Logout(ctx context.Context, tenant shared.Tenant, token string) error {
	return s.tokens.Revoke(ctx, tenant.Key, token)
}

// Resolve maps a bearer token to a user id.
func (s *Service) Resolve(ctx context.Context, tenant shared.Tenant, token string) (int64, error) {
	return s.tokens.Resolve(ctx, tenant.Key, token)
}
