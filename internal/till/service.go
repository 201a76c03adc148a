package till

import (
	"context"
	"errors"
	"strings"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	FindOpen(ctx context.Context, tenantID int64, branchID string) (*Session, error)
	ListByBranch(ctx context.Context, tenantID int64, branchID string) ([]Session, error)
	Insert(ctx context.Context, session Session) (Session, error)
	Close(ctx context.Context, tenantID, sessionID, closedBy, closingAmount int64) (Session, error)
}

// Service coordinates till session lifecycle. One open session per branch.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a branch's sessions.
func (s *Service) List(ctx context.Context, tenant shared.Tenant, branchID string) ([]Session, error) {
	return s.repo.ListByBranch(ctx, tenant.ID, strings.TrimSpace(branchID))
}

// Open starts a session at the branch with the given opening float.
func (s *Service) Open(ctx context.Context, tenant shared.Tenant, branchID string, openedBy, openingFloat int64) (Session, error) {
	branchID = strings.TrimSpace(branchID)
	if branchID == "" {
		return Session{}, errors.New("till: branch required")
	}
	if openingFloat < 0 {
		return Session{}, errors.New("till: opening float cannot be negative")
	}
	if _, err := s.repo.FindOpen(ctx, tenant.ID, branchID); err == nil {
		return Session{}, ErrSessionOpen
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Session{}, err
	}
	return s.repo.Insert(ctx, Session{
		TenantID:     tenant.ID,
		BranchID:     branchID,
		OpenedBy:     openedBy,
		OpeningFloat: openingFloat,
	})
}

// Close counts and closes the branch's open session.
func (s *Service) Close(ctx context.Context, tenant shared.Tenant, branchID string, closedBy, closingAmount int64) (Session, error) {
	branchID = strings.TrimSpace(branchID)
	open, err := s.repo.FindOpen(ctx, tenant.ID, branchID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Session{}, ErrSessionClosed
		}
		return Session{}, err
	}
	if closingAmount < 0 {
		return Session{}, errors.New("till: closing amount cannot be negative")
	}
	return s.repo.Close(ctx, tenant.ID, open.ID, closedBy, closingAmount)
}
