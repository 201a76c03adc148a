package till

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/shared"
)

type memoryRepo struct {
	sessions map[int64]Session
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: make(map[int64]Session)}
}

func (r *memoryRepo) FindOpen(ctx context.Context, tenantID int64, branchID string) (*Session, error) {
	for _, s := range r.sessions {
		if s.BranchID == branchID && s.Status == StatusOpen {
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) ListByBranch(ctx context.Context, tenantID int64, branchID string) ([]Session, error) {
	var out []Session
	for _, s := range r.sessions {
		if s.BranchID == branchID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memoryRepo) Insert(ctx context.Context, session Session) (Session, error) {
	r.nextID++
	session.ID = r.nextID
	session.Status = StatusOpen
	session.OpenedAt = time.Now()
	r.sessions[session.ID] = session
	return session, nil
}

func (r *memoryRepo) Close(ctx context.Context, tenantID, sessionID, closedBy, closingAmount int64) (Session, error) {
	s, ok := r.sessions[sessionID]
	if !ok || s.Status != StatusOpen {
		return Session{}, ErrSessionClosed
	}
	now := time.Now()
	s.Status = StatusClosed
	s.ClosedBy = closedBy
	s.ClosingAmount = closingAmount
	s.ClosedAt = &now
	r.sessions[sessionID] = s
	return s, nil
}

var testTenant = shared.Tenant{ID: 1, Key: "acme"}

func TestOpenAndCloseSession(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	session, err := svc.Open(ctx, testTenant, "B1", 42, 10000)
	require.NoError(t, err)
	require.Equal(t, StatusOpen, session.Status)
	require.Equal(t, "B1", session.BranchID)

	closed, err := svc.Close(ctx, testTenant, "B1", 43, 25000)
	require.NoError(t, err)
	require.Equal(t, StatusClosed, closed.Status)
	require.EqualValues(t, 25000, closed.ClosingAmount)
}

func TestOpenTwiceRejected(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Open(ctx, testTenant, "B1", 42, 10000)
	require.NoError(t, err)

	_, err = svc.Open(ctx, testTenant, "B1", 42, 10000)
	require.ErrorIs(t, err, ErrSessionOpen)

	// A different branch can still open.
	_, err = svc.Open(ctx, testTenant, "B2", 42, 10000)
	require.NoError(t, err)
}

func TestCloseWithoutOpenRejected(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Close(context.Background(), testTenant, "B1", 42, 0)
	require.ErrorIs(t, err, ErrSessionClosed)
}
