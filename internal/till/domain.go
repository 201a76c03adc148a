package till

import (
	"errors"
	"time"
)

// Session is one cash drawer period at a branch.
type Session struct {
	ID            int64
	TenantID      int64
	BranchID      string
	OpenedBy      int64
	ClosedBy      int64
	OpeningFloat  int64
	ClosingAmount int64
	Status        string
	OpenedAt      time.Time
	ClosedAt      *time.Time
}

const (
	// StatusOpen marks a session accepting transactions.
	StatusOpen = "open"
	// StatusClosed marks a counted and closed session.
	StatusClosed = "closed"
)

var (
	// ErrSessionOpen indicates a branch already has an open session.
	ErrSessionOpen = errors.New("till: branch already has an open session")
	// ErrSessionClosed indicates the session is not open.
	ErrSessionClosed = errors.New("till: session is not open")
)
