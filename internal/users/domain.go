package users

import (
	"time"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
)

// User represents a staff account within a tenant.
type User struct {
	ID           int64
	TenantID     int64
	Email        string
	Name         string
	PasswordHash string
	Status       string
	Roles        []string
	Grants       []authz.ScopedGrant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
