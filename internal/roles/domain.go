package roles

import (
	"time"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
)

// Role is a managed role definition. The key is unique within a tenant.
type Role struct {
	ID          int64
	TenantID    int64
	Key         string
	Name        string
	Permissions []string
	Scope       authz.Scope
	IsSystem    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
