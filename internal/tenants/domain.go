package tenants

import "time"

// Tenant is an isolated customer organization.
type Tenant struct {
	ID        int64
	Key       string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
