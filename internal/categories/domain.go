package categories

import "time"

// Category groups menu items for a tenant.
type Category struct {
	ID        int64
	TenantID  int64
	Name      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
