package authz

// Scope declares where a role's permissions apply.
type Scope string

const (
	// ScopeTenant grants a role's permissions across the whole tenant.
	ScopeTenant Scope = "tenant"
	// ScopeBranch limits a role's permissions to a specific branch.
	ScopeBranch Scope = "branch"
)

// Wildcard matches every permission when present in a granted set.
const Wildcard = "*"

// RoleOwner is the coarse role key that bypasses permission evaluation.
const RoleOwner = "owner"

// StatusActive is the only account status allowed to pass evaluation.
const StatusActive = "active"

// Role is a tenant-unique bundle of permission strings.
type Role struct {
	Key         string
	Permissions []string
	Scope       Scope
	IsSystem    bool
}

// RoleMap is a tenant's role snapshot keyed by role key.
type RoleMap map[string]Role

// ScopedGrant assigns a role to a user within a single branch. The branch
// qualifier is honored only when the role itself is branch scoped.
type ScopedGrant struct {
	RoleKey  string
	BranchID string
}

// Account is the authorization view of a user: coarse roles apply
// tenant-wide, scoped grants carry a branch qualifier.
type Account struct {
	ID     int64
	Status string
	Roles  []string
	Grants []ScopedGrant
}

// Active reports whether the account may be evaluated at all.
func (a Account) Active() bool {
	return a.Status == StatusActive
}

// IsOwner reports whether the account carries the owner coarse role.
func (a Account) IsOwner() bool {
	for _, key := range a.Roles {
		if normalizeKey(key) == RoleOwner {
			return true
		}
	}
	return false
}
