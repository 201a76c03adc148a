package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testRoles() RoleMap {
	return RoleMap{
		"cashier": {
			Key:         "cashier",
			Permissions: []string{"orders.read", "orders.create"},
			Scope:       ScopeTenant,
		},
		"shift_manager": {
			Key:         "shift_manager",
			Permissions: []string{"till.*"},
			Scope:       ScopeBranch,
		},
		"stockkeeper": {
			Key:         "stockkeeper",
			Permissions: []string{"inventory.view", "inventory.adjust"},
			Scope:       ScopeTenant,
		},
	}
}

func TestAggregateCoarseRoles(t *testing.T) {
	account := Account{Roles: []string{"cashier"}}
	granted := Aggregate(account, testRoles(), "")

	require.Contains(t, granted, "orders.read")
	require.Contains(t, granted, "orders.create")
	require.NotContains(t, granted, "till.*")
}

// Coarse roles apply tenant-wide even when the role itself is branch
// scoped. This mirrors the historical behavior and must not change without
// a deliberate product decision.
func TestAggregateCoarseRoleIgnoresBranchScope(t *testing.T) {
	account := Account{Roles: []string{"shift_manager"}}

	granted := Aggregate(account, testRoles(), "")
	require.Contains(t, granted, "till.*")

	granted = Aggregate(account, testRoles(), "B2")
	require.Contains(t, granted, "till.*")
}

func TestAggregateScopedGrantTenantRole(t *testing.T) {
	// A tenant-scoped role attached via a scoped grant applies regardless
	// of branch context.
	account := Account{Grants: []ScopedGrant{{RoleKey: "stockkeeper", BranchID: "B1"}}}

	granted := Aggregate(account, testRoles(), "B2")
	require.Contains(t, granted, "inventory.view")

	granted = Aggregate(account, testRoles(), "")
	require.Contains(t, granted, "inventory.adjust")
}

func TestAggregateScopedGrantBranchRole(t *testing.T) {
	account := Account{Grants: []ScopedGrant{{RoleKey: "shift_manager", BranchID: "B1"}}}

	granted := Aggregate(account, testRoles(), "B1")
	require.Contains(t, granted, "till.*")

	granted = Aggregate(account, testRoles(), "B2")
	require.Empty(t, granted)

	granted = Aggregate(account, testRoles(), "")
	require.Empty(t, granted)

	// A grant without a branch never matches, even without context.
	account = Account{Grants: []ScopedGrant{{RoleKey: "shift_manager"}}}
	granted = Aggregate(account, testRoles(), "")
	require.Empty(t, granted)
}

func TestAggregateBranchComparisonTrimsSpace(t *testing.T) {
	account := Account{Grants: []ScopedGrant{{RoleKey: "shift_manager", BranchID: " B1 "}}}
	granted := Aggregate(account, testRoles(), "B1")
	require.Contains(t, granted, "till.*")
}

func TestAggregateUnknownRolesSkipped(t *testing.T) {
	account := Account{
		Roles:  []string{"ghost", "cashier"},
		Grants: []ScopedGrant{{RoleKey: "phantom", BranchID: "B1"}},
	}
	granted := Aggregate(account, testRoles(), "B1")
	require.Contains(t, granted, "orders.read")
	require.Len(t, granted, 2)
}

func TestAggregateDeduplicates(t *testing.T) {
	roles := RoleMap{
		"a": {Key: "a", Permissions: []string{"menu.read"}, Scope: ScopeTenant},
		"b": {Key: "b", Permissions: []string{"menu.read"}, Scope: ScopeTenant},
	}
	account := Account{Roles: []string{"a", "b"}}
	granted := Aggregate(account, roles, "")
	require.Len(t, granted, 1)
}
