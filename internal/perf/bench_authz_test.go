package perf

import (
	"fmt"
	"testing"

	"github.com/HusnainYusufi/tritech-pos-backend-sub002/internal/authz"
)

// The permission check sits on every request, so it has to stay cheap even
// with a realistic role catalog.

func benchRoles() authz.RoleMap {
	roles := make(authz.RoleMap)
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("role_%d", i)
		roles[key] = authz.Role{
			Key: key,
			Permissions: []string{
				fmt.Sprintf("module%d.view", i),
				fmt.Sprintf("module%d.manage", i),
				fmt.Sprintf("module%d.reports.*", i),
			},
			Scope: authz.ScopeTenant,
		}
	}
	roles["cashier"] = authz.Role{
		Key:         "cashier",
		Permissions: []string{"inventory.view", "till.open", "till.close", "till.view"},
		Scope:       authz.ScopeBranch,
	}
	return roles
}

func BenchmarkAggregate(b *testing.B) {
	roles := benchRoles()
	account := authz.Account{
		ID:     7,
		Status: authz.StatusActive,
		Roles:  []string{"role_3", "role_11"},
		Grants: []authz.ScopedGrant{{RoleKey: "cashier", BranchID: "B1"}},
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		authz.Aggregate(account, roles, "B1")
	}
}

func BenchmarkHasAll(b *testing.B) {
	roles := benchRoles()
	account := authz.Account{
		ID:     7,
		Status: authz.StatusActive,
		Roles:  []string{"role_3", "role_11"},
		Grants: []authz.ScopedGrant{{RoleKey: "cashier", BranchID: "B1"}},
	}
	granted := authz.Aggregate(account, roles, "B1")
	required := []string{"till.close", "inventory.view"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		authz.HasAll(required, granted)
	}
}

func BenchmarkMatchesWildcard(b *testing.B) {
	for i := 0; i < b.N; i++ {
		authz.Matches("module3.reports.daily", "module3.reports.*")
	}
}
