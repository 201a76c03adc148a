package authz

import "strings"

// Aggregate merges an account's coarse roles and scoped grants into one
// effective granted-permission set against a tenant role snapshot.
//
// Coarse roles always apply tenant-wide, even when the underlying role
// declares branch scope. Scoped grants of a tenant-scoped role also apply
// unconditionally; scoped grants of a branch-scoped role apply only when
// the grant's branch matches the resolved branch context. Role keys absent
// from the snapshot are skipped.
func Aggregate(account Account, roles RoleMap, branchContext string) map[string]struct{} {
	granted := make(map[string]struct{})
	for _, key := range account.Roles {
		if role, ok := roles[normalizeKey(key)]; ok {
			addPermissions(granted, role.Permissions)
		}
	}
	branch := strings.TrimSpace(branchContext)
	for _, grant := range account.Grants {
		role, ok := roles[normalizeKey(grant.RoleKey)]
		if !ok {
			continue
		}
		if role.Scope != ScopeBranch {
			addPermissions(granted, role.Permissions)
			continue
		}
		grantBranch := strings.TrimSpace(grant.BranchID)
		if grantBranch != "" && branch != "" && grantBranch == branch {
			addPermissions(granted, role.Permissions)
		}
	}
	return granted
}

func addPermissions(granted map[string]struct{}, perms []string) {
	for _, p := range perms {
		p = normalizeKey(p)
		if p == "" {
			continue
		}
		granted[p] = struct{}{}
	}
}
