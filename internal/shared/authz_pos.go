package shared

// POS permissions guarded by the authorization engine.
const (
	PermUsersView   = "users.view"
	PermUsersManage = "users.manage"

	PermRolesView   = "roles.view"
	PermRolesManage = "roles.manage"

	PermCategoriesView   = "categories.view"
	PermCategoriesManage = "categories.manage"

	PermInventoryView   = "inventory.view"
	PermInventoryManage = "inventory.manage"
	PermInventoryAdjust = "inventory.adjust"

	PermTillOpen  = "till.open"
	PermTillClose = "till.close"
	PermTillView  = "till.view"

	PermCommsSend = "comms.send"
)

// POSScopes lists every permission the backend guards with.
func POSScopes() []string {
	return []string{
		PermUsersView,
		PermUsersManage,
		PermRolesView,
		PermRolesManage,
		PermCategoriesView,
		PermCategoriesManage,
		PermInventoryView,
		PermInventoryManage,
		PermInventoryAdjust,
		PermTillOpen,
		PermTillClose,
		PermTillView,
		PermCommsSend,
	}
}
