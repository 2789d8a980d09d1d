package identity

// Permission actions
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Permission resources
const (
	ResourceUsers       = "users"
	ResourceRoles       = "roles"
	ResourcePermissions = "permissions"
	ResourceProducts    = "products"
	ResourceOrders      = "orders"
	ResourceStores      = "stores"
	ResourceContacts    = "contacts"
	ResourceSettings    = "settings"
)

var (
	permissionActions   = []string{ActionView, ActionCreate, ActionEdit, ActionDelete}
	permissionResources = []string{
		ResourceUsers, ResourceRoles, ResourcePermissions, ResourceProducts,
		ResourceOrders, ResourceStores, ResourceContacts, ResourceSettings,
	}
)

// PermissionName builds a permission name such as "view users"
func PermissionName(action, resource string) string {
	return action + " " + resource
}

// AllPermissionNames returns every built-in permission name
func AllPermissionNames() []string {
	names := make([]string, 0, len(permissionActions)*len(permissionResources))
	for _, res := range permissionResources {
		for _, act := range permissionActions {
			names = append(names, PermissionName(act, res))
		}
	}
	return names
}

// DefaultUserPermissions are granted to the built-in "user" role
func DefaultUserPermissions() []string {
	return []string{
		PermissionName(ActionView, ResourceProducts),
		PermissionName(ActionView, ResourceOrders),
		PermissionName(ActionCreate, ResourceOrders),
	}
}
