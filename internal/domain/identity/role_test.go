package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	t.Run("trims name", func(t *testing.T) {
		role, err := NewRole("  manager ")
		require.NoError(t, err)
		assert.Equal(t, "manager", role.Name)
		assert.Empty(t, role.Permissions)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewRole("   ")
		assert.Error(t, err)
	})

	t.Run("rejects long name", func(t *testing.T) {
		_, err := NewRole(strings.Repeat("a", 256))
		assert.Error(t, err)
	})
}

func TestRole_SetPermissions(t *testing.T) {
	role, err := NewRole("manager")
	require.NoError(t, err)

	role.SetPermissions([]Permission{
		{Name: "view users"},
		{Name: "view roles"},
		{Name: "view users"},
	})

	assert.Equal(t, []string{"view users", "view roles"}, role.PermissionNames())
	assert.True(t, role.HasPermission("view roles"))
	assert.False(t, role.HasPermission("edit roles"))
}

func TestAllPermissionNames(t *testing.T) {
	names := AllPermissionNames()

	assert.Len(t, names, 32)
	assert.Contains(t, names, "view contacts")
	assert.Contains(t, names, "edit settings")
	assert.Contains(t, names, "delete stores")
	assert.ElementsMatch(t, []string{"view products", "view orders", "create orders"}, DefaultUserPermissions())
}
