package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

func TestGormRoleRepository_CRUD(t *testing.T) {
	db := setupRepoDB(t)
	ctx := context.Background()
	repo := NewGormRoleRepository(db)
	perms := seedPermissions(t, db, "view stores", "edit stores", "view users")

	role, err := identity.NewRole("manager")
	require.NoError(t, err)
	role.SetPermissions(perms[:2])
	require.NoError(t, repo.Create(ctx, role))
	require.NotZero(t, role.ID)

	found, err := repo.FindByName(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, []string{"edit stores", "view stores"}, found.PermissionNames())

	require.NoError(t, found.Rename("store manager"))
	found.SetPermissions(perms[2:])
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "store manager", updated.Name)
	assert.Equal(t, []string{"view users"}, updated.PermissionNames())

	exists, err := repo.ExistsByName(ctx, "store manager", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByName(ctx, "store manager", role.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	missing := &identity.Role{Name: "nobody"}
	missing.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, missing), shared.ErrNotFound)
}

func TestGormRoleRepository_DeleteRemovesLinks(t *testing.T) {
	db := setupRepoDB(t)
	ctx := context.Background()
	repo := NewGormRoleRepository(db)
	perms := seedPermissions(t, db, "view roles")

	role := &identity.Role{Name: "temp"}
	role.SetPermissions(perms)
	require.NoError(t, repo.Create(ctx, role))

	user := newTestUser("holder@example.com")
	user.Roles = []*identity.Role{role}
	require.NoError(t, NewGormUserRepository(db).Create(ctx, user))

	require.NoError(t, repo.Delete(ctx, role.ID))

	_, err := repo.FindByID(ctx, role.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var links int64
	require.NoError(t, db.Model(&models.RolePermissionModel{}).Where("role_id = ?", role.ID).Count(&links).Error)
	assert.Zero(t, links)
	require.NoError(t, db.Model(&models.UserRoleModel{}).Where("role_id = ?", role.ID).Count(&links).Error)
	assert.Zero(t, links)

	assert.ErrorIs(t, repo.Delete(ctx, role.ID), shared.ErrNotFound)
}

func TestGormRoleRepository_FindAll(t *testing.T) {
	db := setupRepoDB(t)
	ctx := context.Background()
	repo := NewGormRoleRepository(db)

	for _, name := range []string{"admin", "user", "auditor"} {
		require.NoError(t, repo.Create(ctx, &identity.Role{Name: name}))
	}

	roles, total, err := repo.FindAll(ctx, shared.Filter{SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, roles, 3)
	assert.Equal(t, "admin", roles[0].Name)
	assert.Equal(t, "user", roles[2].Name)

	roles, total, err = repo.FindAll(ctx, shared.Filter{Search: "AUD"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "auditor", roles[0].Name)
}

func TestGormPermissionRepository(t *testing.T) {
	db := setupRepoDB(t)
	ctx := context.Background()
	seedPermissions(t, db, "view users", "create users", "delete users")
	repo := NewGormPermissionRepository(db)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "create users", all[0].Name)

	some, err := repo.FindByNames(ctx, []string{"view users", "unknown"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "view users", some[0].Name)

	none, err := repo.FindByNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
