package identity

import (
	"context"

	"github.com/storehub/backend/internal/domain/shared"
)

// RoleRepository defines the interface for role persistence operations
type RoleRepository interface {
	// Create creates a new role and its permission links
	Create(ctx context.Context, role *Role) error

	// Update renames a role and replaces its permission links
	Update(ctx context.Context, role *Role) error

	// Delete deletes a role and its links
	Delete(ctx context.Context, id uint) error

	// FindByID finds a role by ID with permissions loaded
	FindByID(ctx context.Context, id uint) (*Role, error)

	// FindByName finds a role by name with permissions loaded
	FindByName(ctx context.Context, name string) (*Role, error)

	// FindAll returns a page of roles with permissions loaded
	FindAll(ctx context.Context, filter shared.Filter) ([]*Role, int64, error)

	// ExistsByName checks whether name is used by a role other than excludeID
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
}

// PermissionRepository provides read access to permissions
type PermissionRepository interface {
	// FindAll returns every permission ordered by name
	FindAll(ctx context.Context) ([]Permission, error)

	// FindByNames returns the permissions whose names are in names
	FindByNames(ctx context.Context, names []string) ([]Permission, error)
}
