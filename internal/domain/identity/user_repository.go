package identity

import (
	"context"

	"github.com/storehub/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user together with its memberships
	Create(ctx context.Context, user *User) error

	// Update updates profile and store columns of an existing user
	Update(ctx context.Context, user *User) error

	// SoftDelete marks a user deleted, stamping deleted_by
	SoftDelete(ctx context.Context, id uint) error

	// FindByID finds a user by ID with roles, permissions and memberships loaded
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail finds a user by email with roles and memberships loaded
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns a page of users matching the filter
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	// ExistsByEmail checks whether email is used by a user other than excludeID
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)

	// ExistsByEmployeeID checks whether employeeID is used by a user other than excludeID
	ExistsByEmployeeID(ctx context.Context, employeeID string, excludeID uint) (bool, error)

	// AddMembership inserts a user/store membership row
	AddMembership(ctx context.Context, userID, storeID uint) error

	// RemoveMembership deletes a membership row and, when clearDefault is
	// set, clears the default store in the same transaction
	RemoveMembership(ctx context.Context, userID, storeID uint, clearDefault bool) error

	// UpdateDefaultStore persists only the default_store_id column
	UpdateDefaultStore(ctx context.Context, userID uint, storeID *uint) error

	// SyncRoles replaces the user's roles
	SyncRoles(ctx context.Context, userID uint, roleIDs []uint) error
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter

	// StoreID restricts results to users with access to the store through
	// their primary store, default store or a membership
	StoreID *uint
}
