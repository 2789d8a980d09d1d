package tenancy

import (
	"context"

	"github.com/storehub/backend/internal/domain/shared"
)

// StoreRepository defines persistence operations for stores
type StoreRepository interface {
	Create(ctx context.Context, store *Store) error
	Update(ctx context.Context, store *Store) error

	// SoftDelete marks the store deleted, stamping deleted_by
	SoftDelete(ctx context.Context, id uint) error

	// Restore undoes a soft delete, clearing deleted_by
	Restore(ctx context.Context, id uint) error

	FindByID(ctx context.Context, id uint) (*Store, error)

	// FindByIDWithTrashed also returns soft-deleted stores
	FindByIDWithTrashed(ctx context.Context, id uint) (*Store, error)

	FindByIDs(ctx context.Context, ids []uint) ([]*Store, error)

	// FindAll returns a page of stores with member counts
	FindAll(ctx context.Context, filter shared.Filter) ([]StoreSummary, int64, error)

	// FindMembers returns users holding a membership of the store
	FindMembers(ctx context.Context, storeID uint) ([]StoreMember, error)

	// ExistsByCode checks whether code is used by a store other than excludeID
	ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error)
}
