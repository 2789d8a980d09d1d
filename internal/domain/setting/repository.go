package setting

import "context"

// Repository defines persistence operations for settings
type Repository interface {
	// FindAll returns the live settings of a store ordered by key
	FindAll(ctx context.Context, storeID uint) ([]*Setting, error)

	// FindByKey returns a live setting of a store
	FindByKey(ctx context.Context, storeID uint, key string) (*Setting, error)

	// Save inserts or updates the (store, key) row. A soft-deleted row with
	// the same key is restored.
	Save(ctx context.Context, s *Setting) error

	// SoftDelete marks the (store, key) row deleted
	SoftDelete(ctx context.Context, storeID uint, key string) error
}
