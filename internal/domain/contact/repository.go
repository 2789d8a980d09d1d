package contact

import "context"

// Repository defines persistence operations for contacts
type Repository interface {
	Create(ctx context.Context, c *Contact) error
	Update(ctx context.Context, c *Contact) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error

	// FindByID returns a live contact belonging to one of storeIDs
	FindByID(ctx context.Context, id uint, storeIDs []uint) (*Contact, error)

	// FindTrashedByID returns a soft-deleted contact belonging to one of storeIDs
	FindTrashedByID(ctx context.Context, id uint, storeIDs []uint) (*Contact, error)

	// FindAll lists contacts ordered by updated_at descending
	FindAll(ctx context.Context, filter Filter) ([]*Contact, int64, error)
}
