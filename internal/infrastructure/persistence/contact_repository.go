package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/contact"
	"github.com/storehub/backend/internal/infrastructure/persistence/audit"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
	"github.com/storehub/backend/internal/infrastructure/persistence/scope"
)

// GormContactRepository implements contact.Repository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Create persists a new contact. A zero store_id is filled from the active
// store by the scope callback.
func (r *GormContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	model := models.ContactModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	c.AuditedEntity = model.ToAuditedEntity()
	c.StoreID = model.StoreID
	return nil
}

// Update saves all mutable columns of a live contact
func (r *GormContactRepository) Update(ctx context.Context, c *contact.Contact) error {
	model := models.ContactModelFromDomain(c)
	if err := updateAll(ctx, r.db, model); err != nil {
		return err
	}
	c.UpdatedAt = model.UpdatedAt
	c.UpdatedBy = model.UpdatedBy
	return nil
}

func (r *GormContactRepository) SoftDelete(ctx context.Context, id uint) error {
	return audit.SoftDelete(ctx, r.db, &models.ContactModel{}, "id = ?", id)
}

func (r *GormContactRepository) Restore(ctx context.Context, id uint) error {
	return audit.Restore(ctx, r.db, &models.ContactModel{}, "id = ?", id)
}

// FindByID returns a live contact belonging to one of storeIDs
func (r *GormContactRepository) FindByID(ctx context.Context, id uint, storeIDs []uint) (*contact.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Scopes(scope.Stores(storeIDs)).
		First(&model, id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindTrashedByID returns a soft-deleted contact belonging to one of storeIDs
func (r *GormContactRepository) FindTrashedByID(ctx context.Context, id uint, storeIDs []uint) (*contact.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Unscoped().
		Scopes(scope.Stores(storeIDs)).
		Where("deleted_at IS NOT NULL").
		First(&model, id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists contacts of filter.StoreIDs ordered by updated_at descending
// unless another whitelisted sort is requested
func (r *GormContactRepository) FindAll(ctx context.Context, filter contact.Filter) ([]*contact.Contact, int64, error) {
	filter.Filter = filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.ContactModel{}).Scopes(scope.Stores(filter.StoreIDs))
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.ClientType != nil {
		query = query.Where("client_type = ?", string(*filter.ClientType))
	}
	query = likeAny(query, filter.Search,
		"contacts.contact_name", "contacts.company_name", "contacts.email", "contacts.phone", "contacts.mobile")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.ContactModel
	if err := query.
		Order(orderClause("contacts", filter.SortBy, filter.SortOrder, ContactSortFields, "updated_at")).
		Order("contacts.id DESC").
		Scopes(paginate(filter.Filter)).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*contact.Contact, len(ms))
	for i := range ms {
		out[i] = ms[i].ToDomain()
	}
	return out, total, nil
}

// Ensure GormContactRepository implements contact.Repository
var _ contact.Repository = (*GormContactRepository)(nil)
