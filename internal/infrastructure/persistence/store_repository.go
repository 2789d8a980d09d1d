package persistence

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/persistence/audit"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

// usersCountExpr counts live users holding a membership of the store
const usersCountExpr = `(SELECT COUNT(*) FROM user_store
	JOIN users ON users.id = user_store.user_id AND users.deleted_at IS NULL
	WHERE user_store.store_id = stores.id) AS users_count`

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// Create persists a new store
func (r *GormStoreRepository) Create(ctx context.Context, store *tenancy.Store) error {
	model := models.StoreModelFromDomain(store)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	store.AuditedEntity = model.ToAuditedEntity()
	return nil
}

// Update saves all mutable columns of a live store
func (r *GormStoreRepository) Update(ctx context.Context, store *tenancy.Store) error {
	model := models.StoreModelFromDomain(store)
	if err := updateAll(ctx, r.db, model); err != nil {
		return err
	}
	store.UpdatedAt = model.UpdatedAt
	store.UpdatedBy = model.UpdatedBy
	return nil
}

// SoftDelete marks the store deleted, stamping deleted_by
func (r *GormStoreRepository) SoftDelete(ctx context.Context, id uint) error {
	return audit.SoftDelete(ctx, r.db, &models.StoreModel{}, "id = ?", id)
}

// Restore undoes a soft delete, clearing deleted_by
func (r *GormStoreRepository) Restore(ctx context.Context, id uint) error {
	return audit.Restore(ctx, r.db, &models.StoreModel{}, "id = ?", id)
}

// FindByID finds a live store
func (r *GormStoreRepository) FindByID(ctx context.Context, id uint) (*tenancy.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDWithTrashed finds a store whether or not it is soft deleted
func (r *GormStoreRepository) FindByIDWithTrashed(ctx context.Context, id uint) (*tenancy.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).Unscoped().First(&model, id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the live stores among ids, ordered by id
func (r *GormStoreRepository) FindByIDs(ctx context.Context, ids []uint) ([]*tenancy.Store, error) {
	stores := make([]*tenancy.Store, 0, len(ids))
	if len(ids) == 0 {
		return stores, nil
	}
	var ms []models.StoreModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	for i := range ms {
		stores = append(stores, ms[i].ToDomain())
	}
	return stores, nil
}

type storeWithCount struct {
	models.StoreModel
	UsersCount int64
}

// FindAll returns a page of live stores with member counts
func (r *GormStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.StoreSummary, int64, error) {
	filter = filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.StoreModel{})
	query = likeAny(query, filter.Search, "stores.name", "stores.code", "stores.city")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []storeWithCount
	if err := query.
		Select("stores.*, " + usersCountExpr).
		Order(orderClause("stores", filter.SortBy, filter.SortOrder, StoreSortFields, "id")).
		Scopes(paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]tenancy.StoreSummary, len(rows))
	for i := range rows {
		out[i] = tenancy.StoreSummary{Store: rows[i].StoreModel.ToDomain(), UsersCount: rows[i].UsersCount}
	}
	return out, total, nil
}

// FindMembers returns live users holding a membership of the store
func (r *GormStoreRepository) FindMembers(ctx context.Context, storeID uint) ([]tenancy.StoreMember, error) {
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).
		Select("users.id", "users.first_name", "users.last_name", "users.email").
		Joins("JOIN user_store ON user_store.user_id = users.id").
		Where("user_store.store_id = ?", storeID).
		Order("users.id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	members := make([]tenancy.StoreMember, len(rows))
	for i := range rows {
		members[i] = tenancy.StoreMember{
			ID:        rows[i].ID,
			FirstName: rows[i].FirstName,
			LastName:  rows[i].LastName,
			Email:     rows[i].Email,
		}
	}
	return members, nil
}

// ExistsByCode checks whether code is used by a store other than excludeID,
// counting soft-deleted stores too
func (r *GormStoreRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&models.StoreModel{}).Where("code = ?", code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormStoreRepository implements StoreRepository
var _ tenancy.StoreRepository = (*GormStoreRepository)(nil)
