package persistence

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/infrastructure/persistence/audit"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user together with its memberships and roles
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.UserModelFromDomain(user)
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		user.AuditedEntity = model.ToAuditedEntity()

		for _, storeID := range user.StoreIDs {
			if err := tx.Create(&models.UserStoreModel{UserID: model.ID, StoreID: storeID}).Error; err != nil {
				return err
			}
		}

		roleIDs := make([]uint, 0, len(user.Roles))
		for _, role := range user.Roles {
			roleIDs = append(roleIDs, role.ID)
		}
		return insertUserRoles(tx, model.ID, roleIDs)
	})
}

// Update updates profile and store columns of an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := updateAll(ctx, r.db, model); err != nil {
		return err
	}
	user.UpdatedAt = model.UpdatedAt
	user.UpdatedBy = model.UpdatedBy
	return nil
}

// SoftDelete marks a user deleted, stamping deleted_by
func (r *GormUserRepository) SoftDelete(ctx context.Context, id uint) error {
	return audit.SoftDelete(ctx, r.db, &models.UserModel{}, "id = ?", id)
}

// FindByID finds a user by ID with roles, permissions and memberships loaded
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*identity.User, error) {
	var model models.UserModel
	if err := r.withRoles(ctx).First(&model, id).Error; err != nil {
		return nil, notFound(err)
	}
	return r.hydrateOne(ctx, &model)
}

// FindByEmail finds a user by email with roles and memberships loaded
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.ErrNotFound
	}
	var model models.UserModel
	if err := r.withRoles(ctx).Where("LOWER(email) = ?", email).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return r.hydrateOne(ctx, &model)
}

// FindAll returns a page of users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	filter.Filter = filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	query = likeAny(query, filter.Search, "users.first_name", "users.last_name", "users.email")
	if filter.StoreID != nil {
		id := *filter.StoreID
		query = query.Where(
			"(users.store_id = ? OR users.default_store_id = ? OR EXISTS (SELECT 1 FROM user_store WHERE user_store.user_id = users.id AND user_store.store_id = ?))",
			id, id, id,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var userModels []models.UserModel
	if err := query.
		Preload("Roles.Permissions", orderPermissions).
		Order(orderClause("users", filter.SortBy, filter.SortOrder, UserSortFields, "id")).
		Scopes(paginate(filter.Filter)).
		Find(&userModels).Error; err != nil {
		return nil, 0, err
	}

	users, err := r.hydrate(ctx, userModels)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ExistsByEmail checks whether email is used by a user other than excludeID.
// Soft-deleted users keep their address reserved.
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)), excludeID)
}

// ExistsByEmployeeID checks whether employeeID is used by a user other than excludeID
func (r *GormUserRepository) ExistsByEmployeeID(ctx context.Context, employeeID string, excludeID uint) (bool, error) {
	return r.exists(ctx, "employee_id = ?", employeeID, excludeID)
}

func (r *GormUserRepository) exists(ctx context.Context, cond string, value any, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&models.UserModel{}).Where(cond, value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMembership inserts a user/store membership row
func (r *GormUserRepository) AddMembership(ctx context.Context, userID, storeID uint) error {
	return r.db.WithContext(ctx).Create(&models.UserStoreModel{UserID: userID, StoreID: storeID}).Error
}

// RemoveMembership deletes a membership row and optionally clears the
// default store in the same transaction
func (r *GormUserRepository) RemoveMembership(ctx context.Context, userID, storeID uint, clearDefault bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND store_id = ?", userID, storeID).Delete(&models.UserStoreModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if !clearDefault {
			return nil
		}
		return tx.Model(&models.UserModel{}).
			Where("id = ?", userID).
			Update("default_store_id", nil).Error
	})
}

// UpdateDefaultStore persists only the default_store_id column
func (r *GormUserRepository) UpdateDefaultStore(ctx context.Context, userID uint, storeID *uint) error {
	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("default_store_id", storeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SyncRoles replaces the user's roles
func (r *GormUserRepository) SyncRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRoleModel{}).Error; err != nil {
			return err
		}
		return insertUserRoles(tx, userID, roleIDs)
	})
}

func insertUserRoles(tx *gorm.DB, userID uint, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}
	rows := make([]models.UserRoleModel, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		rows = append(rows, models.UserRoleModel{UserID: userID, RoleID: roleID})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *GormUserRepository) withRoles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Roles.Permissions", orderPermissions)
}

func (r *GormUserRepository) hydrateOne(ctx context.Context, model *models.UserModel) (*identity.User, error) {
	users, err := r.hydrate(ctx, []models.UserModel{*model})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

// hydrate converts models and attaches memberships of live stores
func (r *GormUserRepository) hydrate(ctx context.Context, userModels []models.UserModel) ([]*identity.User, error) {
	users := make([]*identity.User, len(userModels))
	if len(userModels) == 0 {
		return users, nil
	}
	ids := make([]uint, len(userModels))
	for i := range userModels {
		ids[i] = userModels[i].ID
	}

	var rows []models.UserStoreModel
	if err := r.db.WithContext(ctx).
		Model(&models.UserStoreModel{}).
		Joins("JOIN stores ON stores.id = user_store.store_id AND stores.deleted_at IS NULL").
		Where("user_store.user_id IN ?", ids).
		Order("user_store.store_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byUser := make(map[uint][]uint, len(ids))
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], row.StoreID)
	}

	for i := range userModels {
		users[i] = userModels[i].ToDomain()
		if storeIDs, ok := byUser[userModels[i].ID]; ok {
			users[i].StoreIDs = storeIDs
		}
	}
	return users, nil
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
