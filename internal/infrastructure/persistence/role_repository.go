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

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Create creates a new role and its permission links
func (r *GormRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.RoleModelFromDomain(role)
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		role.BaseEntity = model.BaseModel.ToDomain()
		return insertRolePermissions(tx, model.ID, role.PermissionIDs())
	})
}

// Update renames a role and replaces its permission links
func (r *GormRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RoleModel{}).Where("id = ?", role.ID).Update("name", role.Name)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return err
		}
		return insertRolePermissions(tx, role.ID, role.PermissionIDs())
	})
}

// Delete removes the role together with its permission and user links
func (r *GormRoleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.UserRoleModel{}).Error; err != nil {
			return err
		}
		return audit.ForceDelete(ctx, tx, &models.RoleModel{}, id)
	})
}

// FindByID finds a role by ID with permissions loaded
func (r *GormRoleRepository) FindByID(ctx context.Context, id uint) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.withPermissions(ctx).First(&model, id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a role by name with permissions loaded
func (r *GormRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.withPermissions(ctx).Where("name = ?", strings.TrimSpace(name)).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of roles with permissions loaded
func (r *GormRoleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Role, int64, error) {
	filter = filter.Normalize()

	query := likeAny(r.db.WithContext(ctx).Model(&models.RoleModel{}), filter.Search, "roles.name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roleModels []models.RoleModel
	if err := query.
		Preload("Permissions", orderPermissions).
		Order(orderClause("roles", filter.SortBy, filter.SortOrder, RoleSortFields, "id")).
		Scopes(paginate(filter)).
		Find(&roleModels).Error; err != nil {
		return nil, 0, err
	}

	roles := make([]*identity.Role, len(roleModels))
	for i := range roleModels {
		roles[i] = roleModels[i].ToDomain()
	}
	return roles, total, nil
}

// ExistsByName checks whether name is used by a role other than excludeID
func (r *GormRoleRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.RoleModel{}).Where("name = ?", strings.TrimSpace(name))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRoleRepository) withPermissions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Permissions", orderPermissions)
}

func orderPermissions(db *gorm.DB) *gorm.DB {
	return db.Order("permissions.name")
}

func insertRolePermissions(tx *gorm.DB, roleID uint, permissionIDs []uint) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	rows := make([]models.RolePermissionModel, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		rows = append(rows, models.RolePermissionModel{RoleID: roleID, PermissionID: pid})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// GormPermissionRepository implements PermissionRepository using GORM
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewGormPermissionRepository creates a new GormPermissionRepository
func NewGormPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

// FindAll returns every permission ordered by name
func (r *GormPermissionRepository) FindAll(ctx context.Context) ([]identity.Permission, error) {
	var ms []models.PermissionModel
	if err := r.db.WithContext(ctx).Order("name").Find(&ms).Error; err != nil {
		return nil, err
	}
	return models.PermissionsToDomain(ms), nil
}

// FindByNames returns the permissions whose names are in names
func (r *GormPermissionRepository) FindByNames(ctx context.Context, names []string) ([]identity.Permission, error) {
	if len(names) == 0 {
		return []identity.Permission{}, nil
	}
	var ms []models.PermissionModel
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Order("name").Find(&ms).Error; err != nil {
		return nil, err
	}
	return models.PermissionsToDomain(ms), nil
}

var (
	_ identity.RoleRepository       = (*GormRoleRepository)(nil)
	_ identity.PermissionRepository = (*GormPermissionRepository)(nil)
)
