package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/setting"
	"github.com/storehub/backend/internal/infrastructure/persistence/audit"
	"github.com/storehub/backend/internal/infrastructure/persistence/models"
)

// GormSettingRepository implements setting.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

func storeKey(storeID uint, key string) map[string]any {
	return map[string]any{"store_id": storeID, "key": key}
}

// FindAll returns the live settings of a store ordered by key
func (r *GormSettingRepository) FindAll(ctx context.Context, storeID uint) ([]*setting.Setting, error) {
	var ms []models.SettingModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order(`"key"`).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*setting.Setting, len(ms))
	for i := range ms {
		out[i] = ms[i].ToDomain()
	}
	return out, nil
}

// FindByKey returns a live setting of a store
func (r *GormSettingRepository) FindByKey(ctx context.Context, storeID uint, key string) (*setting.Setting, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).Where(storeKey(storeID, key)).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Save inserts or updates the (store, key) row, restoring it when it was
// soft deleted
func (r *GormSettingRepository) Save(ctx context.Context, s *setting.Setting) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.SettingModel
		err := tx.Unscoped().Where(storeKey(s.StoreID, s.Key)).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			model := models.SettingModelFromDomain(s)
			if err := tx.Create(model).Error; err != nil {
				return err
			}
			s.AuditedEntity = model.ToAuditedEntity()
			return nil
		case err != nil:
			return err
		}

		if err := tx.Unscoped().Model(&existing).Updates(map[string]any{
			"value":      s.Value,
			"type":       string(s.Type),
			"deleted_at": nil,
			"deleted_by": nil,
		}).Error; err != nil {
			return err
		}
		if err := tx.First(&existing, existing.ID).Error; err != nil {
			return err
		}
		*s = *existing.ToDomain()
		return nil
	})
}

// SoftDelete marks the (store, key) row deleted
func (r *GormSettingRepository) SoftDelete(ctx context.Context, storeID uint, key string) error {
	return audit.SoftDelete(ctx, r.db, &models.SettingModel{}, storeKey(storeID, key))
}

// Ensure GormSettingRepository implements setting.Repository
var _ setting.Repository = (*GormSettingRepository)(nil)
