package models

import "github.com/storehub/backend/internal/domain/setting"

// SettingModel is the persistence model for a per-store setting.
// (store_id, key) is unique across live and soft-deleted rows.
type SettingModel struct {
	AuditModel
	StoreID uint    `gorm:"not null;uniqueIndex:idx_settings_store_key"`
	Key     string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_settings_store_key"`
	Value   *string `gorm:"type:text"`
	Type    string  `gorm:"type:varchar(20);not null;default:'string'"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting
func (m *SettingModel) ToDomain() *setting.Setting {
	return &setting.Setting{
		AuditedEntity: m.ToAuditedEntity(),
		StoreID:       m.StoreID,
		Key:           m.Key,
		Value:         m.Value,
		Type:          setting.ValueType(m.Type),
	}
}

// SettingModelFromDomain creates a persistence model from a domain Setting
func SettingModelFromDomain(s *setting.Setting) *SettingModel {
	m := &SettingModel{
		StoreID: s.StoreID,
		Key:     s.Key,
		Value:   s.Value,
		Type:    string(s.Type),
	}
	m.FromAuditedEntity(s.AuditedEntity)
	return m
}
