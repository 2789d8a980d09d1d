package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/storehub/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for tables without audit columns.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AuditModel extends BaseModel with actor columns and soft delete.
// created_by and updated_by are filled by the audit callbacks; deleted_by is
// written together with deleted_at by the audit helpers.
type AuditModel struct {
	BaseModel
	CreatedBy *uint          `gorm:"index"`
	UpdatedBy *uint          `gorm:"index"`
	DeletedBy *uint          `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ToAuditedEntity converts AuditModel to domain AuditedEntity
func (m *AuditModel) ToAuditedEntity() shared.AuditedEntity {
	e := shared.AuditedEntity{
		BaseEntity: m.BaseModel.ToDomain(),
		AuditInfo: shared.AuditInfo{
			CreatedBy: m.CreatedBy,
			UpdatedBy: m.UpdatedBy,
			DeletedBy: m.DeletedBy,
		},
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		e.DeletedAt = &t
	}
	return e
}

// FromAuditedEntity populates AuditModel from domain AuditedEntity
func (m *AuditModel) FromAuditedEntity(e shared.AuditedEntity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.CreatedBy = e.CreatedBy
	m.UpdatedBy = e.UpdatedBy
	m.DeletedBy = e.DeletedBy
	if e.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}
}

// nullable maps an empty string to NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// All returns every persistence model, in dependency order. Tests use it to
// build an in-memory schema; production schema comes from migrations.
func All() []any {
	return []any{
		&StoreModel{},
		&PermissionModel{},
		&RoleModel{},
		&RolePermissionModel{},
		&UserModel{},
		&UserRoleModel{},
		&UserStoreModel{},
		&ContactModel{},
		&SettingModel{},
	}
}
