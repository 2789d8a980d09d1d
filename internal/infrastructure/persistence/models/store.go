package models

import "github.com/storehub/backend/internal/domain/tenancy"

// StoreModel is the persistence model for the Store domain entity.
type StoreModel struct {
	AuditModel
	Name       string  `gorm:"type:varchar(255);not null"`
	Code       *string `gorm:"type:varchar(255);uniqueIndex"`
	Address    *string `gorm:"type:text"`
	City       *string `gorm:"type:varchar(255)"`
	State      *string `gorm:"type:varchar(255)"`
	Country    *string `gorm:"type:varchar(255)"`
	PostalCode *string `gorm:"type:varchar(255)"`
	Phone      *string `gorm:"type:varchar(255)"`
	Email      *string `gorm:"type:varchar(255)"`
	Status     string  `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store
func (m *StoreModel) ToDomain() *tenancy.Store {
	return &tenancy.Store{
		AuditedEntity: m.ToAuditedEntity(),
		Name:          m.Name,
		Code:          m.Code,
		Address:       deref(m.Address),
		City:          deref(m.City),
		State:         deref(m.State),
		Country:       deref(m.Country),
		PostalCode:    deref(m.PostalCode),
		Phone:         deref(m.Phone),
		Email:         deref(m.Email),
		Status:        tenancy.StoreStatus(m.Status),
	}
}

// StoreModelFromDomain creates a persistence model from a domain Store
func StoreModelFromDomain(s *tenancy.Store) *StoreModel {
	m := &StoreModel{
		Name:       s.Name,
		Code:       s.Code,
		Address:    nullable(s.Address),
		City:       nullable(s.City),
		State:      nullable(s.State),
		Country:    nullable(s.Country),
		PostalCode: nullable(s.PostalCode),
		Phone:      nullable(s.Phone),
		Email:      nullable(s.Email),
		Status:     string(s.Status),
	}
	m.FromAuditedEntity(s.AuditedEntity)
	return m
}
