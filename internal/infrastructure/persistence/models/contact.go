package models

import "github.com/storehub/backend/internal/domain/contact"

// ContactModel is the persistence model for the Contact domain entity.
type ContactModel struct {
	AuditModel
	StoreID     *uint   `gorm:"index"`
	Type        string  `gorm:"type:varchar(20);not null;index"`
	ClientType  *string `gorm:"type:varchar(20)"`
	CompanyName *string `gorm:"type:varchar(255)"`
	ContactName string  `gorm:"type:varchar(255);not null"`
	Email       *string `gorm:"type:varchar(255)"`
	Phone       *string `gorm:"type:varchar(255)"`
	Mobile      *string `gorm:"type:varchar(255)"`
	Address     *string `gorm:"type:text"`
	City        *string `gorm:"type:varchar(255)"`
	State       *string `gorm:"type:varchar(255)"`
	Country     *string `gorm:"type:varchar(255)"`
	PostalCode  *string `gorm:"type:varchar(255)"`
	TaxID       *string `gorm:"column:tax_id;type:varchar(255)"`
	Notes       *string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *contact.Contact {
	c := &contact.Contact{
		AuditedEntity: m.ToAuditedEntity(),
		StoreID:       m.StoreID,
		Type:          contact.Type(m.Type),
		CompanyName:   deref(m.CompanyName),
		ContactName:   m.ContactName,
		Email:         deref(m.Email),
		Phone:         deref(m.Phone),
		Mobile:        deref(m.Mobile),
		Address:       deref(m.Address),
		City:          deref(m.City),
		State:         deref(m.State),
		Country:       deref(m.Country),
		PostalCode:    deref(m.PostalCode),
		TaxID:         deref(m.TaxID),
		Notes:         deref(m.Notes),
	}
	if m.ClientType != nil {
		ct := contact.ClientType(*m.ClientType)
		c.ClientType = &ct
	}
	return c
}

// ContactModelFromDomain creates a persistence model from a domain Contact
func ContactModelFromDomain(c *contact.Contact) *ContactModel {
	m := &ContactModel{
		StoreID:     c.StoreID,
		Type:        string(c.Type),
		CompanyName: nullable(c.CompanyName),
		ContactName: c.ContactName,
		Email:       nullable(c.Email),
		Phone:       nullable(c.Phone),
		Mobile:      nullable(c.Mobile),
		Address:     nullable(c.Address),
		City:        nullable(c.City),
		State:       nullable(c.State),
		Country:     nullable(c.Country),
		PostalCode:  nullable(c.PostalCode),
		TaxID:       nullable(c.TaxID),
		Notes:       nullable(c.Notes),
	}
	if c.ClientType != nil {
		ct := string(*c.ClientType)
		m.ClientType = &ct
	}
	m.FromAuditedEntity(c.AuditedEntity)
	return m
}
