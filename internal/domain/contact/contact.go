// Package contact holds store-scoped clients and suppliers.
package contact

import (
	"strings"

	"github.com/storehub/backend/internal/domain/shared"
)

// Type distinguishes clients from suppliers
type Type string

const (
	TypeClient   Type = "client"
	TypeSupplier Type = "supplier"
)

// IsValid reports whether t is a known contact type
func (t Type) IsValid() bool {
	return t == TypeClient || t == TypeSupplier
}

// ClientType is the legal nature of a client
type ClientType string

const (
	ClientIndividual ClientType = "individual"
	ClientCompany    ClientType = "company"
	ClientGovernment ClientType = "government"
	ClientNonprofit  ClientType = "nonprofit"
)

// IsValid reports whether c is a known client type
func (c ClientType) IsValid() bool {
	switch c {
	case ClientIndividual, ClientCompany, ClientGovernment, ClientNonprofit:
		return true
	}
	return false
}

// Contact is a client or supplier belonging to one store. StoreID becomes
// nil when the owning store is removed.
type Contact struct {
	shared.AuditedEntity
	StoreID     *uint
	Type        Type
	ClientType  *ClientType
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Mobile      string
	Address     string
	City        string
	State       string
	Country     string
	PostalCode  string
	TaxID       string
	Notes       string
}

// New creates a contact after validating the required fields
func New(contactName string, typ Type) (*Contact, error) {
	c := &Contact{ContactName: strings.TrimSpace(contactName), Type: typ}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks required fields and enumerations
func (c *Contact) Validate() error {
	fields := shared.FieldErrors{}
	c.ContactName = strings.TrimSpace(c.ContactName)
	if c.ContactName == "" {
		fields.Add("contact_name", "The contact name field is required.")
	}
	if !c.Type.IsValid() {
		fields.Add("type", "The selected type is invalid.")
	}
	if c.ClientType != nil && !c.ClientType.IsValid() {
		fields.Add("client_type", "The selected client type is invalid.")
	}
	if len(fields) > 0 {
		return &shared.ValidationError{Message: "Validation failed", Fields: fields}
	}
	return nil
}

// Filter narrows a contact listing
type Filter struct {
	shared.Filter
	Type       *Type
	ClientType *ClientType

	// StoreIDs restricts the listing. An empty slice yields no rows.
	StoreIDs []uint
}
