package contact

import (
	"time"

	"github.com/storehub/backend/internal/domain/contact"
	"github.com/storehub/backend/internal/domain/shared"
)

// ContactInput carries contact fields. On update a nil field is left unchanged.
type ContactInput struct {
	StoreID     *uint
	Type        *contact.Type
	ClientType  *contact.ClientType
	CompanyName *string
	ContactName *string
	Email       *string
	Phone       *string
	Mobile      *string
	Address     *string
	City        *string
	State       *string
	Country     *string
	PostalCode  *string
	TaxID       *string
	Notes       *string
}

// ListInput narrows a contact listing
type ListInput struct {
	shared.Filter
	Type       *contact.Type
	ClientType *contact.ClientType

	// StoreID, when set, must be accessible to the caller
	StoreID *uint
}

// ContactDTO represents contact data transfer object
type ContactDTO struct {
	ID          uint       `json:"id"`
	StoreID     *uint      `json:"store_id"`
	Type        string     `json:"type"`
	ClientType  *string    `json:"client_type"`
	CompanyName string     `json:"company_name"`
	ContactName string     `json:"contact_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Mobile      string     `json:"mobile"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Country     string     `json:"country"`
	PostalCode  string     `json:"postal_code"`
	TaxID       string     `json:"tax_id"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedBy   *uint      `json:"created_by"`
	UpdatedBy   *uint      `json:"updated_by"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	DeletedBy   *uint      `json:"deleted_by,omitempty"`
}

// ToContactDTO converts a contact
func ToContactDTO(c *contact.Contact) ContactDTO {
	dto := ContactDTO{
		ID:          c.ID,
		StoreID:     c.StoreID,
		Type:        string(c.Type),
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Mobile:      c.Mobile,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		Country:     c.Country,
		PostalCode:  c.PostalCode,
		TaxID:       c.TaxID,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		CreatedBy:   c.CreatedBy,
		UpdatedBy:   c.UpdatedBy,
		DeletedAt:   c.DeletedAt,
		DeletedBy:   c.DeletedBy,
	}
	if c.ClientType != nil {
		ct := string(*c.ClientType)
		dto.ClientType = &ct
	}
	return dto
}
