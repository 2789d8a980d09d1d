package handler

import (
	appcontact "github.com/storehub/backend/internal/application/contact"
	"github.com/storehub/backend/internal/domain/contact"
	"github.com/storehub/backend/internal/interfaces/http/dto"
)

// ContactRequest is the body of contact create and update
type ContactRequest struct {
	StoreID     *uint   `json:"store_id" binding:"omitempty,gt=0"`
	Type        *string `json:"type" binding:"omitempty,oneof=client supplier"`
	ClientType  *string `json:"client_type" binding:"omitempty,oneof=individual company government nonprofit"`
	CompanyName *string `json:"company_name" binding:"omitempty,max=255"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=255"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Mobile      *string `json:"mobile" binding:"omitempty,max=20"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
	City        *string `json:"city" binding:"omitempty,max=255"`
	State       *string `json:"state" binding:"omitempty,max=255"`
	Country     *string `json:"country" binding:"omitempty,max=255"`
	PostalCode  *string `json:"postal_code" binding:"omitempty,max=20"`
	TaxID       *string `json:"tax_id" binding:"omitempty,max=50"`
	Notes       *string `json:"notes"`
}

func (r ContactRequest) toInput() appcontact.ContactInput {
	in := appcontact.ContactInput{
		StoreID:     r.StoreID,
		CompanyName: r.CompanyName,
		ContactName: r.ContactName,
		Email:       r.Email,
		Phone:       r.Phone,
		Mobile:      r.Mobile,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Country:     r.Country,
		PostalCode:  r.PostalCode,
		TaxID:       r.TaxID,
		Notes:       r.Notes,
	}
	if r.Type != nil {
		t := contact.Type(*r.Type)
		in.Type = &t
	}
	if r.ClientType != nil {
		ct := contact.ClientType(*r.ClientType)
		in.ClientType = &ct
	}
	return in
}

// ContactListRequest holds the contact listing query
type ContactListRequest struct {
	dto.ListRequest
	Type       string `form:"type" binding:"omitempty,oneof=client supplier"`
	ClientType string `form:"client_type" binding:"omitempty,oneof=individual company government nonprofit"`
	StoreID    *uint  `form:"store_id" binding:"omitempty,gt=0"`
}

func (r ContactListRequest) toInput() appcontact.ListInput {
	in := appcontact.ListInput{
		Filter:  r.ListRequest.Filter(),
		StoreID: r.StoreID,
	}
	if r.Type != "" {
		t := contact.Type(r.Type)
		in.Type = &t
	}
	if r.ClientType != "" {
		ct := contact.ClientType(r.ClientType)
		in.ClientType = &ct
	}
	return in
}
