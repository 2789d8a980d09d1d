package handler

import (
	apptenancy "github.com/storehub/backend/internal/application/tenancy"
	"github.com/storehub/backend/internal/domain/tenancy"
)

// StoreRequest is the body of store create and update. On update omitted
// fields are left unchanged.
type StoreRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=255"`
	Code       *string `json:"code" binding:"omitempty,max=50"`
	Address    *string `json:"address" binding:"omitempty,max=255"`
	City       *string `json:"city" binding:"omitempty,max=255"`
	State      *string `json:"state" binding:"omitempty,max=255"`
	Country    *string `json:"country" binding:"omitempty,max=255"`
	PostalCode *string `json:"postal_code" binding:"omitempty,max=20"`
	Phone      *string `json:"phone" binding:"omitempty,max=20"`
	Email      *string `json:"email" binding:"omitempty,email,max=255"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (r StoreRequest) toInput() apptenancy.StoreInput {
	in := apptenancy.StoreInput{
		Name:       r.Name,
		Code:       r.Code,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		Country:    r.Country,
		PostalCode: r.PostalCode,
		Phone:      r.Phone,
		Email:      r.Email,
	}
	if r.Status != nil {
		s := tenancy.StoreStatus(*r.Status)
		in.Status = &s
	}
	return in
}
