package handler

import (
	"time"

	"github.com/shopspring/decimal"

	appidentity "github.com/storehub/backend/internal/application/identity"
	"github.com/storehub/backend/internal/domain/identity"
)

// ProfileRequest holds the optional profile fields shared by register and
// profile update
type ProfileRequest struct {
	Age        *int             `json:"age" binding:"omitempty,gte=0,lte=150"`
	CIN        *string          `json:"cin" binding:"omitempty,max=255"`
	Gender     *string          `json:"gender" binding:"omitempty,oneof=male female other"`
	Avatar     *string          `json:"avatar" binding:"omitempty,max=255"`
	Phone      *string          `json:"phone" binding:"omitempty,max=20"`
	Address    *string          `json:"address" binding:"omitempty,max=255"`
	City       *string          `json:"city" binding:"omitempty,max=255"`
	State      *string          `json:"state" binding:"omitempty,max=255"`
	Country    *string          `json:"country" binding:"omitempty,max=255"`
	PostalCode *string          `json:"postal_code" binding:"omitempty,max=20"`
	EmployeeID *string          `json:"employee_id" binding:"omitempty,max=255"`
	HireDate   *string          `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	Salary     *decimal.Decimal `json:"salary"`
	Status     *string          `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	StoreID    *uint            `json:"store_id" binding:"omitempty,gt=0"`
}

// RegisterRequest represents the request body for self registration
type RegisterRequest struct {
	FirstName            string `json:"first_name" binding:"required,max=255"`
	LastName             string `json:"last_name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	ProfileRequest
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is a partial update of the caller's account
type UpdateProfileRequest struct {
	FirstName            *string `json:"first_name" binding:"omitempty,min=1,max=255"`
	LastName             *string `json:"last_name" binding:"omitempty,min=1,max=255"`
	Email                *string `json:"email" binding:"omitempty,email,max=255"`
	Password             *string `json:"password" binding:"omitempty,min=8"`
	PasswordConfirmation *string `json:"password_confirmation" binding:"required_with=Password,omitempty,eqfield=Password"`
	ProfileRequest
}

// toInput converts the optional profile fields. Formats were checked by
// binding, so parse failures cannot happen here.
func (r ProfileRequest) toInput() appidentity.ProfileInput {
	in := appidentity.ProfileInput{
		Age:        r.Age,
		CIN:        r.CIN,
		Avatar:     r.Avatar,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		Country:    r.Country,
		PostalCode: r.PostalCode,
		EmployeeID: r.EmployeeID,
		Salary:     r.Salary,
		StoreID:    r.StoreID,
	}
	if r.Gender != nil {
		g := identity.Gender(*r.Gender)
		in.Gender = &g
	}
	if r.Status != nil {
		s := identity.UserStatus(*r.Status)
		in.Status = &s
	}
	if r.HireDate != nil {
		if d, err := time.Parse(time.DateOnly, *r.HireDate); err == nil {
			in.HireDate = &d
		}
	}
	return in
}

func (r UpdateProfileRequest) toInput() appidentity.ProfileInput {
	in := r.ProfileRequest.toInput()
	in.FirstName = r.FirstName
	in.LastName = r.LastName
	in.Email = r.Email
	in.Password = r.Password
	return in
}
