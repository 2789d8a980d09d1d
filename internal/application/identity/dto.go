package identity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
)

// RegisterInput contains the input for self registration
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Profile   ProfileInput
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by register and login
type AuthResult struct {
	User      *UserDTO  `json:"user"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileInput holds optional profile fields. A nil field is left unchanged.
type ProfileInput struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Password   *string
	Age        *int
	CIN        *string
	Gender     *identity.Gender
	Avatar     *string
	Phone      *string
	Address    *string
	City       *string
	State      *string
	Country    *string
	PostalCode *string
	EmployeeID *string
	HireDate   *time.Time
	Salary     *decimal.Decimal
	Status     *identity.UserStatus
	StoreID    *uint
}

// RoleRef is the short form of a role embedded in a user
type RoleRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// StoreRef is the short form of a store embedded in a user
type StoreRef struct {
	ID   uint    `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code"`
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID              uint             `json:"id"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	FullName        string           `json:"full_name"`
	Email           string           `json:"email"`
	EmailVerifiedAt *time.Time       `json:"email_verified_at"`
	Age             *int             `json:"age"`
	CIN             string           `json:"cin"`
	Gender          string           `json:"gender"`
	Avatar          string           `json:"avatar"`
	Phone           string           `json:"phone"`
	Address         string           `json:"address"`
	DefaultStore    *uint            `json:"default_store"`
	City            string           `json:"city"`
	State           string           `json:"state"`
	Country         string           `json:"country"`
	PostalCode      string           `json:"postal_code"`
	EmployeeID      *string          `json:"employee_id"`
	HireDate        *string          `json:"hire_date"`
	Salary          *decimal.Decimal `json:"salary"`
	Status          string           `json:"status"`
	StoreID         *uint            `json:"store_id"`
	Roles           []RoleRef        `json:"roles"`
	Stores          []StoreRef       `json:"store"`
	Permissions     []string         `json:"permissions"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	CreatedBy       *uint            `json:"created_by,omitempty"`
	UpdatedBy       *uint            `json:"updated_by,omitempty"`
	DeletedAt       *time.Time       `json:"deleted_at,omitempty"`
	DeletedBy       *uint            `json:"deleted_by,omitempty"`
}

// UserListInput narrows a user listing
type UserListInput struct {
	shared.Filter
}

// RoleDTO represents role data transfer object
type RoleDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRoleInput contains input for creating a role
type CreateRoleInput struct {
	Name        string
	Permissions []string
}

// UpdateRoleInput contains input for updating a role. A nil Permissions
// leaves the permission set unchanged; an empty one clears it.
type UpdateRoleInput struct {
	Name        *string
	Permissions *[]string
}

// PermissionDTO represents a permission
type PermissionDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ToRoleDTO converts a role
func ToRoleDTO(r *identity.Role) RoleDTO {
	return RoleDTO{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: r.PermissionNames(),
		CreatedAt:   r.CreatedAt,
	}
}

func toUserDTO(u *identity.User, stores []StoreRef) *UserDTO {
	roles := make([]RoleRef, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, RoleRef{ID: r.ID, Name: r.Name})
	}
	if stores == nil {
		stores = []StoreRef{}
	}
	dto := &UserDTO{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        u.FullName(),
		Email:           u.Email,
		EmailVerifiedAt: u.EmailVerifiedAt,
		Age:             u.Age,
		CIN:             u.CIN,
		Gender:          string(u.Gender),
		Avatar:          u.Avatar,
		Phone:           u.Phone,
		Address:         u.Address,
		DefaultStore:    u.DefaultStoreID,
		City:            u.City,
		State:           u.State,
		Country:         u.Country,
		PostalCode:      u.PostalCode,
		EmployeeID:      u.EmployeeID,
		Salary:          u.Salary,
		Status:          string(u.Status),
		StoreID:         u.StoreID,
		Roles:           roles,
		Stores:          stores,
		Permissions:     u.Permissions(),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		CreatedBy:       u.CreatedBy,
		UpdatedBy:       u.UpdatedBy,
		DeletedAt:       u.DeletedAt,
		DeletedBy:       u.DeletedBy,
	}
	if u.HireDate != nil {
		d := u.HireDate.Format(time.DateOnly)
		dto.HireDate = &d
	}
	return dto
}
