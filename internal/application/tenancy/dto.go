package tenancy

import (
	"time"

	"github.com/storehub/backend/internal/domain/tenancy"
)

// StoreInput holds store fields. On update a nil field is left unchanged.
type StoreInput struct {
	Name       *string
	Code       *string
	Address    *string
	City       *string
	State      *string
	Country    *string
	PostalCode *string
	Phone      *string
	Email      *string
	Status     *tenancy.StoreStatus
}

// StoreMemberDTO is a user listed on a store
type StoreMemberDTO struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
}

// StoreDTO represents store data transfer object
type StoreDTO struct {
	ID         uint             `json:"id"`
	Name       string           `json:"name"`
	Code       *string          `json:"code"`
	Address    string           `json:"address"`
	City       string           `json:"city"`
	State      string           `json:"state"`
	Country    string           `json:"country"`
	PostalCode string           `json:"postal_code"`
	Phone      string           `json:"phone"`
	Email      string           `json:"email"`
	Status     string           `json:"status"`
	UsersCount *int64           `json:"users_count,omitempty"`
	Users      []StoreMemberDTO `json:"users,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	CreatedBy  *uint            `json:"created_by,omitempty"`
	UpdatedBy  *uint            `json:"updated_by,omitempty"`
	DeletedAt  *time.Time       `json:"deleted_at,omitempty"`
	DeletedBy  *uint            `json:"deleted_by,omitempty"`
}

// UserStoresDTO lists the member stores of a user
type UserStoresDTO struct {
	Stores         []StoreDTO `json:"stores"`
	DefaultStoreID *uint      `json:"default_store_id"`
}

// ToStoreDTO converts a store
func ToStoreDTO(s *tenancy.Store) StoreDTO {
	return StoreDTO{
		ID:         s.ID,
		Name:       s.Name,
		Code:       s.Code,
		Address:    s.Address,
		City:       s.City,
		State:      s.State,
		Country:    s.Country,
		PostalCode: s.PostalCode,
		Phone:      s.Phone,
		Email:      s.Email,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		CreatedBy:  s.CreatedBy,
		UpdatedBy:  s.UpdatedBy,
		DeletedAt:  s.DeletedAt,
		DeletedBy:  s.DeletedBy,
	}
}

func toMemberDTOs(members []tenancy.StoreMember) []StoreMemberDTO {
	out := make([]StoreMemberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, StoreMemberDTO{
			ID:        m.ID,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			FullName:  m.FullName(),
			Email:     m.Email,
		})
	}
	return out
}
