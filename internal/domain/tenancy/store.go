// Package tenancy holds the store (tenant) aggregate and the request-scoped
// active store.
package tenancy

import (
	"strings"

	"github.com/storehub/backend/internal/domain/shared"
)

// StoreStatus represents the status of a store
type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "active"
	StoreStatusInactive StoreStatus = "inactive"
)

// IsValid reports whether s is a known status
func (s StoreStatus) IsValid() bool {
	return s == StoreStatusActive || s == StoreStatusInactive
}

// Store is an isolated business unit; most records belong to exactly one.
type Store struct {
	shared.AuditedEntity
	Name       string
	Code       *string
	Address    string
	City       string
	State      string
	Country    string
	PostalCode string
	Phone      string
	Email      string
	Status     StoreStatus
}

// NewStore creates an active store
func NewStore(name string) (*Store, error) {
	s := &Store{Status: StoreStatusActive}
	if err := s.Rename(name); err != nil {
		return nil, err
	}
	return s, nil
}

// Rename validates and sets the store name
func (s *Store) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "The name field is required.")
	}
	if len(name) > 255 {
		return shared.NewValidationError("name", "The name field must not be greater than 255 characters.")
	}
	s.Name = name
	return nil
}

// SetCode sets the store code. An empty code clears it.
func (s *Store) SetCode(code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		s.Code = nil
		return
	}
	s.Code = &code
}

// SetStatus validates and sets the status
func (s *Store) SetStatus(status StoreStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("status", "The selected status is invalid.")
	}
	s.Status = status
	return nil
}

// CodeValue returns the code or an empty string
func (s *Store) CodeValue() string {
	if s.Code == nil {
		return ""
	}
	return *s.Code
}

// StoreMember is a lightweight view of a user attached to a store
type StoreMember struct {
	ID        uint
	FirstName string
	LastName  string
	Email     string
}

// FullName returns first and last name joined by a space
func (m StoreMember) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// StoreSummary is a store together with the number of member users
type StoreSummary struct {
	Store      *Store
	UsersCount int64
}
