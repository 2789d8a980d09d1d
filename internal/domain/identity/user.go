package identity

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storehub/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// IsValid reports whether s is a known status.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

// Gender of a user
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IsValid reports whether g is a known gender.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents an actor of the system.
//
// A user reaches stores through three paths: the legacy primary store
// (StoreID), the default store (DefaultStoreID) and explicit memberships
// (StoreIDs). Roles and memberships are loaded by the repository.
type User struct {
	shared.AuditedEntity
	FirstName       string
	LastName        string
	Email           string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	Age             *int
	CIN             string
	Gender          Gender
	Avatar          string
	Phone           string
	Address         string
	City            string
	State           string
	Country         string
	PostalCode      string
	EmployeeID      *string
	HireDate        *time.Time
	Salary          *decimal.Decimal
	Status          UserStatus
	StoreID         *uint
	DefaultStoreID  *uint
	StoreIDs        []uint
	Roles           []*Role
}

// NewUser creates a new active user with a hashed password
func NewUser(firstName, lastName, email, password string) (*User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, shared.NewValidationError("first_name", "The first name field is required.")
	}
	if lastName == "" {
		return nil, shared.NewValidationError("last_name", "The last name field is required.")
	}

	user := &User{
		FirstName: firstName,
		LastName:  lastName,
		Status:    UserStatusActive,
		StoreIDs:  make([]uint, 0),
		Roles:     make([]*Role, 0),
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// FullName returns first and last name joined by a space
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SetEmail validates and normalizes the email address
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return shared.NewValidationError("email", "The email field is required.")
	}
	if len(email) > 255 || !emailRegex.MatchString(email) {
		return shared.NewValidationError("email", "The email field must be a valid email address.")
	}
	u.Email = email
	return nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsActive returns true if the user may sign in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// HasAccessToStore reports whether the user may act within storeID: it is the
// primary store, the default store, or one of the memberships.
func (u *User) HasAccessToStore(storeID uint) bool {
	if storeID == 0 {
		return false
	}
	if u.StoreID != nil && *u.StoreID == storeID {
		return true
	}
	if u.DefaultStoreID != nil && *u.DefaultStoreID == storeID {
		return true
	}
	return u.IsMemberOf(storeID)
}

// IsMemberOf reports whether storeID is among the explicit memberships
func (u *User) IsMemberOf(storeID uint) bool {
	return slices.Contains(u.StoreIDs, storeID)
}

// AccessibleStoreIDs returns the deduplicated union of primary, default and
// membership stores, in ascending order.
func (u *User) AccessibleStoreIDs() []uint {
	ids := make([]uint, 0, len(u.StoreIDs)+2)
	if u.StoreID != nil && *u.StoreID != 0 {
		ids = append(ids, *u.StoreID)
	}
	if u.DefaultStoreID != nil && *u.DefaultStoreID != 0 {
		ids = append(ids, *u.DefaultStoreID)
	}
	ids = append(ids, u.StoreIDs...)
	slices.Sort(ids)
	return slices.Compact(ids)
}

// SetDefaultStore sets the default store. The store must already be
// accessible; otherwise the user is left untouched.
func (u *User) SetDefaultStore(storeID uint) error {
	if !u.HasAccessToStore(storeID) {
		return shared.Conflict("User does not have access to this store.")
	}
	id := storeID
	u.DefaultStoreID = &id
	return nil
}

// AddMembership grants explicit membership of storeID
func (u *User) AddMembership(storeID uint) error {
	if u.IsMemberOf(storeID) {
		return shared.Conflict("User is already assigned to this store.")
	}
	u.StoreIDs = append(u.StoreIDs, storeID)
	return nil
}

// RemoveMembership revokes membership of storeID. It reports whether the
// default store was cleared as a consequence.
func (u *User) RemoveMembership(storeID uint) (bool, error) {
	idx := slices.Index(u.StoreIDs, storeID)
	if idx < 0 {
		return false, shared.NotFound("User is not assigned to this store.")
	}
	u.StoreIDs = slices.Delete(u.StoreIDs, idx, idx+1)

	if u.DefaultStoreID != nil && *u.DefaultStoreID == storeID {
		u.DefaultStoreID = nil
		return true, nil
	}
	return false, nil
}

// RoleNames returns the names of the loaded roles
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Permissions returns the sorted union of permission names granted by roles
func (u *User) Permissions() []string {
	perms := make([]string, 0)
	for _, r := range u.Roles {
		perms = append(perms, r.PermissionNames()...)
	}
	slices.Sort(perms)
	return slices.Compact(perms)
}

// HasPermission reports whether any role grants the named permission
func (u *User) HasPermission(name string) bool {
	for _, r := range u.Roles {
		if r.HasPermission(name) {
			return true
		}
	}
	return false
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewValidationError("password", "The password field is required.")
	}
	if len(password) < 8 {
		return shared.NewValidationError("password", "The password field must be at least 8 characters.")
	}
	if len(password) > 72 {
		return shared.NewValidationError("password", "The password field must not be greater than 72 characters.")
	}
	return nil
}
