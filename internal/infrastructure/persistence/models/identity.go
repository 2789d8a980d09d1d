package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storehub/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AuditModel
	FirstName       string  `gorm:"type:varchar(255);not null"`
	LastName        string  `gorm:"type:varchar(255);not null"`
	Email           string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	Password        string  `gorm:"type:varchar(255);not null"`
	EmailVerifiedAt *time.Time
	Age             *int
	CIN             *string          `gorm:"column:cin;type:varchar(255)"`
	Gender          *string          `gorm:"type:varchar(10)"`
	Avatar          *string          `gorm:"type:varchar(255)"`
	Phone           *string          `gorm:"type:varchar(255)"`
	Address         *string          `gorm:"type:text"`
	City            *string          `gorm:"type:varchar(255)"`
	State           *string          `gorm:"type:varchar(255)"`
	Country         *string          `gorm:"type:varchar(255)"`
	PostalCode      *string          `gorm:"type:varchar(255)"`
	EmployeeID      *string          `gorm:"type:varchar(255);uniqueIndex"`
	HireDate        *time.Time       `gorm:"type:date"`
	Salary          *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status          string           `gorm:"type:varchar(20);not null;default:'active'"`
	StoreID         *uint            `gorm:"index"`
	DefaultStoreID  *uint            `gorm:"index"`
	Roles           []RoleModel      `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// Memberships are loaded separately by the repository.
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		AuditedEntity:   m.ToAuditedEntity(),
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		PasswordHash:    m.Password,
		EmailVerifiedAt: m.EmailVerifiedAt,
		Age:             m.Age,
		CIN:             deref(m.CIN),
		Gender:          identity.Gender(deref(m.Gender)),
		Avatar:          deref(m.Avatar),
		Phone:           deref(m.Phone),
		Address:         deref(m.Address),
		City:            deref(m.City),
		State:           deref(m.State),
		Country:         deref(m.Country),
		PostalCode:      deref(m.PostalCode),
		EmployeeID:      m.EmployeeID,
		HireDate:        m.HireDate,
		Salary:          m.Salary,
		Status:          identity.UserStatus(m.Status),
		StoreID:         m.StoreID,
		DefaultStoreID:  m.DefaultStoreID,
		StoreIDs:        make([]uint, 0),
		Roles:           make([]*identity.Role, 0, len(m.Roles)),
	}
	for i := range m.Roles {
		user.Roles = append(user.Roles, m.Roles[i].ToDomain())
	}
	return user
}

// FromDomain populates the persistence model from a domain User entity.
// Roles are synced separately.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromAuditedEntity(u.AuditedEntity)
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Email = u.Email
	m.Password = u.PasswordHash
	m.EmailVerifiedAt = u.EmailVerifiedAt
	m.Age = u.Age
	m.CIN = nullable(u.CIN)
	m.Gender = nullable(string(u.Gender))
	m.Avatar = nullable(u.Avatar)
	m.Phone = nullable(u.Phone)
	m.Address = nullable(u.Address)
	m.City = nullable(u.City)
	m.State = nullable(u.State)
	m.Country = nullable(u.Country)
	m.PostalCode = nullable(u.PostalCode)
	m.EmployeeID = u.EmployeeID
	m.HireDate = u.HireDate
	m.Salary = u.Salary
	m.Status = string(u.Status)
	m.StoreID = u.StoreID
	m.DefaultStoreID = u.DefaultStoreID
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserStoreModel is a user/store membership row.
type UserStoreModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_store_pair"`
	StoreID   uint      `gorm:"not null;uniqueIndex:idx_user_store_pair;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserStoreModel) TableName() string {
	return "user_store"
}

// UserRoleModel links a user to a role.
type UserRoleModel struct {
	UserID uint `gorm:"primaryKey"`
	RoleID uint `gorm:"primaryKey"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// RoleModel is the persistence model for the Role domain entity.
type RoleModel struct {
	BaseModel
	Name        string            `gorm:"type:varchar(255);not null;uniqueIndex"`
	Permissions []PermissionModel `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role
func (m *RoleModel) ToDomain() *identity.Role {
	role := &identity.Role{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Permissions: make([]identity.Permission, 0, len(m.Permissions)),
	}
	for i := range m.Permissions {
		role.Permissions = append(role.Permissions, m.Permissions[i].ToDomain())
	}
	return role
}

// RoleModelFromDomain creates a persistence model from a domain Role.
// Permission links are written separately.
func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{Name: r.Name}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// PermissionModel is the persistence model for a permission
type PermissionModel struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (PermissionModel) TableName() string {
	return "permissions"
}

// ToDomain converts the persistence model to a domain Permission
func (m *PermissionModel) ToDomain() identity.Permission {
	return identity.Permission{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// RolePermissionModel links a role to a permission
type RolePermissionModel struct {
	RoleID       uint `gorm:"primaryKey"`
	PermissionID uint `gorm:"primaryKey"`
}

// TableName returns the table name for GORM
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}

// PermissionsToDomain converts a list of permission models
func PermissionsToDomain(ms []PermissionModel) []identity.Permission {
	out := make([]identity.Permission, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out
}
