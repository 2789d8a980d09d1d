package identity

import (
	"slices"
	"strings"

	"github.com/storehub/backend/internal/domain/shared"
)

// Built-in role names
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Permission is a named functional permission, e.g. "view users".
// Permissions are global and not scoped to a store.
type Permission struct {
	shared.BaseEntity
	Name string
}

// Role represents a role in the RBAC system.
// It is the aggregate root for its permission set.
type Role struct {
	shared.BaseEntity
	Name        string
	Permissions []Permission
}

// NewRole creates a new role with no permissions
func NewRole(name string) (*Role, error) {
	role := &Role{Permissions: make([]Permission, 0)}
	if err := role.Rename(name); err != nil {
		return nil, err
	}
	return role, nil
}

// Rename validates and sets the role name
func (r *Role) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "The name field is required.")
	}
	if len(name) > 255 {
		return shared.NewValidationError("name", "The name field must not be greater than 255 characters.")
	}
	r.Name = name
	return nil
}

// SetPermissions replaces the permission set. Duplicates are dropped and the
// order of first appearance is kept.
func (r *Role) SetPermissions(perms []Permission) {
	out := make([]Permission, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	r.Permissions = out
}

// PermissionNames returns the names of granted permissions
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}

// PermissionIDs returns the ids of granted permissions
func (r *Role) PermissionIDs() []uint {
	ids := make([]uint, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		ids = append(ids, p.ID)
	}
	return ids
}

// HasPermission reports whether the role grants name
func (r *Role) HasPermission(name string) bool {
	return slices.ContainsFunc(r.Permissions, func(p Permission) bool {
		return p.Name == name
	})
}
