package identity

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/infrastructure/cache"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
)

// RoleService handles role and permission management. Roles are global.
type RoleService struct {
	roleRepo       identity.RoleRepository
	permissionRepo identity.PermissionRepository
	principals     *cache.PrincipalCache
	logger         *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo identity.RoleRepository,
	permissionRepo identity.PermissionRepository,
	principals *cache.PrincipalCache,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		principals:     principals,
		logger:         logger,
	}
}

// List returns a page of roles with their permission names
func (s *RoleService) List(ctx context.Context, filter shared.Filter) (page shared.Paginated[RoleDTO], err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "role", "list")
	defer func() { telemetry.EndSpan(span, err) }()

	filter = filter.Normalize()
	roles, total, err := s.roleRepo.FindAll(ctx, filter)
	if err != nil {
		return page, fmt.Errorf("list roles: %w", err)
	}
	dtos := make([]RoleDTO, 0, len(roles))
	for _, r := range roles {
		dtos = append(dtos, ToRoleDTO(r))
	}
	return shared.NewPaginated(dtos, total, filter.Page, filter.PerPage), nil
}

// Get returns one role
func (s *RoleService) Get(ctx context.Context, id uint) (dto *RoleDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "role", "get", attribute.Int64("role.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToRoleDTO(role)
	return &out, nil
}

// Create creates a role granting the named permissions
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (dto *RoleDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "role", "create")
	defer func() { telemetry.EndSpan(span, err) }()

	role, err := identity.NewRole(input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, role.Name, 0); err != nil {
		return nil, err
	}
	perms, err := s.resolvePermissions(ctx, input.Permissions)
	if err != nil {
		return nil, err
	}
	role.SetPermissions(perms)

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	logger.For(ctx, s.logger).Info("Role created",
		zap.Uint("role_id", role.ID),
		zap.String("name", role.Name),
		zap.Strings("permissions", role.PermissionNames()))

	out := ToRoleDTO(role)
	return &out, nil
}

// Update renames a role and/or replaces its permissions
func (s *RoleService) Update(ctx context.Context, id uint, input UpdateRoleInput) (dto *RoleDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "role", "update", attribute.Int64("role.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := role.Rename(*input.Name); err != nil {
			return nil, err
		}
		if err := s.ensureUniqueName(ctx, role.Name, role.ID); err != nil {
			return nil, err
		}
	}
	if input.Permissions != nil {
		perms, err := s.resolvePermissions(ctx, *input.Permissions)
		if err != nil {
			return nil, err
		}
		role.SetPermissions(perms)
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	s.principals.InvalidateAll(ctx)
	logger.For(ctx, s.logger).Info("Role updated", zap.Uint("role_id", role.ID))

	out := ToRoleDTO(role)
	return &out, nil
}

// Delete removes a role and detaches it from users
func (s *RoleService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "role", "delete", attribute.Int64("role.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.principals.InvalidateAll(ctx)
	logger.For(ctx, s.logger).Info("Role deleted", zap.Uint("role_id", id))
	return nil
}

// Permissions returns every permission ordered by name
func (s *RoleService) Permissions(ctx context.Context) (out []PermissionDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "permission", "list")
	defer func() { telemetry.EndSpan(span, err) }()

	perms, err := s.permissionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	out = make([]PermissionDTO, 0, len(perms))
	for _, p := range perms {
		out = append(out, PermissionDTO{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

func (s *RoleService) ensureUniqueName(ctx context.Context, name string, excludeID uint) error {
	exists, err := s.roleRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("check role name: %w", err)
	}
	if exists {
		return shared.NewValidationError("name", "The name has already been taken.")
	}
	return nil
}

// resolvePermissions looks up names and returns the permissions in the
// order they were requested. Unknown names fail validation.
func (s *RoleService) resolvePermissions(ctx context.Context, names []string) ([]identity.Permission, error) {
	if len(names) == 0 {
		return []identity.Permission{}, nil
	}
	found, err := s.permissionRepo.FindByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	byName := make(map[string]identity.Permission, len(found))
	for _, p := range found {
		byName[p.Name] = p
	}

	fields := shared.FieldErrors{}
	out := make([]identity.Permission, 0, len(names))
	for i, name := range names {
		p, ok := byName[name]
		if !ok {
			key := fmt.Sprintf("permissions.%d", i)
			fields.Add(key, "The selected "+key+" is invalid.")
			continue
		}
		if !slices.ContainsFunc(out, func(q identity.Permission) bool { return q.ID == p.ID }) {
			out = append(out, p)
		}
	}
	if len(fields) > 0 {
		return nil, &shared.ValidationError{Message: "Validation failed", Fields: fields}
	}
	return out, nil
}
