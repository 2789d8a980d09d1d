package identity

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/auth"
	"github.com/storehub/backend/internal/infrastructure/cache"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
)

// ErrUserOutsideStore is returned when the target user cannot access the
// caller's active store
var ErrUserOutsideStore = shared.Forbidden("You do not have access to this user.")

// UserService handles user management operations
type UserService struct {
	userRepo   identity.UserRepository
	users      userAssembler
	blacklist  auth.TokenBlacklist
	jwtService *auth.JWTService
	principals *cache.PrincipalCache
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	storeRepo tenancy.StoreRepository,
	blacklist auth.TokenBlacklist,
	jwtService *auth.JWTService,
	principals *cache.PrincipalCache,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		users:      userAssembler{stores: storeRepo},
		blacklist:  blacklist,
		jwtService: jwtService,
		principals: principals,
		logger:     logger,
	}
}

// List returns a page of users. With an active store only users that can
// access it are listed.
func (s *UserService) List(ctx context.Context, input UserListInput) (page shared.Paginated[UserDTO], err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "list")
	defer func() { telemetry.EndSpan(span, err) }()

	filter := identity.UserFilter{Filter: input.Filter.Normalize()}
	if storeID, ok := tenancy.ActiveStore(ctx); ok {
		filter.StoreID = &storeID
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return page, fmt.Errorf("list users: %w", err)
	}
	dtos, err := s.users.many(ctx, users)
	if err != nil {
		return page, err
	}
	return shared.NewPaginated(dtos, total, filter.Page, filter.PerPage), nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uint) (dto *UserDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "get", attribute.Int64("user.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	user, err := s.findVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.users.one(ctx, user)
}

// Delete soft deletes a user and revokes its outstanding tokens
func (s *UserService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "delete", attribute.Int64("user.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	if _, err := s.findVisible(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.principals.Invalidate(ctx, id)

	log := logger.For(ctx, s.logger)
	if err := s.blacklist.RevokeUser(ctx, id, s.jwtService.Expiration()); err != nil {
		// the row is gone; Authenticate rejects the tokens once the cache entry is dropped
		log.Warn("Failed to revoke tokens of deleted user", zap.Uint("target_user_id", id), zap.Error(err))
	}
	log.Info("User deleted", zap.Uint("target_user_id", id))
	return nil
}

// findVisible loads a user and, under an active store, rejects users
// without access to it
func (s *UserService) findVisible(ctx context.Context, id uint) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if storeID, ok := tenancy.ActiveStore(ctx); ok && !user.HasAccessToStore(storeID) {
		return nil, ErrUserOutsideStore
	}
	return user, nil
}

// userAssembler renders users together with the stores they are members of
type userAssembler struct {
	stores tenancy.StoreRepository
}

func (a userAssembler) one(ctx context.Context, u *identity.User) (*UserDTO, error) {
	dtos, err := a.many(ctx, []*identity.User{u})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (a userAssembler) many(ctx context.Context, users []*identity.User) ([]UserDTO, error) {
	var ids []uint
	for _, u := range users {
		ids = append(ids, u.StoreIDs...)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	refs := make(map[uint]StoreRef, len(ids))
	if len(ids) > 0 {
		stores, err := a.stores.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load member stores: %w", err)
		}
		for _, st := range stores {
			refs[st.ID] = StoreRef{ID: st.ID, Name: st.Name, Code: st.Code}
		}
	}

	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		stores := make([]StoreRef, 0, len(u.StoreIDs))
		for _, id := range u.StoreIDs {
			if ref, ok := refs[id]; ok {
				stores = append(stores, ref)
			}
		}
		out = append(out, *toUserDTO(u, stores))
	}
	return out, nil
}
