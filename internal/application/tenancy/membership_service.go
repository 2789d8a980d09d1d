package tenancy

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/cache"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
)

// MembershipService manages which stores a user is assigned to
type MembershipService struct {
	userRepo   identity.UserRepository
	storeRepo  tenancy.StoreRepository
	principals *cache.PrincipalCache
	logger     *zap.Logger
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	userRepo identity.UserRepository,
	storeRepo tenancy.StoreRepository,
	principals *cache.PrincipalCache,
	logger *zap.Logger,
) *MembershipService {
	return &MembershipService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		principals: principals,
		logger:     logger,
	}
}

// ListUserStores returns the explicit memberships and the default store of a user
func (s *MembershipService) ListUserStores(ctx context.Context, userID uint) (dto *UserStoresDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "list", attribute.Int64("user.target_id", int64(userID)))
	defer func() { telemetry.EndSpan(span, err) }()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &UserStoresDTO{Stores: make([]StoreDTO, 0, len(user.StoreIDs)), DefaultStoreID: user.DefaultStoreID}
	if len(user.StoreIDs) == 0 {
		return out, nil
	}
	stores, err := s.storeRepo.FindByIDs(ctx, user.StoreIDs)
	if err != nil {
		return nil, fmt.Errorf("load user stores: %w", err)
	}
	for _, st := range stores {
		out.Stores = append(out.Stores, ToStoreDTO(st))
	}
	return out, nil
}

// Assign grants userID an explicit membership of storeID
func (s *MembershipService) Assign(ctx context.Context, userID, storeID uint) (dto *StoreDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "assign",
		attribute.Int64("user.target_id", int64(userID)),
		attribute.Int64("store.target_id", int64(storeID)))
	defer func() { telemetry.EndSpan(span, err) }()

	user, store, err := s.load(ctx, userID, storeID, false)
	if err != nil {
		return nil, err
	}
	if err := user.AddMembership(storeID); err != nil {
		return nil, err
	}
	if err := s.userRepo.AddMembership(ctx, userID, storeID); err != nil {
		return nil, fmt.Errorf("assign store: %w", err)
	}
	s.principals.Invalidate(ctx, userID)
	logger.For(ctx, s.logger).Info("Store assigned to user",
		zap.Uint("target_user_id", userID),
		zap.Uint("target_store_id", storeID))

	out := ToStoreDTO(store)
	return &out, nil
}

// Remove revokes a membership. When it was the default store, the default is cleared.
func (s *MembershipService) Remove(ctx context.Context, userID, storeID uint) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "remove",
		attribute.Int64("user.target_id", int64(userID)),
		attribute.Int64("store.target_id", int64(storeID)))
	defer func() { telemetry.EndSpan(span, err) }()

	user, _, err := s.load(ctx, userID, storeID, false)
	if err != nil {
		return err
	}
	cleared, err := user.RemoveMembership(storeID)
	if err != nil {
		return err
	}
	if err := s.userRepo.RemoveMembership(ctx, userID, storeID, cleared); err != nil {
		return fmt.Errorf("remove store: %w", err)
	}
	s.principals.Invalidate(ctx, userID)
	logger.For(ctx, s.logger).Info("Store removed from user",
		zap.Uint("target_user_id", userID),
		zap.Uint("target_store_id", storeID),
		zap.Bool("default_cleared", cleared))
	return nil
}

// SetDefault makes storeID the default store of userID. The user must
// already have access to the store.
func (s *MembershipService) SetDefault(ctx context.Context, userID, storeID uint) (dto *StoreDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "set_default",
		attribute.Int64("user.target_id", int64(userID)),
		attribute.Int64("store.target_id", int64(storeID)))
	defer func() { telemetry.EndSpan(span, err) }()

	user, store, err := s.load(ctx, userID, storeID, true)
	if err != nil {
		return nil, err
	}
	if err := user.SetDefaultStore(storeID); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateDefaultStore(ctx, userID, user.DefaultStoreID); err != nil {
		return nil, fmt.Errorf("set default store: %w", err)
	}
	s.principals.Invalidate(ctx, userID)
	logger.For(ctx, s.logger).Info("Default store set",
		zap.Uint("target_user_id", userID),
		zap.Uint("target_store_id", storeID))

	out := ToStoreDTO(store)
	return &out, nil
}

// load fetches the user and store. With asInput a missing store is reported
// as an invalid store_id field instead of a 404.
func (s *MembershipService) load(ctx context.Context, userID, storeID uint, asInput bool) (*identity.User, *tenancy.Store, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if asInput && errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewValidationError("store_id", "The selected store id is invalid.")
		}
		return nil, nil, err
	}
	return user, store, nil
}
