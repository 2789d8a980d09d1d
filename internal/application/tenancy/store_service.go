// Package tenancy contains the store directory use cases: store CRUD, store
// switching and user/store memberships.
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

// StoreService handles store management and store switching
type StoreService struct {
	storeRepo  tenancy.StoreRepository
	userRepo   identity.UserRepository
	principals *cache.PrincipalCache
	logger     *zap.Logger
}

// NewStoreService creates a new store service
func NewStoreService(
	storeRepo tenancy.StoreRepository,
	userRepo identity.UserRepository,
	principals *cache.PrincipalCache,
	logger *zap.Logger,
) *StoreService {
	return &StoreService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		principals: principals,
		logger:     logger,
	}
}

// List returns a page of stores with their member counts
func (s *StoreService) List(ctx context.Context, filter shared.Filter) (page shared.Paginated[StoreDTO], err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "list")
	defer func() { telemetry.EndSpan(span, err) }()

	filter = filter.Normalize()
	summaries, total, err := s.storeRepo.FindAll(ctx, filter)
	if err != nil {
		return page, fmt.Errorf("list stores: %w", err)
	}
	dtos := make([]StoreDTO, 0, len(summaries))
	for _, sum := range summaries {
		dto := ToStoreDTO(sum.Store)
		count := sum.UsersCount
		dto.UsersCount = &count
		dtos = append(dtos, dto)
	}
	return shared.NewPaginated(dtos, total, filter.Page, filter.PerPage), nil
}

// Get returns a store with its member users
func (s *StoreService) Get(ctx context.Context, id uint) (dto *StoreDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "get", attribute.Int64("store.target_id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.storeRepo.FindMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load store members: %w", err)
	}
	out := ToStoreDTO(store)
	out.Users = toMemberDTOs(members)
	return &out, nil
}

// Create creates a store
func (s *StoreService) Create(ctx context.Context, input StoreInput) (dto *StoreDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "create")
	defer func() { telemetry.EndSpan(span, err) }()

	if input.Name == nil {
		return nil, shared.NewValidationError("name", "The name field is required.")
	}
	store, err := tenancy.NewStore(*input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, store, input); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	logger.For(ctx, s.logger).Info("Store created",
		zap.Uint("target_store_id", store.ID),
		zap.String("name", store.Name))

	out := ToStoreDTO(store)
	return &out, nil
}

// Update applies a partial update to a store
func (s *StoreService) Update(ctx context.Context, id uint, input StoreInput) (dto *StoreDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "update", attribute.Int64("store.target_id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := store.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if err := s.apply(ctx, store, input); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	logger.For(ctx, s.logger).Info("Store updated", zap.Uint("target_store_id", id))

	out := ToStoreDTO(store)
	return &out, nil
}

// Delete soft deletes a store. Its memberships stop counting as access.
func (s *StoreService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "delete", attribute.Int64("store.target_id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.storeRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.principals.InvalidateAll(ctx)
	logger.For(ctx, s.logger).Info("Store deleted", zap.Uint("target_store_id", id))
	return nil
}

// Restore brings back a soft-deleted store
func (s *StoreService) Restore(ctx context.Context, id uint) (dto *StoreDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "restore", attribute.Int64("store.target_id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	store, err := s.storeRepo.FindByIDWithTrashed(ctx, id)
	if err != nil {
		return nil, err
	}
	if !store.IsDeleted() {
		return nil, shared.Conflict("Store is not deleted.")
	}
	if err := s.storeRepo.Restore(ctx, id); err != nil {
		return nil, err
	}
	s.principals.InvalidateAll(ctx)
	logger.For(ctx, s.logger).Info("Store restored", zap.Uint("target_store_id", id))

	restored, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToStoreDTO(restored)
	return &out, nil
}

// Switch makes storeID the caller's default store. The caller must already
// have access to it.
func (s *StoreService) Switch(ctx context.Context, storeID uint) (dto *StoreDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "switch", attribute.Int64("store.target_id", int64(storeID)))
	defer func() { telemetry.EndSpan(span, err) }()

	user, ok := identity.PrincipalFrom(ctx)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("store_id", "The selected store id is invalid.")
		}
		return nil, err
	}
	if !user.HasAccessToStore(storeID) {
		logger.For(ctx, s.logger).Warn("Store switch denied", zap.Uint("target_store_id", storeID))
		return nil, shared.ErrStoreAccessDenied
	}

	id := storeID
	if err := s.userRepo.UpdateDefaultStore(ctx, user.ID, &id); err != nil {
		return nil, fmt.Errorf("switch store: %w", err)
	}
	s.principals.Invalidate(ctx, user.ID)
	logger.For(ctx, s.logger).Info("Store switched", zap.Uint("target_store_id", storeID))

	out := ToStoreDTO(store)
	return &out, nil
}

func (s *StoreService) apply(ctx context.Context, store *tenancy.Store, in StoreInput) error {
	if in.Code != nil {
		store.SetCode(*in.Code)
		if code := store.CodeValue(); code != "" {
			taken, err := s.storeRepo.ExistsByCode(ctx, code, store.ID)
			if err != nil {
				return fmt.Errorf("check store code: %w", err)
			}
			if taken {
				return shared.NewValidationError("code", "The code has already been taken.")
			}
		}
	}
	if in.Status != nil && *in.Status != "" {
		if err := store.SetStatus(*in.Status); err != nil {
			return err
		}
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&store.Address, in.Address)
	set(&store.City, in.City)
	set(&store.State, in.State)
	set(&store.Country, in.Country)
	set(&store.PostalCode, in.PostalCode)
	set(&store.Phone, in.Phone)
	set(&store.Email, in.Email)
	return nil
}
