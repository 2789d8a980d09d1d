// Package contact contains the store-scoped client and supplier use cases.
package contact

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/contact"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
)

// ErrContactNotFound is returned for contacts that do not exist or lie
// outside the caller's stores.
var ErrContactNotFound = shared.NotFound("Contact not found.")

// Service handles contact management
type Service struct {
	repo   contact.Repository
	logger *zap.Logger
}

// NewService creates a new contact service
func NewService(repo contact.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns a page of contacts from the stores the caller may read
func (s *Service) List(ctx context.Context, input ListInput) (page shared.Paginated[ContactDTO], err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "list")
	defer func() { telemetry.EndSpan(span, err) }()

	filter := contact.Filter{
		Filter:     input.Filter.Normalize(),
		Type:       input.Type,
		ClientType: input.ClientType,
	}

	user, ok := identity.PrincipalFrom(ctx)
	if !ok {
		return shared.NewPaginated[ContactDTO](nil, 0, filter.Page, filter.PerPage), nil
	}
	if input.StoreID != nil {
		if !user.HasAccessToStore(*input.StoreID) {
			return page, shared.ErrStoreAccessDenied
		}
		filter.StoreIDs = []uint{*input.StoreID}
	} else {
		filter.StoreIDs = tenancy.ScopeStoreIDs(ctx, user.AccessibleStoreIDs())
	}

	contacts, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return page, fmt.Errorf("list contacts: %w", err)
	}
	dtos := make([]ContactDTO, 0, len(contacts))
	for _, c := range contacts {
		dtos = append(dtos, ToContactDTO(c))
	}
	return shared.NewPaginated(dtos, total, filter.Page, filter.PerPage), nil
}

// Get returns a contact visible to the caller
func (s *Service) Get(ctx context.Context, id uint) (dto *ContactDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "get", attribute.Int64("contact.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToContactDTO(c)
	return &out, nil
}

// Create creates a contact in the requested store, falling back to the
// active store
func (s *Service) Create(ctx context.Context, input ContactInput) (dto *ContactDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "create")
	defer func() { telemetry.EndSpan(span, err) }()

	storeID, err := s.targetStore(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}

	c := &contact.Contact{StoreID: &storeID}
	apply(c, input)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	logger.For(ctx, s.logger).Info("Contact created",
		zap.Uint("contact_id", c.ID),
		zap.Uint("target_store_id", storeID))

	out := ToContactDTO(c)
	return &out, nil
}

// Update applies a partial update. Moving a contact requires access to the
// destination store.
func (s *Service) Update(ctx context.Context, id uint, input ContactInput) (dto *ContactDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "update", attribute.Int64("contact.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.StoreID != nil {
		user, _ := identity.PrincipalFrom(ctx)
		if user == nil || !user.HasAccessToStore(*input.StoreID) {
			return nil, shared.ErrStoreAccessDenied
		}
		sid := *input.StoreID
		c.StoreID = &sid
	}
	apply(c, input)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	logger.For(ctx, s.logger).Info("Contact updated", zap.Uint("contact_id", id))

	out := ToContactDTO(c)
	return &out, nil
}

// Delete soft deletes a contact
func (s *Service) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "delete", attribute.Int64("contact.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.For(ctx, s.logger).Info("Contact deleted", zap.Uint("contact_id", id))
	return nil
}

// Restore brings back a soft-deleted contact
func (s *Service) Restore(ctx context.Context, id uint) (dto *ContactDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contact", "restore", attribute.Int64("contact.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	storeIDs := s.readableStores(ctx)
	if len(storeIDs) == 0 {
		return nil, ErrContactNotFound
	}
	if _, err := s.repo.FindTrashedByID(ctx, id, storeIDs); err != nil {
		return nil, s.notFound(err)
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	logger.For(ctx, s.logger).Info("Contact restored", zap.Uint("contact_id", id))

	return s.Get(ctx, id)
}

func (s *Service) find(ctx context.Context, id uint) (*contact.Contact, error) {
	storeIDs := s.readableStores(ctx)
	if len(storeIDs) == 0 {
		return nil, ErrContactNotFound
	}
	c, err := s.repo.FindByID(ctx, id, storeIDs)
	if err != nil {
		return nil, s.notFound(err)
	}
	return c, nil
}

func (s *Service) readableStores(ctx context.Context) []uint {
	user, ok := identity.PrincipalFrom(ctx)
	if !ok {
		return nil
	}
	return tenancy.ScopeStoreIDs(ctx, user.AccessibleStoreIDs())
}

func (s *Service) notFound(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return ErrContactNotFound
	}
	return err
}

func (s *Service) targetStore(ctx context.Context, requested *uint) (uint, error) {
	if requested != nil {
		user, ok := identity.PrincipalFrom(ctx)
		if !ok || !user.HasAccessToStore(*requested) {
			return 0, shared.ErrStoreAccessDenied
		}
		return *requested, nil
	}
	if id, ok := tenancy.ActiveStore(ctx); ok {
		return id, nil
	}
	return 0, shared.NewValidationError("store_id", "The store id field is required when no store is selected.")
}

func apply(c *contact.Contact, in ContactInput) {
	if in.Type != nil {
		c.Type = *in.Type
	}
	if in.ClientType != nil {
		if *in.ClientType == "" {
			c.ClientType = nil
		} else {
			ct := *in.ClientType
			c.ClientType = &ct
		}
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.CompanyName, in.CompanyName)
	set(&c.ContactName, in.ContactName)
	set(&c.Email, in.Email)
	set(&c.Phone, in.Phone)
	set(&c.Mobile, in.Mobile)
	set(&c.Address, in.Address)
	set(&c.City, in.City)
	set(&c.State, in.State)
	set(&c.Country, in.Country)
	set(&c.PostalCode, in.PostalCode)
	set(&c.TaxID, in.TaxID)
	set(&c.Notes, in.Notes)
}
