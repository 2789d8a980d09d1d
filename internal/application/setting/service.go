// Package setting contains the per-store typed settings use cases.
package setting

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/setting"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
)

// ErrSettingNotFound is returned when the key has no live value in the active store
var ErrSettingNotFound = shared.NotFound("Setting not found.")

// SettingDTO is a setting with its decoded value
type SettingDTO struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// PutInput replaces the value of a key. An empty Type keeps the stored type,
// or string for a new key.
type PutInput struct {
	Value any
	Type  setting.ValueType
}

// Service handles settings of the active store
type Service struct {
	repo   setting.Repository
	logger *zap.Logger
}

// NewService creates a new setting service
func NewService(repo setting.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns every setting of the active store. Without an active store
// the result is empty.
func (s *Service) List(ctx context.Context) (out []SettingDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "setting", "list")
	defer func() { telemetry.EndSpan(span, err) }()

	out = make([]SettingDTO, 0)
	storeID, ok := tenancy.ActiveStore(ctx)
	if !ok {
		return out, nil
	}
	settings, err := s.repo.FindAll(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	for _, st := range settings {
		dto, err := toDTO(st)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// Get returns one setting of the active store
func (s *Service) Get(ctx context.Context, key string) (dto *SettingDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "setting", "get")
	defer func() { telemetry.EndSpan(span, err) }()

	storeID, ok := tenancy.ActiveStore(ctx)
	if !ok {
		return nil, ErrSettingNotFound
	}
	st, err := s.repo.FindByKey(ctx, storeID, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	out, err := toDTO(st)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Put creates or replaces a setting of the active store
func (s *Service) Put(ctx context.Context, key string, input PutInput) (dto *SettingDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "setting", "put")
	defer func() { telemetry.EndSpan(span, err) }()

	storeID, ok := tenancy.ActiveStore(ctx)
	if !ok {
		return nil, shared.NewValidationError("X-Store-ID", "A store must be selected to change settings.")
	}

	typ := input.Type
	if typ == "" {
		existing, err := s.repo.FindByKey(ctx, storeID, key)
		switch {
		case err == nil:
			typ = existing.Type
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}
	st, err := setting.New(storeID, key, typ, input.Value)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save setting: %w", err)
	}
	logger.For(ctx, s.logger).Info("Setting saved",
		zap.String("key", st.Key),
		zap.String("type", string(st.Type)))

	out, err := toDTO(st)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete soft deletes a setting of the active store
func (s *Service) Delete(ctx context.Context, key string) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "setting", "delete")
	defer func() { telemetry.EndSpan(span, err) }()

	storeID, ok := tenancy.ActiveStore(ctx)
	if !ok {
		return ErrSettingNotFound
	}
	if err := s.repo.SoftDelete(ctx, storeID, key); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrSettingNotFound
		}
		return err
	}
	logger.For(ctx, s.logger).Info("Setting deleted", zap.String("key", key))
	return nil
}

func toDTO(st *setting.Setting) (SettingDTO, error) {
	v, err := st.TypedValue()
	if err != nil {
		return SettingDTO{}, fmt.Errorf("setting %q: %w", st.Key, err)
	}
	return SettingDTO{Key: st.Key, Value: v, Type: string(st.Type)}, nil
}
