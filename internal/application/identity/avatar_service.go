package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/shared"
	"github.com/storehub/backend/internal/domain/tenancy"
	"github.com/storehub/backend/internal/infrastructure/cache"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
)

// ObjectStorage is the part of the object store avatars need
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error)
	PresignDownload(ctx context.Context, key string) (string, time.Time, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// AvatarUpload tells the client where to PUT the image
type AvatarUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AvatarURL is a temporary link to the caller's avatar
type AvatarURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AvatarService manages the caller's avatar in object storage. Clients
// upload directly with a presigned URL and then confirm the key.
type AvatarService struct {
	userRepo   identity.UserRepository
	users      userAssembler
	storage    ObjectStorage
	principals *cache.PrincipalCache
	logger     *zap.Logger
}

// NewAvatarService creates a new avatar service
func NewAvatarService(
	userRepo identity.UserRepository,
	storeRepo tenancy.StoreRepository,
	storage ObjectStorage,
	principals *cache.PrincipalCache,
	logger *zap.Logger,
) *AvatarService {
	return &AvatarService{
		userRepo:   userRepo,
		users:      userAssembler{stores: storeRepo},
		storage:    storage,
		principals: principals,
		logger:     logger,
	}
}

func avatarPrefix(userID uint) string {
	return fmt.Sprintf("avatars/%d/", userID)
}

// InitiateUpload reserves a fresh key for the caller and presigns it
func (s *AvatarService) InitiateUpload(ctx context.Context, contentType string) (out *AvatarUpload, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "avatar", "initiate_upload")
	defer func() { telemetry.EndSpan(span, err) }()

	principal, ok := identity.PrincipalFrom(ctx)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	ext, ok := avatarExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, shared.NewValidationError("content_type", "The avatar must be a file of type: jpeg, png, webp, gif.")
	}

	key := avatarPrefix(principal.ID) + uuid.NewString() + "." + ext
	url, expiresAt, err := s.storage.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("presign avatar upload: %w", err)
	}
	return &AvatarUpload{Key: key, UploadURL: url, Method: "PUT", ExpiresAt: expiresAt}, nil
}

// Confirm makes an uploaded key the caller's avatar and removes the previous one
func (s *AvatarService) Confirm(ctx context.Context, key string) (dto *UserDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "avatar", "confirm")
	defer func() { telemetry.EndSpan(span, err) }()

	principal, ok := identity.PrincipalFrom(ctx)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	prefix := avatarPrefix(principal.ID)
	if !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") {
		return nil, shared.NewValidationError("key", "The selected key is invalid.")
	}
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check avatar: %w", err)
	}
	if !exists {
		return nil, shared.NewValidationError("key", "The avatar has not been uploaded.")
	}

	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	previous := user.Avatar
	user.Avatar = key
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	s.principals.Invalidate(ctx, user.ID)

	log := logger.For(ctx, s.logger)
	if previous != "" && previous != key && strings.HasPrefix(previous, prefix) {
		if err := s.storage.Delete(ctx, previous); err != nil {
			log.Warn("Failed to delete previous avatar", zap.String("key", previous), zap.Error(err))
		}
	}
	log.Info("Avatar updated", zap.String("key", key))
	return s.users.one(ctx, user)
}

// URL presigns a download link for the caller's avatar
func (s *AvatarService) URL(ctx context.Context) (out *AvatarURL, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "avatar", "url")
	defer func() { telemetry.EndSpan(span, err) }()

	principal, ok := identity.PrincipalFrom(ctx)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	if principal.Avatar == "" {
		return nil, shared.NotFound("Avatar not found.")
	}
	// avatars set through the profile form are plain URLs
	if !strings.HasPrefix(principal.Avatar, "avatars/") {
		return &AvatarURL{URL: principal.Avatar}, nil
	}
	url, expiresAt, err := s.storage.PresignDownload(ctx, principal.Avatar)
	if err != nil {
		return nil, fmt.Errorf("presign avatar download: %w", err)
	}
	return &AvatarURL{URL: url, ExpiresAt: expiresAt}, nil
}
