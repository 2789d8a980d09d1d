// Package audit stamps actor provenance on persisted records.
//
// The acting user is carried explicitly by the request context. Create and
// update stamping runs as gorm callbacks so every repository gets it; delete
// transitions go through SoftDelete, Restore and ForceDelete, which write the
// deleted_by marker in the same statement or transaction as the deletion.
package audit

import (
	"context"

	"github.com/storehub/backend/internal/domain/identity"
)

type actorKey struct{}

// WithActor returns a context carrying the acting user id
func WithActor(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the acting user id. An explicit actor wins over the
// authenticated principal. No actor means no stamping.
func ActorFrom(ctx context.Context) (uint, bool) {
	if ctx == nil {
		return 0, false
	}
	if id, ok := ctx.Value(actorKey{}).(uint); ok && id != 0 {
		return id, true
	}
	if user, ok := identity.PrincipalFrom(ctx); ok && user.ID != 0 {
		return user.ID, true
	}
	return 0, false
}

func actorPtr(ctx context.Context) *uint {
	if id, ok := ActorFrom(ctx); ok {
		return &id
	}
	return nil
}
