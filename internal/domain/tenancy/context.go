package tenancy

import "context"

type activeStoreKey struct{}

// WithActiveStore returns a context whose active store is storeID.
// The value lives only as long as the request context it is derived from.
func WithActiveStore(ctx context.Context, storeID uint) context.Context {
	return context.WithValue(ctx, activeStoreKey{}, storeID)
}

// ActiveStore returns the active store of ctx. The second result is false
// when no store is active.
func ActiveStore(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(activeStoreKey{}).(uint)
	return id, ok && id != 0
}

// ScopeStoreIDs returns the store ids a tenant-scoped read may touch: the
// active store if one is set, otherwise accessible. A nil or empty result
// means nothing may be read.
func ScopeStoreIDs(ctx context.Context, accessible []uint) []uint {
	if id, ok := ActiveStore(ctx); ok {
		return []uint{id}
	}
	return accessible
}
