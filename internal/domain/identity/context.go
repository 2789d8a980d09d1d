package identity

import "context"

type principalKey struct{}

// WithPrincipal returns a context carrying the authenticated user
func WithPrincipal(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, principalKey{}, user)
}

// PrincipalFrom returns the authenticated user carried by ctx, if any
func PrincipalFrom(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(principalKey{}).(*User)
	return user, ok && user != nil
}
