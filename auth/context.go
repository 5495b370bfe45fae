package auth

import "context"

// Context keys for auth-related values.
type contextKey int

const identityKey contextKey = iota

// WithIdentity returns a new context with the given identity attached.
// The identity is request-scoped: it is written at most once, by the token
// filter, and discarded with the request context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity from the context.
// The second return value is false for anonymous (unauthenticated)
// requests; callers must check it before reading authorities.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

// UsernameFromContext retrieves the authenticated username from the
// context. Returns empty string for anonymous requests.
func UsernameFromContext(ctx context.Context) string {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return id.Username
}
