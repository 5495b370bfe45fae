package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Header and scheme constants for bearer token transport.
const (
	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer "
)

// BearerToken extracts the raw token string from the request's
// Authorization header. Returns false if the header is absent or does not
// carry the Bearer scheme.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(HeaderAuthorization)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix)), true
}

// FilterConfig configures the token filter.
type FilterConfig struct {
	// OnVerify observes every bearer token verification with its error,
	// nil on success. Requests without a bearer token are not verified
	// and not observed.
	// Default: no observation.
	OnVerify func(ctx context.Context, err error)
}

// TokenFilter is HTTP middleware that validates bearer tokens on incoming
// requests.
//
// Requests without an Authorization header (or with a non-Bearer scheme)
// pass through unauthenticated; downstream route policy rejects them if
// the route requires an authority. Requests with an invalid token are
// short-circuited with a 401 response and never reach the next handler.
// Requests with a valid token continue with the decoded identity attached
// to the request context.
type TokenFilter struct {
	codec    *TokenCodec
	onVerify func(ctx context.Context, err error)
}

// NewTokenFilter creates a token filter backed by the given codec.
func NewTokenFilter(codec *TokenCodec, config FilterConfig) *TokenFilter {
	return &TokenFilter{
		codec:    codec,
		onVerify: config.OnVerify,
	}
}

// Handler wraps next with bearer token validation.
func (f *TokenFilter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := BearerToken(r)
		if !ok {
			// Intentional pass-through: anonymous requests are rejected by
			// route policy, not by the filter.
			next.ServeHTTP(w, r)
			return
		}

		id, err := f.codec.Verify(raw)
		if f.onVerify != nil {
			f.onVerify(r.Context(), err)
		}
		if err != nil {
			writeUnauthorized(w, map[string]string{
				"error":   err.Error(),
				"message": "token invalid",
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func writeUnauthorized(w http.ResponseWriter, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(body)
}
