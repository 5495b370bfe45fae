package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Rule maps a route to the authority it requires.
type Rule struct {
	// Method is the HTTP method. Empty matches any method.
	Method string

	// Pattern is the path pattern. A trailing "*" matches any suffix;
	// a bare "*" matches every path.
	Pattern string

	// Authority is the authority required to access the route.
	// Empty means the route is public; AuthorityAny means any
	// authenticated identity suffices.
	Authority string
}

// RoutePolicy is a declarative route-to-authority table consulted after
// the token filter has populated the request context. Rules are evaluated
// in order; the first match wins.
type RoutePolicy struct {
	rules []Rule
}

// NewRoutePolicy creates a route policy from the given rules.
func NewRoutePolicy(rules ...Rule) *RoutePolicy {
	return &RoutePolicy{rules: rules}
}

// Required returns the authority required for the given method and path.
// The second return value is false when no rule matches, which callers
// should treat as public.
func (p *RoutePolicy) Required(method, path string) (string, bool) {
	for _, rule := range p.rules {
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if !matchPattern(rule.Pattern, path) {
			continue
		}
		return rule.Authority, true
	}
	return "", false
}

// Handler wraps next with the route policy check. Anonymous requests to
// guarded routes get 401; authenticated requests lacking the required
// authority get 403.
func (p *RoutePolicy) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authority, ok := p.Required(r.Method, r.URL.Path)
		if !ok || authority == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, authenticated := IdentityFromContext(r.Context())
		if !authenticated {
			writeUnauthorized(w, map[string]string{
				"message": "authentication required",
			})
			return
		}

		if authority != AuthorityAny && !id.HasAuthority(authority) {
			denial := &PolicyError{
				Username:  id.Username,
				Path:      r.URL.Path,
				Authority: authority,
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"message": "access denied",
				"error":   denial.Error(),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// matchPattern matches a pattern against a path.
// Supports "*" as a trailing wildcard.
func matchPattern(pattern, path string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == path
}

// PolicyError represents an authorization denial.
type PolicyError struct {
	// Username is the identity that was denied.
	Username string

	// Path is the route that was denied access to.
	Path string

	// Authority is the authority the route requires.
	Authority string
}

// Error returns the error message.
func (e *PolicyError) Error() string {
	return fmt.Sprintf("access denied: subject=%q path=%q required=%q",
		e.Username, e.Path, e.Authority)
}

// Is reports whether this error matches the target.
func (e *PolicyError) Is(target error) bool {
	return target == ErrForbidden
}
