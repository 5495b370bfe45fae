package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gatehouse-labs/gatehouse/auth"
	"github.com/gatehouse-labs/gatehouse/observe"
	"github.com/gatehouse-labs/gatehouse/store"
)

// Route paths served by the router.
const (
	PathLogin    = "/auth/login"
	PathUsers    = "/api/users"
	PathRegister = "/api/users/register"
	PathHealth   = "/health"
)

// RouterConfig configures the assembled HTTP handler.
type RouterConfig struct {
	// API provides the endpoint handlers.
	API *API

	// Codec verifies bearer tokens on incoming requests.
	Codec *auth.TokenCodec

	// Policy maps routes to required authorities.
	// Default: DefaultPolicy()
	Policy *auth.RoutePolicy

	// Throttle limits login attempts per client.
	// Default: NewLoginThrottle with default rate and burst.
	Throttle *LoginThrottle

	// Observe wraps every request with tracing, metrics, and logging.
	// Optional.
	Observe *observe.Middleware

	// Metrics records the outcome of every bearer token verification.
	// Optional.
	Metrics observe.Metrics

	// Liveness and Readiness serve the health probes. HealthDetail serves
	// the per-check breakdown and is admin-gated by DefaultPolicy.
	// Optional.
	Liveness     http.Handler
	Readiness    http.Handler
	HealthDetail http.Handler
}

// DefaultPolicy returns the route policy for the served endpoints: login,
// registration, and the user list are public; creating users and the
// detailed health breakdown require the admin role; everything else
// requires an authenticated identity.
func DefaultPolicy() *auth.RoutePolicy {
	return auth.NewRoutePolicy(
		auth.Rule{Method: http.MethodPost, Pattern: PathLogin},
		auth.Rule{Method: http.MethodPost, Pattern: PathRegister},
		auth.Rule{Method: http.MethodGet, Pattern: PathUsers},
		auth.Rule{Method: http.MethodPost, Pattern: PathUsers, Authority: store.RoleAdmin},
		auth.Rule{Method: http.MethodGet, Pattern: "/healthz"},
		auth.Rule{Method: http.MethodGet, Pattern: "/readyz"},
		auth.Rule{Method: http.MethodGet, Pattern: PathHealth, Authority: store.RoleAdmin},
		auth.Rule{Pattern: "*", Authority: auth.AuthorityAny},
	)
}

// tokenOutcome maps a verification error onto its metric label.
func tokenOutcome(err error) string {
	switch {
	case err == nil:
		return observe.OutcomeSuccess
	case errors.Is(err, auth.ErrTokenExpired):
		return observe.OutcomeExpired
	case errors.Is(err, auth.ErrBadSignature):
		return observe.OutcomeBadSignature
	default:
		return observe.OutcomeMalformed
	}
}

// NewRouter assembles the HTTP handler. Middleware order is fixed: panic
// recovery, request observation, bearer token filter, route policy, then
// the routed handler. The policy sees the identity the filter attached.
func NewRouter(config RouterConfig) http.Handler {
	// Apply defaults
	if config.Policy == nil {
		config.Policy = DefaultPolicy()
	}
	if config.Throttle == nil {
		config.Throttle = NewLoginThrottle(ThrottleConfig{})
	}

	filterConfig := auth.FilterConfig{}
	if config.Metrics != nil {
		metrics := config.Metrics
		filterConfig.OnVerify = func(ctx context.Context, err error) {
			metrics.RecordTokenCheck(ctx, tokenOutcome(err))
		}
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if config.Observe != nil {
		r.Use(config.Observe.Handler)
	}
	r.Use(auth.NewTokenFilter(config.Codec, filterConfig).Handler)
	r.Use(config.Policy.Handler)

	r.Method(http.MethodPost, PathLogin,
		config.Throttle.Handler(http.HandlerFunc(config.API.handleLogin)))
	r.Get(PathUsers, config.API.handleListUsers)
	r.Post(PathUsers, config.API.handleCreateUser)
	r.Post(PathRegister, config.API.handleRegister)

	if config.Liveness != nil {
		r.Method(http.MethodGet, "/healthz", config.Liveness)
	}
	if config.Readiness != nil {
		r.Method(http.MethodGet, "/readyz", config.Readiness)
	}
	if config.HealthDetail != nil {
		r.Method(http.MethodGet, PathHealth, config.HealthDetail)
	}

	return r
}
