package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatehouse-labs/gatehouse/auth"
	"github.com/gatehouse-labs/gatehouse/observe"
	"github.com/gatehouse-labs/gatehouse/store"
)

// APIConfig configures the API handlers.
type APIConfig struct {
	// Store is the user store.
	Store store.Store

	// Authenticator verifies login credentials.
	Authenticator *auth.CredentialAuthenticator

	// Codec issues tokens for successful logins.
	Codec *auth.TokenCodec

	// Logger receives request-scoped log entries.
	// Default: a no-op logger.
	Logger observe.Logger

	// Metrics records login outcomes.
	// Default: a no-op recorder.
	Metrics observe.Metrics
}

// API holds the HTTP handlers for the login and user endpoints.
type API struct {
	store         store.Store
	authenticator *auth.CredentialAuthenticator
	codec         *auth.TokenCodec
	logger        observe.Logger
	metrics       observe.Metrics
}

// NewAPI creates the API handlers.
func NewAPI(config APIConfig) *API {
	// Apply defaults
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = observe.NopMetrics{}
	}

	return &API{
		store:         config.Store,
		authenticator: config.Authenticator,
		codec:         config.Codec,
		logger:        config.Logger.WithComponent("httpapi"),
		metrics:       config.Metrics,
	}
}

// handleLogin authenticates a username/password pair and returns a signed
// token. Every authentication failure gets the same 401 body regardless of
// cause; only store outages surface as 500.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		a.metrics.RecordLogin(ctx, observe.OutcomeInvalidCredentials)
		writeLoginFailure(w)
		return
	}

	id, err := a.authenticator.Authenticate(ctx, creds)
	if errors.Is(err, auth.ErrStoreUnavailable) {
		a.metrics.RecordLogin(ctx, observe.OutcomeStoreError)
		a.logger.Error(ctx, "login store lookup failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		writeServerError(w)
		return
	}
	if err != nil {
		a.metrics.RecordLogin(ctx, observe.OutcomeInvalidCredentials)
		a.logger.Info(ctx, "login rejected",
			observe.Field{Key: "username", Value: creds.Username},
		)
		writeLoginFailure(w)
		return
	}

	token, err := a.codec.Issue(id)
	if err != nil {
		a.metrics.RecordLogin(ctx, observe.OutcomeStoreError)
		a.logger.Error(ctx, "token issue failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		writeServerError(w)
		return
	}

	a.metrics.RecordLogin(ctx, observe.OutcomeSuccess)
	a.logger.Info(ctx, "login succeeded",
		observe.Field{Key: "username", Value: id.Username},
	)

	w.Header().Set(auth.HeaderAuthorization, auth.BearerPrefix+token)
	writeJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"username": id.Username,
		"message":  "login successful",
	})
}

// writeLoginFailure writes the uniform 401 body. The same response covers
// unknown users, wrong passwords, disabled accounts and undecodable bodies
// so the endpoint cannot be used to enumerate usernames. The capitalized
// Message key is part of the wire contract for this endpoint.
func writeLoginFailure(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"Message": "authentication failed",
		"error":   auth.ErrInvalidCredentials.Error(),
	})
}
