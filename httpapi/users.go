package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gatehouse-labs/gatehouse/observe"
	"github.com/gatehouse-labs/gatehouse/store"
)

// Username length bounds for new accounts.
const (
	usernameMinLen = 4
	usernameMaxLen = 12
)

// createUserRequest is the request body for the create and register
// endpoints. The admin flag is honored only on the admin create path.
type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

// userResponse is the wire shape of a stored user. The password hash is
// deliberately absent.
type userResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Enabled  bool     `json:"enabled"`
}

func toUserResponse(u *store.User) userResponse {
	return userResponse{
		Username: u.Username,
		Roles:    u.Roles,
		Enabled:  u.Enabled,
	}
}

// handleListUsers returns all stored users ordered by username.
func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := a.store.List(ctx)
	if err != nil {
		a.logger.Error(ctx, "user list failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		writeServerError(w)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateUser creates a user on behalf of an administrator. The admin
// flag from the request body is honored, so this path can mint further
// administrators. Route policy guards it with the admin authority.
func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
		})
		return
	}

	a.createUser(w, r, req, req.Admin)
}

// handleRegister is the self-registration path. The admin flag is forced
// off before the record is built, whatever the client sent.
func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
		})
		return
	}

	a.createUser(w, r, req, false)
}

// createUser validates the request and stores the record. admin comes from
// the caller, not the request, so the register path cannot escalate.
func (a *API) createUser(w http.ResponseWriter, r *http.Request, req createUserRequest, admin bool) {
	ctx := r.Context()

	if fieldErrors := validateCreateUser(req); len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrors)
		return
	}

	user, err := store.NewUser(req.Username, req.Password, admin)
	if err != nil {
		a.logger.Error(ctx, "user record build failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		writeServerError(w)
		return
	}

	err = a.store.Create(ctx, user)
	if errors.Is(err, store.ErrExists) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"username": "username already taken",
		})
		return
	}
	if err != nil {
		a.logger.Error(ctx, "user create failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		writeServerError(w)
		return
	}

	a.logger.Info(ctx, "user created",
		observe.Field{Key: "username", Value: user.Username},
		observe.Field{Key: "admin", Value: admin},
	)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// validateCreateUser returns field-keyed validation messages, empty when
// the request is acceptable.
func validateCreateUser(req createUserRequest) map[string]string {
	fieldErrors := make(map[string]string)

	if n := utf8.RuneCountInString(req.Username); n < usernameMinLen || n > usernameMaxLen {
		fieldErrors["username"] = "username must be between 4 and 12 characters"
	}
	if req.Password == "" {
		fieldErrors["password"] = "password must not be blank"
	}

	return fieldErrors
}
