package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/gatehouse-labs/gatehouse/auth"
)

// Role names attached to stored users.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Sentinel errors for store operations.
var (
	ErrNotFound = errors.New("store: user not found")
	ErrExists   = errors.New("store: username already taken")
)

// User is a stored user record.
type User struct {
	Username     string   `json:"username"`
	PasswordHash string   `json:"password_hash"`
	Roles        []string `json:"roles"`
	Enabled      bool     `json:"enabled"`
	Admin        bool     `json:"admin"`
}

// NewUser builds a user record from plaintext credentials. The password is
// bcrypt-hashed and discarded. Every user gets RoleUser; the admin flag
// additionally grants RoleAdmin. Self-registration callers must pass
// admin=false regardless of client input.
func NewUser(username, password string, admin bool) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	roles := []string{RoleUser}
	if admin {
		roles = append(roles, RoleAdmin)
	}

	return &User{
		Username:     username,
		PasswordHash: string(hash),
		Roles:        roles,
		Enabled:      true,
		Admin:        admin,
	}, nil
}

// clone returns a copy so callers cannot alias store-internal state.
func (u *User) clone() *User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

// Store persists user records.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: methods may block on I/O and must honor cancellation.
//   - Errors: Lookup returns ErrNotFound for absent usernames; Create
//     returns ErrExists for duplicates.
type Store interface {
	// Lookup returns the user with the given username.
	Lookup(ctx context.Context, username string) (*User, error)

	// Create stores a new user record.
	Create(ctx context.Context, user *User) error

	// List returns all users ordered by username.
	List(ctx context.Context) ([]*User, error)

	// Close releases store resources.
	Close() error
}

// userSource adapts a Store to the authenticator's lookup contract.
type userSource struct {
	store Store
}

// UserSource exposes a Store as an auth.UserSource.
func UserSource(s Store) auth.UserSource {
	return userSource{store: s}
}

// LookupUser translates store records and errors into the authenticator's
// vocabulary: ErrNotFound becomes auth.ErrUnknownUser, anything else is an
// infrastructure failure.
func (s userSource) LookupUser(ctx context.Context, username string) (*auth.StoredUser, error) {
	user, err := s.store.Lookup(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, auth.ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}

	return &auth.StoredUser{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Authorities:  user.Roles,
		Enabled:      user.Enabled,
	}, nil
}

// Ensure userSource implements auth.UserSource
var _ auth.UserSource = userSource{}
