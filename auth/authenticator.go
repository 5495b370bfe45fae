package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is a username/password pair extracted from a login request.
// It exists only for the duration of the request and must never be
// persisted or logged.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StoredUser is the record a UserSource returns for a username: the stored
// password hash plus the role names attached to the user.
type StoredUser struct {
	Username     string
	PasswordHash string
	Authorities  []string
	Enabled      bool
}

// UserSource looks up stored credentials by username.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: LookupUser may block on external I/O and must honor
//     cancellation/deadlines.
//   - Errors: returns ErrUnknownUser when no such user exists; any other
//     error is treated as an infrastructure failure.
type UserSource interface {
	LookupUser(ctx context.Context, username string) (*StoredUser, error)
}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(password, hash string) bool
}

// BcryptVerifier verifies passwords against bcrypt hashes.
type BcryptVerifier struct{}

// Verify reports whether password matches the bcrypt hash.
func (BcryptVerifier) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CredentialAuthenticator verifies a username/password pair against a user
// source and produces the authenticated identity.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: unknown user, wrong password, disabled account and empty
//     credentials all surface as ErrInvalidCredentials; user source I/O
//     failures wrap ErrStoreUnavailable.
//   - Authenticate never mutates stored state.
type CredentialAuthenticator struct {
	source   UserSource
	verifier PasswordVerifier
}

// NewCredentialAuthenticator creates a credential authenticator.
// A nil verifier defaults to bcrypt.
func NewCredentialAuthenticator(source UserSource, verifier PasswordVerifier) *CredentialAuthenticator {
	if verifier == nil {
		verifier = BcryptVerifier{}
	}
	return &CredentialAuthenticator{
		source:   source,
		verifier: verifier,
	}
}

// Authenticate verifies the credentials and returns the identity with the
// authority set attached to the stored user record.
func (a *CredentialAuthenticator) Authenticate(ctx context.Context, creds Credentials) (*Identity, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.source.LookupUser(ctx, creds.Username)
	if errors.Is(err, ErrUnknownUser) {
		// Folded into the generic failure so the caller cannot tell an
		// unknown username from a wrong password.
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !user.Enabled {
		return nil, ErrInvalidCredentials
	}
	if !a.verifier.Verify(creds.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return NewIdentity(user.Username, user.Authorities), nil
}

// Ensure BcryptVerifier implements PasswordVerifier
var _ PasswordVerifier = BcryptVerifier{}
