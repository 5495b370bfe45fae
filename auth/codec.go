package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = time.Hour

// CodecConfig configures the token codec.
type CodecConfig struct {
	// TTL is the token lifetime.
	// Default: DefaultTokenTTL
	TTL time.Duration

	// Now overrides the clock, for deterministic tests.
	// Default: time.Now
	Now func() time.Time
}

// tokenClaims is the wire representation of the claims payload.
type tokenClaims struct {
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// TokenCodec encodes an identity into a signed, tamper-evident token and
// decodes a token back into an identity.
//
// Contract:
//   - Concurrency: a TokenCodec is immutable after construction and safe
//     for concurrent use.
//   - Errors: Verify failures are one of ErrTokenMalformed, ErrBadSignature
//     or ErrTokenExpired; check with errors.Is.
//   - Both operations are pure (up to the clock) and never block.
type TokenCodec struct {
	key SigningKey
	ttl time.Duration
	now func() time.Time
}

// NewTokenCodec creates a token codec bound to the given signing key.
func NewTokenCodec(key SigningKey, config CodecConfig) *TokenCodec {
	// Apply defaults
	if config.TTL <= 0 {
		config.TTL = DefaultTokenTTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &TokenCodec{
		key: key,
		ttl: config.TTL,
		now: config.Now,
	}
}

// Issue encodes the identity into a signed token string.
//
// Claims: sub = username, authorities = authority set, iat = now,
// exp = now + TTL. The signature is HMAC-SHA256 over header and payload.
func (c *TokenCodec) Issue(id *Identity) (string, error) {
	if id == nil || id.Username == "" {
		return "", fmt.Errorf("issue token: %w", ErrInvalidCredentials)
	}

	now := c.now()
	claims := tokenClaims{
		Authorities: id.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.key))
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a token string and returns the identity it
// encodes.
//
// Failures map onto the error taxonomy: a structurally invalid token is
// ErrTokenMalformed, a signature that does not verify under the current key
// (tampering, or a key from a previous process lifetime) is ErrBadSignature,
// and an exp claim in the past is ErrTokenExpired.
func (c *TokenCodec) Verify(tokenString string) (*Identity, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return []byte(c.key), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, ErrTokenMalformed
	}

	if claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	return NewIdentity(claims.Subject, claims.Authorities), nil
}
