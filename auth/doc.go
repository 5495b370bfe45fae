// Package auth implements stateless token-based authentication and
// authorization for an HTTP API.
//
// Credentials are verified against a user source, successful logins are
// issued a signed token, and the bearer filter validates that token on
// every protected request before populating the request-scoped identity.
package auth
