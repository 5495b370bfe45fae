// Package httpapi is the HTTP surface of the service: the login endpoint,
// the user resource endpoints, and the router that assembles them behind
// the bearer token filter and the route policy.
package httpapi
