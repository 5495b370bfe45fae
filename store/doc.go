// Package store persists user records for the authentication layer.
//
// It provides the Store contract plus two implementations: an in-memory
// store for tests and single-process setups, and a Badger-backed store for
// durable deployments. Passwords are hashed with bcrypt before they reach
// a store; plaintext never touches persistence.
package store
