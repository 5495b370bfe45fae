package health

import "errors"

var (
	// ErrCheckTimeout indicates a health check did not complete in time.
	ErrCheckTimeout = errors.New("health: check timeout")
)
