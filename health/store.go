package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatehouse-labs/gatehouse/store"
)

// storeProbeUsername is shorter than the minimum registrable username, so
// it can never collide with a real account.
const storeProbeUsername = "_"

// StoreChecker probes the user store with a lookup. A hit or a clean
// not-found both mean the store is answering; anything else is an outage.
type StoreChecker struct {
	store store.Store
}

// NewStoreChecker creates a checker for the given user store.
func NewStoreChecker(s store.Store) *StoreChecker {
	return &StoreChecker{store: s}
}

func (c *StoreChecker) Name() string { return "user-store" }

// Check performs one probe lookup.
func (c *StoreChecker) Check(ctx context.Context) Result {
	_, err := c.store.Lookup(ctx, storeProbeUsername)
	if err == nil || errors.Is(err, store.ErrNotFound) {
		return Healthy("user store reachable")
	}
	return Unhealthy(fmt.Sprintf("user store lookup failed: %v", err), err)
}

// Ensure StoreChecker implements Checker
var _ Checker = (*StoreChecker)(nil)
