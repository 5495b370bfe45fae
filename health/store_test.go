package health

import (
	"context"
	"errors"
	"testing"

	"github.com/gatehouse-labs/gatehouse/store"
)

type brokenStore struct {
	store.Store
}

func (brokenStore) Lookup(context.Context, string) (*store.User, error) {
	return nil, errors.New("connection refused")
}

func TestStoreChecker(t *testing.T) {
	t.Run("empty store is healthy", func(t *testing.T) {
		checker := NewStoreChecker(store.NewMemory())

		result := checker.Check(context.Background())
		if result.Status != StatusHealthy {
			t.Errorf("status = %v, want healthy; message = %s", result.Status, result.Message)
		}
	})

	t.Run("lookup failure is unhealthy", func(t *testing.T) {
		checker := NewStoreChecker(brokenStore{})

		result := checker.Check(context.Background())
		if result.Status != StatusUnhealthy {
			t.Errorf("status = %v, want unhealthy", result.Status)
		}
		if result.Error == nil {
			t.Error("unhealthy result should carry the cause")
		}
	})
}

func TestStoreChecker_Name(t *testing.T) {
	if got := NewStoreChecker(store.NewMemory()).Name(); got != "user-store" {
		t.Errorf("Name() = %q, want user-store", got)
	}
}
