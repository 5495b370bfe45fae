package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func mustUser(t *testing.T, username string, admin bool) *User {
	t.Helper()
	user, err := NewUser(username, "s3cret", admin)
	if err != nil {
		t.Fatalf("NewUser(%q) error = %v", username, err)
	}
	return user
}

func TestMemory_CreateLookup(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	if err := mem.Create(ctx, mustUser(t, "alice", false)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := mem.Lookup(ctx, "alice")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want alice", got.Username)
	}

	if _, err := mem.Lookup(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemory_DuplicateCreate(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	if err := mem.Create(ctx, mustUser(t, "alice", false)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mem.Create(ctx, mustUser(t, "alice", true)); !errors.Is(err, ErrExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrExists", err)
	}
}

func TestMemory_List(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		if err := mem.Create(ctx, mustUser(t, name, false)); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}

	users, err := mem.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"alice", "bob", "carol"}
	if len(users) != len(want) {
		t.Fatalf("List() returned %d users, want %d", len(users), len(want))
	}
	for i, name := range want {
		if users[i].Username != name {
			t.Errorf("List()[%d] = %q, want %q", i, users[i].Username, name)
		}
	}
}

func TestMemory_LookupReturnsCopy(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	if err := mem.Create(ctx, mustUser(t, "alice", false)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, _ := mem.Lookup(ctx, "alice")
	first.Roles[0] = "ROLE_MUTATED"

	second, _ := mem.Lookup(ctx, "alice")
	if second.Roles[0] != RoleUser {
		t.Error("mutating a Lookup result leaked into the store")
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	if err := mem.Create(ctx, mustUser(t, "alice", false)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_, _ = mem.Lookup(ctx, "alice")
				_, _ = mem.List(ctx)
			}
		}()
	}
	wg.Wait()
}
