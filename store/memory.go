package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory user store.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]*User),
	}
}

// Lookup returns the user with the given username, or ErrNotFound.
func (m *Memory) Lookup(_ context.Context, username string) (*User, error) {
	m.mu.RLock()
	user, ok := m.users[username]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return user.clone(), nil
}

// Create stores a new user. Returns ErrExists for duplicate usernames.
func (m *Memory) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.Username]; exists {
		return ErrExists
	}
	m.users[user.Username] = user.clone()
	return nil
}

// List returns all users ordered by username.
func (m *Memory) List(_ context.Context) ([]*User, error) {
	m.mu.RLock()
	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u.clone())
	}
	m.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error {
	return nil
}

// Ensure Memory implements Store
var _ Store = (*Memory)(nil)
