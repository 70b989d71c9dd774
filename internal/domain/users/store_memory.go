package users

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore backs memory:// URLs.
type MemoryStore struct {
	mu    sync.RWMutex
	users []User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *MemoryStore) Create(_ context.Context, user User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return "", ErrConflict
		}
	}
	user.ID = uuid.NewString()
	m.users = append(m.users, user)
	return user.ID, nil
}

func (m *MemoryStore) List(context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
