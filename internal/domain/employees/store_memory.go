package employees

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps records in insertion order. It backs memory:// URLs.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Employee
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (m *MemoryStore) List(_ context.Context, filter Filter) ([]Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Employee, 0, len(m.records))
	for _, emp := range m.records {
		if filter.Matches(emp) {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.records[i], nil
	}
	return Employee{}, ErrNotFound
}

func (m *MemoryStore) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.emailTaken(email, ""), nil
}

func (m *MemoryStore) Insert(_ context.Context, emp Employee) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(emp.Email, "") {
		return "", ErrConflict
	}
	emp.ID = uuid.NewString()
	m.records = append(m.records, emp)
	return emp.ID, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, change Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	p := change.Patch
	if p.Email != nil && m.emailTaken(*p.Email, id) {
		return ErrConflict
	}

	emp := m.records[i]
	if p.FirstName != nil {
		emp.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		emp.LastName = *p.LastName
	}
	if p.Email != nil {
		emp.Email = *p.Email
	}
	if p.Position != nil {
		emp.Position = *p.Position
	}
	if p.Salary != nil {
		emp.Salary = *p.Salary
	}
	if p.DateOfJoining != nil {
		emp.DateOfJoining = *p.DateOfJoining
	}
	if p.Department != nil {
		emp.Department = *p.Department
	}
	if change.ProfilePicture != nil {
		picture := *change.ProfilePicture
		emp.ProfilePicture = &picture
	}
	emp.UpdatedAt = change.UpdatedAt
	m.records[i] = emp
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.records = append(m.records[:i], m.records[i+1:]...)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) indexOf(id string) int {
	for i, emp := range m.records {
		if emp.ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) emailTaken(email, exceptID string) bool {
	for _, emp := range m.records {
		if emp.Email == email && emp.ID != exceptID {
			return true
		}
	}
	return false
}
