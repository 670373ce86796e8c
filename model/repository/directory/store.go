package directory

import (
	"context"
	"sync"

	"ppe.GO/model/entity"
)

// Store persists the employee directory keyed by personnel number.
type Store interface {
	Load(ctx context.Context) ([]entity.Employee, error)
	// Save updates the employee with the same ID in place or inserts it.
	Save(ctx context.Context, e entity.Employee) error
}

type MemoryStore struct {
	mu        sync.RWMutex
	employees []entity.Employee
}

func NewMemoryStore(seed ...entity.Employee) *MemoryStore {
	return &MemoryStore{employees: append([]entity.Employee(nil), seed...)}
}

func (s *MemoryStore) Load(ctx context.Context) ([]entity.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Employee(nil), s.employees...), nil
}

func (s *MemoryStore) Save(ctx context.Context, e entity.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == e.ID {
			s.employees[i] = e
			return nil
		}
	}
	s.employees = append([]entity.Employee{e}, s.employees...)
	return nil
}
