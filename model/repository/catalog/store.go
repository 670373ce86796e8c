package catalog

import (
	"context"
	"sync"

	"ppe.GO/model/entity"
)

// Store persists catalog entries keyed by base item code.
type Store interface {
	Load(ctx context.Context) ([]entity.CatalogEntry, error)
	// Put inserts entry or replaces the entry with the same code.
	Put(ctx context.Context, entry entity.CatalogEntry) error
	// Add inserts entry only when its code is not stored yet and reports whether it did.
	Add(ctx context.Context, entry entity.CatalogEntry) (bool, error)
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries []entity.CatalogEntry
}

func NewMemoryStore(seed ...entity.CatalogEntry) *MemoryStore {
	return &MemoryStore{entries: append([]entity.CatalogEntry(nil), seed...)}
}

func (s *MemoryStore) Load(ctx context.Context) ([]entity.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.CatalogEntry(nil), s.entries...), nil
}

func (s *MemoryStore) Put(ctx context.Context, entry entity.CatalogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Code == entry.Code {
			s.entries[i] = entry
			return nil
		}
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) Add(ctx context.Context, entry entity.CatalogEntry) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Code == entry.Code {
			return false, nil
		}
	}
	s.entries = append(s.entries, entry)
	return true, nil
}
