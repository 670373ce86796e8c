package ledger

import (
	"context"
	"sync"

	"ppe.GO/model/entity"
)

// Store persists ledger rows. Append is all-or-nothing: either every record is
// durable afterwards or none is.
type Store interface {
	Load(ctx context.Context) ([]entity.LedgerRecord, error)
	Append(ctx context.Context, records []entity.LedgerRecord) error
}

// MemoryStore keeps rows in process memory, in append order.
type MemoryStore struct {
	mu      sync.RWMutex
	records []entity.LedgerRecord
}

func NewMemoryStore(seed ...entity.LedgerRecord) *MemoryStore {
	return &MemoryStore{records: append([]entity.LedgerRecord(nil), seed...)}
}

func (s *MemoryStore) Load(ctx context.Context) ([]entity.LedgerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.LedgerRecord(nil), s.records...), nil
}

func (s *MemoryStore) Append(ctx context.Context, records []entity.LedgerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}
