package record

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps records in a map. State is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (m *MemoryStore) Save(ctx context.Context, r *Record) error {
	if r == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if r.ID == "" {
		r.ID = NewID()
	}
	cp := *r

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) List(ctx context.Context, limit int) ([]*Record, error) {
	out := m.snapshot()
	sortRecent(out)
	return truncate(out, normalizeLimit(limit)), nil
}

func (m *MemoryStore) Leaderboard(ctx context.Context, limit int) ([]*Record, error) {
	out := m.snapshot()
	sortLeaderboard(out)
	return truncate(out, normalizeLimit(limit)), nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) snapshot() []*Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Record, 0, len(m.records))
	for _, r := range m.records {
		cp := *r
		out = append(out, &cp)
	}
	return out
}
