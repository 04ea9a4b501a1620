package store

import (
	"context"
	"sync"

	"github.com/calderost/bridgewatch/internal/model"
)

// MemoryStore keeps the snapshot in process memory. This is the only store
// the monitor ships with: history does not survive a process restart.
type MemoryStore struct {
	mu   sync.RWMutex
	snap *model.Snapshot
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, snap *model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (*model.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap, nil
}

func (m *MemoryStore) Close() error { return nil }
