package storage

import (
	"context"
	"sync"

	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

// MemoryStore keeps the manifest in process. Used for dry runs and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	data  []byte
	saves int
}

var _ interfaces.ManifestStore = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with data. Nil means no manifest yet.
func NewMemoryStore(data []byte) *MemoryStore {
	return &MemoryStore{data: clone(data)}
}

func (s *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, interfaces.ErrManifestNotFound
	}
	return clone(s.data), nil
}

func (s *MemoryStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = clone(data)
	if s.data == nil {
		s.data = []byte{}
	}
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func clone(data []byte) []byte {
	if data == nil {
		return nil
	}
	return append([]byte(nil), data...)
}
