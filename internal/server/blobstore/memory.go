package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/cloudvault/internal/common"
)

// MemoryStore is an in-process Store. It backs the "memory" blob backend for
// throwaway runs and doubles as the store in service tests; content is lost
// on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	b, err := io.ReadAll(contextReader{ctx: ctx, r: r})
	if err != nil {
		return "", 0, err
	}

	m.mu.Lock()
	m.blobs[name] = b
	m.mu.Unlock()
	return name, int64(len(b)), nil
}

func (m *MemoryStore) Open(_ context.Context, locator string) (io.ReadCloser, error) {
	m.mu.RLock()
	b, ok := m.blobs[locator]
	m.mu.RUnlock()
	if !ok {
		return nil, common.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *MemoryStore) Delete(_ context.Context, locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[locator]; !ok {
		return common.ErrNotFound
	}
	delete(m.blobs, locator)
	return nil
}

// Len reports how many blobs are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

// Has reports whether locator is stored.
func (m *MemoryStore) Has(locator string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[locator]
	return ok
}
