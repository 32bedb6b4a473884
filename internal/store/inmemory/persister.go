package inmemory

import (
	"context"
	"sync"

	"github.com/dvloznov/wealthsense/internal/store"
)

// Persister keeps blobs in a map. Data is lost when the process exits; it
// backs DATA_BACKEND=memory and tests.
type Persister struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewPersister creates an empty in-memory persister.
func NewPersister() *Persister {
	return &Persister{data: make(map[string][]byte)}
}

// Get implements store.Persister.
func (p *Persister) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// PutAll implements store.Persister.
func (p *Persister) PutAll(_ context.Context, entries map[string][]byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for k, v := range entries {
		p.data[k] = append([]byte(nil), v...)
	}
	return nil
}

// Set stores a raw blob, bypassing the Store. Used to seed corrupt or
// legacy payloads in tests.
func (p *Persister) Set(key string, value []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = append([]byte(nil), value...)
}

// Ensure Persister implements the store port.
var _ store.Persister = (*Persister)(nil)
