package credstore

import (
	"context"
	"sync"

	"github.com/aretw0/jot/pkg/core"
)

// Memory keeps records in process memory. It backs tests and the "memory"
// backend of the CLI.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Get implements core.CredentialStore.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.records[key]
	if !ok {
		return nil, core.ErrNoRecord
	}
	return append([]byte(nil), v...), nil
}

// Set implements core.CredentialStore.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements core.CredentialStore.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

func (m *Memory) keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.records))
	for k := range m.records {
		out = append(out, k)
	}
	return out
}

var (
	_ core.CredentialStore = (*Memory)(nil)
	_ core.CredentialStore = (*File)(nil)
	_ core.Watchable       = (*File)(nil)
	_ core.CredentialStore = (*SQLite)(nil)
)
