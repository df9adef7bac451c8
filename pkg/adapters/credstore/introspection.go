package credstore

import (
	"context"
	"slices"

	"github.com/aretw0/introspection"
)

// StoreState exposes a backend's state for observability. Values are never
// included.
type StoreState struct {
	Backend  string   `json:"backend"`
	Location string   `json:"location,omitempty"`
	Keys     []string `json:"keys"`
	Watchers int      `json:"watchers,omitempty"`
}

// State implements introspection.Introspectable.
func (f *File) State() any {
	f.mu.Lock()
	watchers := f.watchers
	f.mu.Unlock()
	return StoreState{
		Backend:  f.ComponentType(),
		Location: f.dir,
		Keys:     nonNil(f.keys()),
		Watchers: watchers,
	}
}

// ComponentType implements introspection.Component.
func (f *File) ComponentType() string {
	return "file"
}

// State implements introspection.Introspectable.
func (m *Memory) State() any {
	keys := m.keys()
	slices.Sort(keys)
	return StoreState{Backend: m.ComponentType(), Keys: keys}
}

// ComponentType implements introspection.Component.
func (m *Memory) ComponentType() string {
	return "memory"
}

// State implements introspection.Introspectable.
func (s *SQLite) State() any {
	keys, err := s.keys(context.Background())
	if err != nil {
		s.logger.Warn("failed to list keys", "error", err)
	}
	return StoreState{Backend: s.ComponentType(), Location: s.path, Keys: nonNil(keys)}
}

// ComponentType implements introspection.Component.
func (s *SQLite) ComponentType() string {
	return "sqlite"
}

func nonNil(keys []string) []string {
	if keys == nil {
		return []string{}
	}
	return keys
}

var (
	_ introspection.Introspectable = (*File)(nil)
	_ introspection.Component      = (*File)(nil)
	_ introspection.Introspectable = (*Memory)(nil)
	_ introspection.Component      = (*Memory)(nil)
	_ introspection.Introspectable = (*SQLite)(nil)
	_ introspection.Component      = (*SQLite)(nil)
)
