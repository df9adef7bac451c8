package core

import (
	"github.com/aretw0/introspection"
)

// SessionState exposes session manager state for observability.
type SessionState struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	VerifyOnLoad  bool   `json:"verify_on_load"`
	StoreType     string `json:"store_type"`
	Observers     int    `json:"observers"`
}

// State implements introspection.Introspectable.
func (m *SessionManager) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	storeType := "unknown"
	if comp, ok := m.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	st := SessionState{
		Authenticated: m.current != nil,
		VerifyOnLoad:  m.verify,
		StoreType:     storeType,
		Observers:     len(m.observers),
	}
	if m.current != nil {
		st.Username = m.current.Profile.Username
	}
	return st
}

// ComponentType implements introspection.Component.
func (m *SessionManager) ComponentType() string {
	return "session"
}

// CollectionState exposes the note cache for observability.
type CollectionState struct {
	CachedNotes int  `json:"cached_notes"`
	Valid       bool `json:"valid"`
}

// State implements introspection.Introspectable.
func (c *Collection) State() any {
	token := c.tokens.Token()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return CollectionState{
		CachedNotes: len(c.cache),
		Valid:       token != "" && token == c.owner,
	}
}

// ComponentType implements introspection.Component.
func (c *Collection) ComponentType() string {
	return "collection"
}

// StagingState exposes the staging area for observability.
type StagingState struct {
	Editing bool  `json:"editing"`
	NoteID  int64 `json:"note_id,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Staging) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := StagingState{Editing: s.editing}
	if s.note != nil {
		st.NoteID = s.note.ID
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Staging) ComponentType() string {
	return "staging"
}

var (
	_ introspection.Introspectable = (*SessionManager)(nil)
	_ introspection.Component      = (*SessionManager)(nil)
	_ introspection.Introspectable = (*Collection)(nil)
	_ introspection.Component      = (*Collection)(nil)
	_ introspection.Introspectable = (*Staging)(nil)
	_ introspection.Component      = (*Staging)(nil)
)
