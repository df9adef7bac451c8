package core

import "sync"

// Staging ferries the note being edited from the list to the form.
// No staged note means the form is in "new note" mode.
type Staging struct {
	mu      sync.RWMutex
	note    *Note
	editing bool
}

// NewStaging returns an empty staging area.
func NewStaging() *Staging {
	return &Staging{}
}

// Set stages a copy of note. A nil note clears the staging area.
func (s *Staging) Set(note *Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note == nil {
		s.note = nil
		s.editing = false
		return
	}
	n := cloneNote(*note)
	s.note = &n
	s.editing = true
}

// Clear resets the staging area.
func (s *Staging) Clear() {
	s.Set(nil)
}

// StartNew switches to "new note" mode.
func (s *Staging) StartNew() {
	s.Clear()
}

// Current returns a copy of the staged note and whether the form is editing.
func (s *Staging) Current() (*Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.note == nil {
		return nil, false
	}
	n := cloneNote(*s.note)
	return &n, s.editing
}

// Editing reports whether an existing note is staged.
func (s *Staging) Editing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing
}

func cloneNote(n Note) Note {
	n.Contents = append([]ContentItem(nil), n.Contents...)
	return n
}
