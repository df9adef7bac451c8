package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Collection caches the note list of the current session.
//
// The cache only changes on Refresh (or Reset). Create, Update and Delete talk
// to the API and leave the cache alone; callers refresh afterwards.
type Collection struct {
	mu     sync.RWMutex
	svc    NotesService
	tokens TokenSource
	logger *slog.Logger
	cache  []Note
	owner  string // token the cache was fetched with
}

// NewCollection creates an empty collection bound to a token source.
func NewCollection(svc NotesService, tokens TokenSource, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collection{svc: svc, tokens: tokens, logger: logger}
}

// Refresh replaces the cache with the server's list. Without a token it
// returns immediately. On error the previous cache is kept.
func (c *Collection) Refresh(ctx context.Context) error {
	token := c.tokens.Token()
	if token == "" {
		return nil
	}

	notes, err := c.svc.List(ctx, token)
	if err != nil {
		c.logger.Debug("refresh failed", "error", err)
		return err
	}

	c.mu.Lock()
	c.cache = notes
	c.owner = token
	c.mu.Unlock()

	c.logger.Debug("notes refreshed", "count", len(notes))
	return nil
}

// Reset drops the cache. It is wired to session transitions.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = nil
	c.owner = ""
}

// Notes returns a copy of the cache in server order. It is empty while no
// session is active, or when the cache belongs to a different token.
func (c *Collection) Notes() []Note {
	token := c.tokens.Token()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if token == "" || token != c.owner {
		return nil
	}
	out := make([]Note, len(c.cache))
	copy(out, c.cache)
	return out
}

// Find looks a note up in the cache.
func (c *Collection) Find(id int64) (Note, bool) {
	for _, n := range c.Notes() {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Filter returns cached notes whose title matches a doublestar glob.
// An empty pattern matches everything.
func (c *Collection) Filter(pattern string) ([]Note, error) {
	notes := c.Notes()
	if pattern == "" {
		return notes, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &ValidationError{Field: "pattern", Reason: fmt.Sprintf("%q is not a valid glob", pattern)}
	}

	var out []Note
	for _, n := range notes {
		if doublestar.MatchUnvalidated(pattern, n.Title) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Create validates the draft and sends it to the API.
func (c *Collection) Create(ctx context.Context, d Draft) (Note, error) {
	d, err := d.Normalize()
	if err != nil {
		return Note{}, err
	}
	token := c.tokens.Token()
	if token == "" {
		return Note{}, ErrNotAuthenticated
	}
	return c.svc.Create(ctx, token, d)
}

// Update validates the draft and replaces note id on the server.
func (c *Collection) Update(ctx context.Context, id int64, d Draft) (Note, error) {
	if id <= 0 {
		return Note{}, &ValidationError{Field: "id", Reason: "must be positive"}
	}
	d, err := d.Normalize()
	if err != nil {
		return Note{}, err
	}
	token := c.tokens.Token()
	if token == "" {
		return Note{}, ErrNotAuthenticated
	}
	return c.svc.Update(ctx, token, id, d)
}

// Delete removes note id on the server and returns its confirmation message.
func (c *Collection) Delete(ctx context.Context, id int64) (string, error) {
	if id <= 0 {
		return "", &ValidationError{Field: "id", Reason: "must be positive"}
	}
	token := c.tokens.Token()
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return c.svc.Delete(ctx, token, id)
}
