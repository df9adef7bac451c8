package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"

	jotlifecycle "github.com/aretw0/jot/pkg/adapters/lifecycle"
	"github.com/aretw0/jot/pkg/core"
)

// Client bundles the managers of one user-facing session.
type Client struct {
	Sessions *core.SessionManager
	Notes    *core.Collection
	Staging  *core.Staging

	apiURL string
	auth   core.AuthService
	store  core.CredentialStore
	closer io.Closer
	logger *slog.Logger

	mu        sync.Mutex
	lastToken string
}

// Whoami asks the API who owns the current token.
func (c *Client) Whoami(ctx context.Context) (core.Profile, error) {
	token := c.Sessions.Token()
	if token == "" {
		return core.Profile{}, core.ErrNotAuthenticated
	}
	return c.auth.Me(ctx, token)
}

// Store returns the credential store in use.
func (c *Client) Store() core.CredentialStore {
	return c.store
}

// onSession drops session-scoped state when the identity changes.
func (c *Client) onSession(s core.Session, ok bool) {
	token := ""
	if ok {
		token = s.Token
	}

	c.mu.Lock()
	changed := token != c.lastToken
	c.lastToken = token
	c.mu.Unlock()

	if changed {
		c.Notes.Reset()
		c.Staging.Clear()
		c.logger.Debug("session changed, cleared notes and staging", "authenticated", ok)
	}
}

// Submit saves d as the staged note (PUT) or as a new note (POST), then
// reloads the collection and clears staging. When only the reload fails, the
// saved note is returned together with an error wrapping ErrRefreshAfterSave.
func (c *Client) Submit(ctx context.Context, d core.Draft) (core.Note, error) {
	staged, editing := c.Staging.Current()

	var (
		saved core.Note
		err   error
	)
	if editing && staged.ID > 0 {
		saved, err = c.Notes.Update(ctx, staged.ID, d)
	} else {
		saved, err = c.Notes.Create(ctx, d)
	}
	if err != nil {
		return core.Note{}, err
	}

	c.Staging.Clear()
	if err := c.Notes.Refresh(ctx); err != nil {
		return saved, fmt.Errorf("%w: %w", core.ErrRefreshAfterSave, err)
	}
	return saved, nil
}

// Remove deletes a note and reloads the collection. It returns the server's
// confirmation message.
func (c *Client) Remove(ctx context.Context, id int64) (string, error) {
	msg, err := c.Notes.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	if err := c.Notes.Refresh(ctx); err != nil {
		return msg, err
	}
	return msg, nil
}

// WatchSession follows the session record for changes made by other
// processes. Each change reloads the session before it is forwarded. The
// channel is closed when ctx ends.
func (c *Client) WatchSession(ctx context.Context) (<-chan core.Event, error) {
	w, ok := c.store.(core.Watchable)
	if !ok {
		return nil, core.ErrWatchUnsupported
	}
	raw, err := w.Watch(ctx, core.SessionKey)
	if err != nil {
		return nil, err
	}

	src := jotlifecycle.NewSource(raw)
	if err := src.Start(ctx); err != nil {
		return nil, err
	}

	out := make(chan core.Event)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for e := range src.Events() {
			ev, ok := e.(core.Event)
			if !ok {
				continue
			}
			c.Sessions.Reload(ctx)
			select {
			case out <- ev:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		c.logger.Error("session watch panic", "error", err)
	}))
	return out, nil
}

// Close releases the credential store.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
