package jot

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/core"
)

// --- Types ---

// Client bundles the session, notes and staging managers.
type Client = platform.Client

// ClientState is the introspection tree of a Client.
type ClientState = platform.ClientState

// Note is a titled list of text items owned by one user.
type Note = core.Note

// Draft is the editable part of a note.
type Draft = core.Draft

// Session is an authenticated user plus bearer token.
type Session = core.Session

// --- Configuration ---

// Option defines a functional option for configuring a Client.
type Option = platform.Option

// Credential backends.
const (
	BackendFile   = platform.BackendFile
	BackendSQLite = platform.BackendSQLite
	BackendMemory = platform.BackendMemory
)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithCredentialStore injects a custom credential store.
func WithCredentialStore(store core.CredentialStore) Option {
	return platform.WithCredentialStore(store)
}

// WithBackend selects the credential backend by name.
func WithBackend(name string) Option {
	return platform.WithBackend(name)
}

// WithStoreDir sets the directory of the file and sqlite backends.
func WithStoreDir(dir string) Option {
	return platform.WithStoreDir(dir)
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithTimeout bounds every API call.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// WithVerifyOnLoad confirms a restored token with the API.
func WithVerifyOnLoad(verify bool) Option {
	return platform.WithVerifyOnLoad(verify)
}

// WithAuthService replaces the HTTP auth client.
func WithAuthService(svc core.AuthService) Option {
	return platform.WithAuthService(svc)
}

// WithNotesService replaces the HTTP notes client.
func WithNotesService(svc core.NotesService) Option {
	return platform.WithNotesService(svc)
}

// WithForceTemp forces the store into a temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the store sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New creates a signed-out Client for the API at apiURL.
func New(apiURL string, opts ...Option) (*Client, error) {
	return platform.New(apiURL, opts...)
}

// Open creates a Client and restores the persisted session.
func Open(ctx context.Context, apiURL string, opts ...Option) (*Client, error) {
	return platform.Open(ctx, apiURL, opts...)
}
