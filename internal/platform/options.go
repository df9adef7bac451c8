package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/jot/pkg/core"
)

// Backend names accepted by WithBackend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// options holds the internal configuration for a Client.
type options struct {
	store        core.CredentialStore
	auth         core.AuthService
	notes        core.NotesService
	logger       *slog.Logger
	backend      string
	storeDir     string
	httpClient   *http.Client
	timeout      time.Duration
	verifyOnLoad bool
	forceTemp    bool
	devSafety    bool
}

// Option defines a functional option for configuring a Client.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		backend:   BackendFile,
		devSafety: true,
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCredentialStore injects a store. The backend and store dir options are
// ignored when one is provided.
func WithCredentialStore(store core.CredentialStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithBackend selects the credential backend by name ("file", "sqlite" or
// "memory"). Defaults to "file".
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithStoreDir sets the directory of the file and sqlite backends.
// Defaults to <UserConfigDir>/jot.
func WithStoreDir(dir string) Option {
	return func(o *options) {
		o.storeDir = dir
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout bounds every API call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithVerifyOnLoad makes Open confirm the stored token with the API.
func WithVerifyOnLoad(verify bool) Option {
	return func(o *options) {
		o.verifyOnLoad = verify
	}
}

// WithAuthService replaces the HTTP auth client (e.g. with a mock).
func WithAuthService(svc core.AuthService) Option {
	return func(o *options) {
		o.auth = svc
	}
}

// WithNotesService replaces the HTTP notes client (e.g. with a mock).
func WithNotesService(svc core.NotesService) Option {
	return func(o *options) {
		o.notes = svc
	}
}

// WithForceTemp forces the store into a temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) the store directory is re-rooted under the
// system temp dir so a development build never touches real credentials.
//
// CAUTION: Only disable this if you know which credentials you will touch.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
