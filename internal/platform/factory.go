package platform

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/jot/pkg/core"
)

// New wires a Client for the API at apiURL. The session starts signed out;
// call Open, or Sessions.Load, to restore a persisted one.
//
//	c, err := platform.New("https://notes.example.com", platform.WithBackend("sqlite"))
func New(apiURL string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, closer, err := openStore(context.Background(), o)
	if err != nil {
		return nil, err
	}

	auth, notes, err := services(apiURL, o)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	sessions := core.NewSessionManager(auth, store,
		core.WithSessionLogger(o.logger),
		core.WithVerifyOnLoad(o.verifyOnLoad),
	)

	c := &Client{
		Sessions: sessions,
		Notes:    core.NewCollection(notes, sessions, o.logger),
		Staging:  core.NewStaging(),
		apiURL:   apiURL,
		auth:     auth,
		store:    store,
		closer:   closer,
		logger:   o.logger,
	}
	sessions.Subscribe(c.onSession)
	return c, nil
}

// Open is New followed by loading the persisted session.
func Open(ctx context.Context, apiURL string, opts ...Option) (*Client, error) {
	c, err := New(apiURL, opts...)
	if err != nil {
		return nil, err
	}
	c.Sessions.Load(ctx)
	return c, nil
}
