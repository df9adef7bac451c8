package platform

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/jot/pkg/adapters/api"
	"github.com/aretw0/jot/pkg/adapters/credstore"
	"github.com/aretw0/jot/pkg/core"
)

// OpenStore builds the credential store selected by the options. The returned
// closer is nil for backends that hold no resources.
func OpenStore(ctx context.Context, opts ...Option) (core.CredentialStore, io.Closer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return openStore(ctx, o)
}

func openStore(ctx context.Context, o *options) (core.CredentialStore, io.Closer, error) {
	if o.store != nil {
		closer, _ := o.store.(io.Closer)
		return o.store, closer, nil
	}

	if o.backend == BackendMemory {
		return credstore.NewMemory(), nil, nil
	}

	dir, err := storeDir(o)
	if err != nil {
		return nil, nil, err
	}

	switch o.backend {
	case BackendFile:
		return credstore.NewFile(dir, credstore.WithFileLogger(o.logger)), nil, nil
	case BackendSQLite:
		db, err := credstore.OpenSQLite(ctx, dir, o.logger)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown credential backend: %s", o.backend)
	}
}

func storeDir(o *options) (string, error) {
	dir := o.storeDir
	if dir == "" {
		d, err := credstore.DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	}

	useTemp := o.forceTemp || (o.devSafety && IsDevRun())
	resolved := ResolveStoreDir(dir, useTemp)
	if useTemp && resolved != dir && o.logger != nil {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "configured_dir", dir, "resolved_dir", resolved)
	}
	return resolved, nil
}

// services returns the injected services or HTTP clients for apiURL.
func services(apiURL string, o *options) (core.AuthService, core.NotesService, error) {
	if o.auth != nil && o.notes != nil {
		return o.auth, o.notes, nil
	}

	apiOpts := []api.Option{api.WithLogger(o.logger), api.WithHTTPClient(o.httpClient)}
	if o.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(o.timeout))
	}
	client, err := api.New(apiURL, apiOpts...)
	if err != nil {
		return nil, nil, err
	}

	auth, notes := o.auth, o.notes
	if auth == nil {
		auth = client.Auth()
	}
	if notes == nil {
		notes = client.Notes()
	}
	return auth, notes, nil
}
