package platform_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aretw0/jot/internal/apitest"
	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/adapters/credstore"
	"github.com/aretw0/jot/pkg/core"
)

func setupClient(t *testing.T, opts ...platform.Option) (*platform.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("alice", "secret")

	base := []platform.Option{platform.WithBackend(platform.BackendMemory)}
	c, err := platform.Open(context.Background(), srv.URL, append(base, opts...)...)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func signIn(t *testing.T, c *platform.Client) {
	t.Helper()
	if _, err := c.Sessions.SignIn(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := platform.New("not a url", platform.WithBackend(platform.BackendMemory)); err == nil {
		t.Fatal("expected error for invalid api url")
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("New Mode Posts And Clears Staging", func(t *testing.T) {
		c, srv := setupClient(t)
		signIn(t, c)

		saved, err := c.Submit(ctx, core.Draft{Title: " Groceries ", Items: []string{"milk", " eggs "}})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if saved.Title != "Groceries" {
			t.Errorf("expected trimmed title, got %q", saved.Title)
		}
		if srv.Count(http.MethodPost, "/notes") != 1 {
			t.Errorf("expected one POST /notes")
		}
		if got := len(c.Notes.Notes()); got != 1 {
			t.Errorf("expected refreshed cache with 1 note, got %d", got)
		}
		if c.Staging.Editing() {
			t.Errorf("staging should be cleared")
		}
	})

	t.Run("Edit Mode Puts", func(t *testing.T) {
		c, srv := setupClient(t)
		note := srv.SeedNote("alice", "Trip", "passport")
		signIn(t, c)
		if err := c.Notes.Refresh(ctx); err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}

		found, ok := c.Notes.Find(note.ID)
		if !ok {
			t.Fatalf("seeded note not in cache")
		}
		c.Staging.Set(&found)

		d := found.Draft()
		d.Items = append(d.Items, "tickets")
		saved, err := c.Submit(ctx, d)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if saved.ID != note.ID {
			t.Errorf("expected id %d, got %d", note.ID, saved.ID)
		}
		if srv.Count(http.MethodPut, "/notes/1") != 1 || srv.Count(http.MethodPost, "/notes") != 0 {
			t.Errorf("expected a single PUT and no POST")
		}
		if c.Staging.Editing() {
			t.Errorf("staging should be cleared")
		}
	})

	t.Run("Validation Fails Before Any Request", func(t *testing.T) {
		c, srv := setupClient(t)
		signIn(t, c)
		before := len(srv.Requests())

		_, err := c.Submit(ctx, core.Draft{Title: "", Items: []string{"x"}})
		if !errors.Is(err, core.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(srv.Requests()) != before {
			t.Errorf("no request should be sent")
		}
	})

	t.Run("Signed Out", func(t *testing.T) {
		c, _ := setupClient(t)
		_, err := c.Submit(ctx, core.Draft{Title: "x", Items: []string{"y"}})
		if !errors.Is(err, core.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Refresh Failure Keeps Saved Note", func(t *testing.T) {
		c, _ := setupClient(t, platform.WithNotesService(&flakyNotes{}), platform.WithAuthService(staticAuth{}))
		signIn(t, c)

		saved, err := c.Submit(ctx, core.Draft{Title: "x", Items: []string{"y"}})
		if !errors.Is(err, core.ErrRefreshAfterSave) {
			t.Fatalf("expected ErrRefreshAfterSave, got %v", err)
		}
		if saved.ID != 7 {
			t.Errorf("expected saved note to be returned, got %+v", saved)
		}
		if c.Staging.Editing() {
			t.Errorf("staging should be cleared")
		}
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	c, srv := setupClient(t)
	srv.SeedNote("alice", "Old", "x")
	srv.SeedNote("alice", "Keep", "y")
	signIn(t, c)

	msg, err := c.Remove(ctx, 1)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if msg != "Note with ID 1 deleted" {
		t.Errorf("unexpected message %q", msg)
	}
	notes := c.Notes.Notes()
	if len(notes) != 1 || notes[0].Title != "Keep" {
		t.Errorf("expected only Keep to remain, got %+v", notes)
	}
}

func TestSignOutClearsSessionScopedState(t *testing.T) {
	ctx := context.Background()
	c, srv := setupClient(t)
	srv.SeedNote("alice", "Private", "x")
	signIn(t, c)
	if err := c.Notes.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	n, _ := c.Notes.Find(1)
	c.Staging.Set(&n)

	c.Sessions.SignOut(ctx)

	if got := c.Notes.Notes(); len(got) != 0 {
		t.Errorf("cache should be empty after sign-out, got %d notes", len(got))
	}
	if c.Staging.Editing() {
		t.Errorf("staging should be cleared after sign-out")
	}
	st := c.Notes.State().(core.CollectionState)
	if st.CachedNotes != 0 {
		t.Errorf("cache should be reset, has %d", st.CachedNotes)
	}
}

func TestOpen_RestoresSession(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	srv.AddUser("alice", "secret")
	store := credstore.NewMemory()

	first, err := platform.Open(ctx, srv.URL, platform.WithCredentialStore(store))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	signIn(t, first)

	second, err := platform.Open(ctx, srv.URL, platform.WithCredentialStore(store))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s, ok := second.Sessions.Current()
	if !ok || s.Profile.Username != "alice" {
		t.Fatalf("expected restored session for alice, got %+v (ok=%v)", s, ok)
	}
}

func TestWatchSession(t *testing.T) {
	t.Run("Unsupported Store", func(t *testing.T) {
		c, _ := setupClient(t)
		if _, err := c.WatchSession(context.Background()); !errors.Is(err, core.ErrWatchUnsupported) {
			t.Fatalf("expected ErrWatchUnsupported, got %v", err)
		}
	})

	t.Run("Reloads On External Sign-In", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		srv := apitest.New(t)
		srv.AddUser("alice", "secret")
		dir := t.TempDir()

		watcher, err := platform.Open(ctx, srv.URL, platform.WithStoreDir(dir))
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		events, err := watcher.WatchSession(ctx)
		if err != nil {
			t.Fatalf("WatchSession failed: %v", err)
		}

		other, err := platform.Open(ctx, srv.URL, platform.WithStoreDir(dir))
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		signIn(t, other)

		select {
		case e := <-events:
			if e.Key != core.SessionKey {
				t.Errorf("unexpected key %q", e.Key)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for session event")
		}
		if s, ok := watcher.Sessions.Current(); !ok || s.Profile.Username != "alice" {
			t.Errorf("watcher should have reloaded the session, got %+v (ok=%v)", s, ok)
		}
	})
}

func TestState(t *testing.T) {
	c, srv := setupClient(t)
	signIn(t, c)

	st, ok := c.State().(platform.ClientState)
	if !ok {
		t.Fatalf("unexpected state type %T", c.State())
	}
	if st.APIURL != srv.URL {
		t.Errorf("expected api url %s, got %s", srv.URL, st.APIURL)
	}
	session := st.Session.(core.SessionState)
	if !session.Authenticated || session.Username != "alice" || session.StoreType != "memory" {
		t.Errorf("unexpected session state %+v", session)
	}
	if _, ok := st.Store.(credstore.StoreState); !ok {
		t.Errorf("expected store state, got %T", st.Store)
	}
}

type staticAuth struct{}

func (staticAuth) Register(ctx context.Context, u, p string) (core.Session, error) {
	return core.Session{Profile: core.Profile{Username: u}, Token: "t"}, nil
}

func (staticAuth) Login(ctx context.Context, u, p string) (core.Session, error) {
	return core.Session{Profile: core.Profile{Username: u}, Token: "t"}, nil
}

func (staticAuth) Me(ctx context.Context, token string) (core.Profile, error) {
	return core.Profile{Username: "alice"}, nil
}

// flakyNotes saves fine but cannot list.
type flakyNotes struct{}

func (*flakyNotes) List(ctx context.Context, token string) ([]core.Note, error) {
	return nil, errors.New("Failed to fetch notes")
}

func (*flakyNotes) Create(ctx context.Context, token string, d core.Draft) (core.Note, error) {
	return core.Note{ID: 7, Title: d.Title}, nil
}

func (*flakyNotes) Update(ctx context.Context, token string, id int64, d core.Draft) (core.Note, error) {
	return core.Note{ID: id, Title: d.Title}, nil
}

func (*flakyNotes) Delete(ctx context.Context, token string, id int64) (string, error) {
	return "", nil
}

func TestWhoami(t *testing.T) {
	ctx := context.Background()
	c, _ := setupClient(t)

	if _, err := c.Whoami(ctx); !errors.Is(err, core.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	signIn(t, c)
	p, err := c.Whoami(ctx)
	if err != nil {
		t.Fatalf("Whoami failed: %v", err)
	}
	if p.Username != "alice" {
		t.Errorf("expected alice, got %q", p.Username)
	}
}
