package credstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/credstore"
	"github.com/aretw0/jot/pkg/core"
)

func nextEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "events channel closed early")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return core.Event{}
}

func TestFile_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	store := credstore.NewFile(dir)
	events, err := store.Watch(ctx, core.SessionKey)
	require.NoError(t, err)

	// Another key and a foreign file are both ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0o600))

	writer := credstore.NewFile(dir)
	require.NoError(t, writer.Set(ctx, core.SessionKey, []byte(`{"access_token":"t"}`)))

	e := nextEvent(t, events)
	assert.Equal(t, core.EventCreate, e.Type)
	assert.Equal(t, core.SessionKey, e.Key)
	assert.NotZero(t, e.Timestamp)

	st := store.State().(credstore.StoreState)
	assert.Equal(t, 1, st.Watchers)

	require.NoError(t, writer.Delete(ctx, core.SessionKey))
	e = nextEvent(t, events)
	assert.Equal(t, core.EventDelete, e.Type)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "channel closes after cancel")
}

func TestFile_WatchRejectsBadKey(t *testing.T) {
	_, err := credstore.NewFile(t.TempDir()).Watch(context.Background(), "../x")
	assert.ErrorIs(t, err, core.ErrValidation)
}
