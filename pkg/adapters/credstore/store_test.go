package credstore_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/credstore"
	"github.com/aretw0/jot/pkg/core"
)

type backend struct {
	name string
	open func(t *testing.T) core.CredentialStore
}

func backends() []backend {
	return []backend{
		{"memory", func(t *testing.T) core.CredentialStore { return credstore.NewMemory() }},
		{"file", func(t *testing.T) core.CredentialStore { return credstore.NewFile(t.TempDir()) }},
		{"sqlite", func(t *testing.T) core.CredentialStore {
			s, err := credstore.OpenSQLite(context.Background(), t.TempDir(), nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)

			_, err := store.Get(ctx, "session")
			assert.ErrorIs(t, err, core.ErrNoRecord)

			require.NoError(t, store.Set(ctx, "session", []byte(`{"a":1}`)))
			got, err := store.Get(ctx, "session")
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, string(got))

			require.NoError(t, store.Set(ctx, "session", []byte(`{"a":2}`)))
			got, err = store.Get(ctx, "session")
			require.NoError(t, err)
			assert.Equal(t, `{"a":2}`, string(got))

			require.NoError(t, store.Delete(ctx, "session"))
			_, err = store.Get(ctx, "session")
			assert.ErrorIs(t, err, core.ErrNoRecord)

			assert.NoError(t, store.Delete(ctx, "session"), "deleting a missing key is not an error")
		})
	}
}

func TestStoreRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			for _, key := range []string{"", "..", "../escape", "a/b", "with space"} {
				err := store.Set(ctx, key, []byte("x"))
				assert.ErrorIs(t, err, core.ErrValidation, "set %q", key)

				_, err = store.Get(ctx, key)
				assert.ErrorIs(t, err, core.ErrValidation, "get %q", key)

				err = store.Delete(ctx, key)
				assert.ErrorIs(t, err, core.ErrValidation, "delete %q", key)
			}
		})
	}
}

func TestMemory_Isolation(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemory()

	value := []byte("token")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "token", string(got))
}

func TestFile_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "jot")
	store := credstore.NewFile(dir)

	require.NoError(t, store.Set(ctx, "session", []byte("{}")))

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "session.json", entries[0].Name())
}

func TestFile_ReadsMissingDir(t *testing.T) {
	store := credstore.NewFile(filepath.Join(t.TempDir(), "absent"))
	_, err := store.Get(context.Background(), "session")
	assert.ErrorIs(t, err, core.ErrNoRecord)
	assert.NoError(t, store.Delete(context.Background(), "session"))
}

func TestState(t *testing.T) {
	ctx := context.Background()

	mem := credstore.NewMemory()
	require.NoError(t, mem.Set(ctx, "session", []byte("secret")))
	st := mem.State().(credstore.StoreState)
	assert.Equal(t, "memory", st.Backend)
	assert.Equal(t, []string{"session"}, st.Keys)

	dir := t.TempDir()
	file := credstore.NewFile(dir)
	require.NoError(t, file.Set(ctx, "session", []byte("secret")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	fst := file.State().(credstore.StoreState)
	assert.Equal(t, "file", fst.Backend)
	assert.Equal(t, dir, fst.Location)
	assert.Equal(t, []string{"session"}, fst.Keys)

	db, err := credstore.OpenSQLite(ctx, t.TempDir(), nil)
	require.NoError(t, err)
	defer db.Close()
	sst := db.State().(credstore.StoreState)
	assert.Equal(t, "sqlite", sst.Backend)
	assert.Equal(t, db.Path(), sst.Location)
	assert.Empty(t, sst.Keys)
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := credstore.OpenSQLite(ctx, dir, nil)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "session", []byte("persisted")))
	require.NoError(t, db.Close())

	db, err = credstore.OpenSQLite(ctx, dir, nil)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
	assert.Equal(t, filepath.Join(dir, credstore.SQLiteFile), db.Path())
}
