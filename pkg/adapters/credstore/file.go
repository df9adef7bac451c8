package credstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/jot/pkg/core"
)

const (
	recordExt = ".json"
	filePerm  = 0o600
	dirPerm   = 0o700
)

// File stores each record as <dir>/<key>.json.
type File struct {
	dir    string
	logger *slog.Logger

	mu       sync.Mutex
	watchers int
}

// FileOption configures a File store.
type FileOption func(*File)

// WithFileLogger sets the logger used by the store and its watcher.
func WithFileLogger(logger *slog.Logger) FileOption {
	return func(f *File) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFile returns a store rooted at dir. The directory is created lazily on
// the first write.
func NewFile(dir string, opts ...FileOption) *File {
	f := &File{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DefaultDir returns <UserConfigDir>/jot.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(base, "jot"), nil
}

// Dir returns the root directory.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+recordExt)
}

// Get implements core.CredentialStore.
func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set implements core.CredentialStore.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := f.ensureDir(); err != nil {
		return err
	}
	if err := writeFileAtomic(f.path(key), value, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	f.logger.Debug("record written", "key", key, "dir", f.dir)
	return nil
}

// Delete implements core.CredentialStore.
func (f *File) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (f *File) ensureDir() error {
	if err := os.MkdirAll(f.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}
	// MkdirAll leaves an existing directory alone; tighten it anyway.
	if err := os.Chmod(f.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to chmod store dir: %w", err)
	}
	return nil
}

// keys lists the records currently on disk.
func (f *File) keys() []string {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if key, ok := f.keyOf(e.Name()); ok && !e.IsDir() {
			out = append(out, key)
		}
	}
	return out
}

// keyOf maps a file name in the store directory back to its key.
func (f *File) keyOf(name string) (string, bool) {
	base := filepath.Base(name)
	if filepath.Ext(base) != recordExt {
		return "", false
	}
	key := base[:len(base)-len(recordExt)]
	if ValidateKey(key) != nil {
		return "", false
	}
	return key, true
}

func (f *File) setWatching(delta int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watchers += delta
}
