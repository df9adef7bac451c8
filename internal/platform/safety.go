package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the process is running via `go run` or `go test`.
// Both build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveStoreDir determines where credentials are kept. With forceTemp the
// directory is re-rooted under <TempDir>/jot-dev, unless it already lives in
// the temp dir (t.TempDir() and friends are trusted as is).
func ResolveStoreDir(dir string, forceTemp bool) string {
	if !forceTemp {
		return dir
	}

	clean := filepath.Clean(dir)
	rel, err := filepath.Rel(os.TempDir(), clean)
	if dir != "" && err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	sub := filepath.Base(clean)
	if dir == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(os.TempDir(), "jot-dev", sub)
}
