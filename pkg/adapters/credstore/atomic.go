package credstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix names staged writes. keyOf skips these names, so a record
// is only ever reported once it has been renamed into place.
const TempFilePrefix = "jot-tmp-"

// writeFileAtomic stages data beside filename and renames it over the old
// record.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	staged, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", filepath.Base(filename), err)
	}
	name := staged.Name()
	defer func() {
		if err != nil {
			_ = staged.Close()
			_ = os.Remove(name)
		}
	}()

	// Records hold bearer tokens. The mode is set before any byte is written.
	if err = staged.Chmod(perm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", name, err)
	}
	if _, err = staged.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err = staged.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err = staged.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err = os.Rename(name, filename); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}
