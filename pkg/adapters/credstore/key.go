package credstore

import (
	"fmt"
	"regexp"

	"github.com/aretw0/jot/pkg/core"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateKey rejects keys that could escape the store directory.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || !keyPattern.MatchString(key) {
		return &core.ValidationError{Field: "key", Reason: fmt.Sprintf("%q is not a valid record key", key)}
	}
	return nil
}
