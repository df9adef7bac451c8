package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aretw0/jot/pkg/core"
)

// Fallback messages used when the server does not explain a failure.
const (
	msgSignUpFailed  = "Sign up failed"
	msgSignInFailed  = "Sign in failed"
	msgFetchUser     = "Failed to fetch user"
	msgFetchNotes    = "Failed to fetch notes"
	msgSaveNote      = "Failed to save note"
	msgDeleteNote    = "Failed to delete note"
	msgNoteDeleted   = "Note deleted successfully"
	messageSeparator = "; "
)

// ErrResponseTooLarge is returned when a response body exceeds the read limit.
var ErrResponseTooLarge = errors.New("response body too large")

// Error is a non-2xx answer from the API. Error() is safe to show to the user
// verbatim.
type Error struct {
	Status    int
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	return e.Message
}

// Is maps HTTP statuses onto core sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case core.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case core.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func newError(status int, body []byte, fallback, requestID string) *Error {
	msg := serverMessage(body)
	if msg == "" {
		msg = fallback
	}
	return &Error{Status: status, Message: msg, RequestID: requestID}
}

// serverMessage extracts the "message" field, which is either a string or a
// list of strings.
func serverMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil {
		return strings.TrimSpace(single)
	}

	var list []string
	if err := json.Unmarshal(payload.Message, &list); err == nil {
		parts := list[:0]
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, messageSeparator)
	}
	return ""
}
