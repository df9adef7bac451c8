package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNoRecord is returned by a CredentialStore when the key holds nothing.
	ErrNoRecord = errors.New("no stored record")

	// ErrNotAuthenticated is returned when an operation needs a session and there is none.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUnauthorized matches API errors caused by a rejected token or credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound matches API errors for resources the server does not know.
	ErrNotFound = errors.New("not found")

	// ErrValidation is the root of every client-side validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedResponse is returned when a success response lacks a required field.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrRefreshAfterSave is returned when a note was saved but the list could not be reloaded.
	ErrRefreshAfterSave = errors.New("note saved but refresh failed")

	// ErrWatchUnsupported is returned when the configured store cannot report external changes.
	ErrWatchUnsupported = errors.New("credential store does not support watching")
)

// ValidationError describes a rejected input field. It is raised before any
// network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
