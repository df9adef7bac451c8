package core

import "context"

// CredentialStore is the capability every platform backend provides.
// Get returns ErrNoRecord for an unknown key. Delete of an unknown key is not an error.
type CredentialStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Watchable is implemented by stores that can report changes made by other processes.
type Watchable interface {
	Watch(ctx context.Context, keys ...string) (<-chan Event, error)
}

// AuthService is the remote authentication API.
type AuthService interface {
	Register(ctx context.Context, username, password string) (Session, error)
	Login(ctx context.Context, username, password string) (Session, error)
	Me(ctx context.Context, token string) (Profile, error)
}

// NotesService is the remote notes API. Every call carries the bearer token.
type NotesService interface {
	List(ctx context.Context, token string) ([]Note, error)
	Create(ctx context.Context, token string, d Draft) (Note, error)
	Update(ctx context.Context, token string, id int64, d Draft) (Note, error)
	// Delete returns the confirmation message sent by the server.
	Delete(ctx context.Context, token string, id int64) (string, error)
}

// TokenSource hands out the bearer token of the current session, or "" when
// signed out.
type TokenSource interface {
	Token() string
}
