package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	// SessionKey is the fixed key the session record is stored under.
	SessionKey = "session"

	// LegacyTokenKey held the raw bearer token in older releases.
	LegacyTokenKey = "authToken"
)

// SessionManager holds the current session in memory and mirrors it into a
// CredentialStore.
type SessionManager struct {
	mu        sync.RWMutex
	auth      AuthService
	store     CredentialStore
	logger    *slog.Logger
	verify    bool
	current   *Session
	observers []func(Session, bool)
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithSessionLogger sets the logger used for load and persistence failures.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(m *SessionManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithVerifyOnLoad makes Load confirm the stored token with the API.
func WithVerifyOnLoad(verify bool) SessionOption {
	return func(m *SessionManager) {
		m.verify = verify
	}
}

// NewSessionManager creates an unauthenticated manager. Call Load to restore
// a persisted session.
func NewSessionManager(auth AuthService, store CredentialStore, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		auth:   auth,
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the active session, if any.
func (m *SessionManager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Token implements TokenSource.
func (m *SessionManager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Subscribe registers fn to be called after every session transition.
// fn receives the new session and whether one is active.
func (m *SessionManager) Subscribe(fn func(Session, bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Load restores the persisted session. Missing, unreadable or incomplete
// records leave the manager signed out; the failure is only logged.
// It reports whether a session is active afterwards.
func (m *SessionManager) Load(ctx context.Context) bool {
	s, ok := m.readStored(ctx)
	if ok && m.verify {
		s, ok = m.verifyStored(ctx, s)
	}
	if ok {
		m.logger.Debug("session loaded", "username", s.Profile.Username)
	}
	m.set(s, ok)
	return ok
}

// Reload re-reads the store. It is used when another process changed the record.
func (m *SessionManager) Reload(ctx context.Context) bool {
	return m.Load(ctx)
}

// SignIn authenticates against the API and persists the resulting session.
func (m *SessionManager) SignIn(ctx context.Context, username, password string) (Session, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return Session{}, err
	}
	s, err := m.auth.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		m.logger.Debug("sign in failed", "username", username, "error", err)
		return Session{}, err
	}
	return m.establish(ctx, s)
}

// SignUp registers a new account and persists the resulting session.
func (m *SessionManager) SignUp(ctx context.Context, username, password string) (Session, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return Session{}, err
	}
	s, err := m.auth.Register(ctx, strings.TrimSpace(username), password)
	if err != nil {
		m.logger.Debug("sign up failed", "username", username, "error", err)
		return Session{}, err
	}
	return m.establish(ctx, s)
}

// SignUpConfirm is SignUp with a password confirmation check.
func (m *SessionManager) SignUpConfirm(ctx context.Context, username, password, confirm string) (Session, error) {
	if err := ValidateSignUp(username, password, confirm); err != nil {
		return Session{}, err
	}
	return m.SignUp(ctx, username, password)
}

// SignOut forgets the session in memory and in the store. It never fails;
// store errors are logged.
func (m *SessionManager) SignOut(ctx context.Context) {
	for _, key := range []string{SessionKey, LegacyTokenKey} {
		if err := m.store.Delete(ctx, key); err != nil {
			m.logger.Warn("failed to delete stored session", "key", key, "error", err)
		}
	}
	m.set(Session{}, false)
	m.logger.Debug("signed out")
}

func (m *SessionManager) establish(ctx context.Context, s Session) (Session, error) {
	if strings.TrimSpace(s.Token) == "" {
		return Session{}, fmt.Errorf("%w: missing access token", ErrMalformedResponse)
	}
	if err := m.persist(ctx, s); err != nil {
		return Session{}, err
	}
	m.set(s, true)
	return s, nil
}

func (m *SessionManager) persist(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (m *SessionManager) readStored(ctx context.Context) (Session, bool) {
	data, err := m.store.Get(ctx, SessionKey)
	if errors.Is(err, ErrNoRecord) {
		return m.migrateLegacy(ctx)
	}
	if err != nil {
		m.logger.Warn("failed to read stored session", "error", err)
		return Session{}, false
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		m.logger.Warn("discarding malformed stored session", "error", err)
		m.discard(ctx, SessionKey)
		return Session{}, false
	}
	if strings.TrimSpace(s.Token) == "" {
		m.logger.Warn("discarding stored session without token")
		m.discard(ctx, SessionKey)
		return Session{}, false
	}
	return s, true
}

// migrateLegacy turns a bare token record into a full session by asking the
// API who the token belongs to.
func (m *SessionManager) migrateLegacy(ctx context.Context) (Session, bool) {
	data, err := m.store.Get(ctx, LegacyTokenKey)
	if err != nil {
		if !errors.Is(err, ErrNoRecord) {
			m.logger.Warn("failed to read legacy token", "error", err)
		}
		return Session{}, false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		m.discard(ctx, LegacyTokenKey)
		return Session{}, false
	}

	profile, err := m.auth.Me(ctx, token)
	if err != nil {
		m.logger.Warn("failed to resolve legacy token", "error", err)
		if errors.Is(err, ErrUnauthorized) {
			m.discard(ctx, LegacyTokenKey)
		}
		return Session{}, false
	}

	s := Session{Profile: profile, Token: token}
	if err := m.persist(ctx, s); err != nil {
		m.logger.Warn("failed to migrate legacy token", "error", err)
		return s, true
	}
	m.discard(ctx, LegacyTokenKey)
	m.logger.Info("migrated legacy token", "username", profile.Username)
	return s, true
}

func (m *SessionManager) verifyStored(ctx context.Context, s Session) (Session, bool) {
	profile, err := m.auth.Me(ctx, s.Token)
	switch {
	case errors.Is(err, ErrUnauthorized):
		m.logger.Warn("stored session rejected by server", "error", err)
		m.discard(ctx, SessionKey)
		return Session{}, false
	case err != nil:
		m.logger.Warn("could not verify stored session", "error", err)
		return s, true
	}

	if profile.Username != "" {
		s.Profile.Username = profile.Username
	}
	if profile.ID != nil {
		s.Profile.ID = profile.ID
	}
	return s, true
}

func (m *SessionManager) discard(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.Warn("failed to delete stored record", "key", key, "error", err)
	}
}

func (m *SessionManager) set(s Session, ok bool) {
	m.mu.Lock()
	if ok {
		m.current = &s
	} else {
		m.current = nil
	}
	observers := append([]func(Session, bool){}, m.observers...)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(s, ok)
	}
}
