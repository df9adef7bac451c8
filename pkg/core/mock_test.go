package core_test

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/jot/pkg/core"
)

// MockStore implements core.CredentialStore in memory.
type MockStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failSet error
	deletes []string
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, core.ErrNoRecord
	}
	return v, nil
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.data[key] = value
	return nil
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	delete(m.data, key)
	return nil
}

func (m *MockStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// MockAuth implements core.AuthService with canned answers.
type MockAuth struct {
	LoginFn    func(username, password string) (core.Session, error)
	RegisterFn func(username, password string) (core.Session, error)
	MeFn       func(token string) (core.Profile, error)
	calls      int
}

func (m *MockAuth) Register(ctx context.Context, username, password string) (core.Session, error) {
	m.calls++
	if m.RegisterFn == nil {
		return core.Session{}, errors.New("register not stubbed")
	}
	return m.RegisterFn(username, password)
}

func (m *MockAuth) Login(ctx context.Context, username, password string) (core.Session, error) {
	m.calls++
	if m.LoginFn == nil {
		return core.Session{}, errors.New("login not stubbed")
	}
	return m.LoginFn(username, password)
}

func (m *MockAuth) Me(ctx context.Context, token string) (core.Profile, error) {
	m.calls++
	if m.MeFn == nil {
		return core.Profile{}, errors.New("me not stubbed")
	}
	return m.MeFn(token)
}

// MockNotes implements core.NotesService.
type MockNotes struct {
	ListFn   func(token string) ([]core.Note, error)
	DeleteFn func(token string, id int64) (string, error)
	created  []core.Draft
	updated  map[int64]core.Draft
	calls    int
}

func (m *MockNotes) List(ctx context.Context, token string) ([]core.Note, error) {
	m.calls++
	return m.ListFn(token)
}

func (m *MockNotes) Create(ctx context.Context, token string, d core.Draft) (core.Note, error) {
	m.calls++
	m.created = append(m.created, d)
	return core.Note{ID: int64(len(m.created)), Title: d.Title}, nil
}

func (m *MockNotes) Update(ctx context.Context, token string, id int64, d core.Draft) (core.Note, error) {
	m.calls++
	if m.updated == nil {
		m.updated = make(map[int64]core.Draft)
	}
	m.updated[id] = d
	return core.Note{ID: id, Title: d.Title}, nil
}

func (m *MockNotes) Delete(ctx context.Context, token string, id int64) (string, error) {
	m.calls++
	return m.DeleteFn(token, id)
}

// staticTokens implements core.TokenSource.
type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func int64p(v int64) *int64 { return &v }
