// Package apitest runs an in-memory notes backend for tests.
//
// It mirrors the routes and error bodies of the real API closely enough for
// the client to be exercised end to end.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/jot/pkg/core"
)

// Request is a recorded inbound request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          string
}

type account struct {
	id       int64
	username string
	password string
}

// Server is a fake API backed by maps.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*account
	tokens   map[string]*account
	notes    map[int64]*core.Note
	order    []int64
	nextUser int64
	nextNote int64
	nextItem int64
	requests []Request
	clock    func() time.Time
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := NewServer()
	t.Cleanup(s.Close)
	return s
}

// NewServer starts a server the caller must Close.
func NewServer() *Server {
	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]*account),
		notes:    make(map[int64]*core.Note),
		clock:    func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("GET /auth/me", s.authed(s.me))
	mux.HandleFunc("GET /notes", s.authed(s.listNotes))
	mux.HandleFunc("POST /notes", s.authed(s.createNote))
	mux.HandleFunc("PUT /notes/{id}", s.authed(s.updateNote))
	mux.HandleFunc("DELETE /notes/{id}", s.authed(s.deleteNote))

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// AddUser registers an account directly and returns its token.
func (s *Server) AddUser(username, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.addAccount(username, password)
	return s.issue(a)
}

// SeedNote creates a note owned by username.
func (s *Server) SeedNote(username, title string, items ...string) core.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[username]
	if a == nil {
		panic("apitest: unknown user " + username)
	}
	return s.storeNote(a, core.Draft{Title: title, Items: items})
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests hit method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Revoke invalidates a token.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          string(body),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authed(fn func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		a := s.tokens[token]
		s.mu.Unlock()
		if !ok || a == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		fn(w, r, a)
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	var problems []string
	if in.Username == "" {
		problems = append(problems, "username should not be empty")
	}
	if len(in.Password) < 4 {
		problems = append(problems, "password must be longer than or equal to 4 characters")
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"statusCode": 400, "message": problems, "error": "Bad Request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[in.Username]; taken {
		writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	a := s.addAccount(in.Username, in.Password)
	writeJSON(w, http.StatusCreated, s.sessionFor(a))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[in.Username]
	if a == nil || a.password != in.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, s.sessionFor(a))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request, a *account) {
	writeJSON(w, http.StatusOK, map[string]any{"username": a.username})
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request, a *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []core.Note{}
	for _, id := range s.order {
		if n := s.notes[id]; n.UserID == a.id {
			out = append(out, *n)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request, a *account) {
	var d core.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusCreated, s.storeNote(a, d))
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request, a *account) {
	var d core.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.owned(w, r, a)
	if !ok {
		return
	}
	n.Title = d.Title
	n.Contents = s.items(n.ID, d.Items)
	n.UpdatedAt = s.clock()
	writeJSON(w, http.StatusOK, *n)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request, a *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.owned(w, r, a)
	if !ok {
		return
	}
	delete(s.notes, n.ID)
	for i, id := range s.order {
		if id == n.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Note with ID %d deleted", n.ID)})
}

// owned resolves {id} for account a. Callers hold s.mu.
func (s *Server) owned(w http.ResponseWriter, r *http.Request, a *account) (*core.Note, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return nil, false
	}
	n := s.notes[id]
	if n == nil || n.UserID != a.id {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Note with ID %d not found", id))
		return nil, false
	}
	return n, true
}

func (s *Server) addAccount(username, password string) *account {
	s.nextUser++
	a := &account{id: s.nextUser, username: username, password: password}
	s.accounts[username] = a
	return a
}

func (s *Server) issue(a *account) string {
	token := fmt.Sprintf("token-%s-%d", a.username, len(s.tokens)+1)
	s.tokens[token] = a
	return token
}

func (s *Server) sessionFor(a *account) map[string]any {
	return map[string]any{
		"access_token": s.issue(a),
		"user":         map[string]any{"id": a.id, "username": a.username},
	}
}

func (s *Server) storeNote(a *account, d core.Draft) core.Note {
	s.nextNote++
	now := s.clock()
	n := &core.Note{
		ID:        s.nextNote,
		Title:     d.Title,
		UserID:    a.id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	n.Contents = s.items(n.ID, d.Items)
	s.notes[n.ID] = n
	s.order = append(s.order, n.ID)
	return *n
}

func (s *Server) items(noteID int64, texts []string) []core.ContentItem {
	now := s.clock()
	out := make([]core.ContentItem, 0, len(texts))
	for _, t := range texts {
		s.nextItem++
		out = append(out, core.ContentItem{ID: s.nextItem, NoteID: noteID, Text: t, CreatedAt: now, UpdatedAt: now})
	}
	return out
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"statusCode": status, "message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
