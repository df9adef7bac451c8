// Package core holds the client-side domain of jot: sessions, notes and the
// managers that keep them in memory for the lifetime of a process.
//
// It knows nothing about HTTP or disks. The remote API and the credential
// backend are reached through the ports declared in ports.go.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Profile is the user identity returned by the API.
type Profile struct {
	ID       *int64 `json:"id,omitempty"`
	Username string `json:"username"`
}

// Session is the authenticated identity plus its bearer token.
// The JSON shape matches both the login response and the persisted record.
type Session struct {
	Profile Profile `json:"user"`
	Token   string  `json:"access_token"`
}

// Note is a cached copy of a note owned by the remote backend.
type Note struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Contents  []ContentItem `json:"contents"`
	CreatedAt time.Time     `json:"created_at,omitzero"`
	UpdatedAt time.Time     `json:"updated_at,omitzero"`
	UserID    int64         `json:"user_id,omitempty"`
}

// Texts returns the item texts in order.
func (n Note) Texts() []string {
	out := make([]string, 0, len(n.Contents))
	for _, c := range n.Contents {
		out = append(out, c.Text)
	}
	return out
}

// Draft converts the note back into an editable draft.
func (n Note) Draft() Draft {
	return Draft{Title: n.Title, Items: n.Texts()}
}

// UnmarshalJSON decodes a note, reading its timestamps leniently.
func (n *Note) UnmarshalJSON(data []byte) error {
	type plain Note
	var p struct {
		plain
		CreatedAt json.RawMessage `json:"created_at"`
		UpdatedAt json.RawMessage `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("note: %w", err)
	}
	*n = Note(p.plain)
	n.CreatedAt = parseTimestamp("created_at", p.CreatedAt)
	n.UpdatedAt = parseTimestamp("updated_at", p.UpdatedAt)
	return nil
}

// ContentItem is one line of a note.
//
// The API answers with rich objects on reads but older payloads (and the
// create form) carry plain strings. Both decode into this type.
type ContentItem struct {
	ID        int64     `json:"id,omitempty"`
	NoteID    int64     `json:"note_id,omitempty"`
	Text      string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// UnmarshalJSON accepts either a JSON string or a content object.
func (c *ContentItem) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*c = ContentItem{Text: text}
		return nil
	}

	type plain ContentItem
	var p struct {
		plain
		CreatedAt json.RawMessage `json:"created_at"`
		UpdatedAt json.RawMessage `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("content item: %w", err)
	}
	*c = ContentItem(p.plain)
	c.CreatedAt = parseTimestamp("created_at", p.CreatedAt)
	c.UpdatedAt = parseTimestamp("updated_at", p.UpdatedAt)
	return nil
}

// Backends disagree on timestamp format. Zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time for null, missing or unreadable
// values. A bad timestamp never fails the surrounding note.
func parseTimestamp(field string, raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		slog.Debug("ignoring non-string timestamp", "field", field, "value", string(raw))
		return time.Time{}
	}
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	slog.Debug("ignoring unparseable timestamp", "field", field, "value", s)
	return time.Time{}
}

// Draft is the payload of a create or update call.
type Draft struct {
	Title string   `json:"title"`
	Items []string `json:"contents"`
}

// EventType represents the kind of change seen on a credential record.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports a change to a stored credential record made outside this process.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
