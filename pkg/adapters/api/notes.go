package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/jot/pkg/core"
)

// Notes implements core.NotesService.
type Notes struct {
	c *Client
}

func notePath(id int64) string {
	return "/notes/" + strconv.FormatInt(id, 10)
}

// List returns every note of the token owner: GET /notes.
func (n *Notes) List(ctx context.Context, token string) ([]core.Note, error) {
	var notes []core.Note
	err := n.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/notes",
		token:    token,
		out:      &notes,
		fallback: msgFetchNotes,
	})
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return notes, nil
}

// Create stores a new note: POST /notes.
func (n *Notes) Create(ctx context.Context, token string, d core.Draft) (core.Note, error) {
	var note core.Note
	err := n.c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/notes",
		token:    token,
		body:     d,
		out:      &note,
		fallback: msgSaveNote,
	})
	return note, err
}

// Update replaces a note: PUT /notes/:id.
func (n *Notes) Update(ctx context.Context, token string, id int64, d core.Draft) (core.Note, error) {
	var note core.Note
	err := n.c.do(ctx, call{
		method:   http.MethodPut,
		path:     notePath(id),
		token:    token,
		body:     d,
		out:      &note,
		fallback: msgSaveNote,
	})
	return note, err
}

// Delete removes a note: DELETE /notes/:id.
func (n *Notes) Delete(ctx context.Context, token string, id int64) (string, error) {
	var answer struct {
		Message string `json:"message"`
	}
	err := n.c.do(ctx, call{
		method:   http.MethodDelete,
		path:     notePath(id),
		token:    token,
		out:      &answer,
		fallback: msgDeleteNote,
	})
	if err != nil {
		return "", err
	}
	if msg := strings.TrimSpace(answer.Message); msg != "" {
		return msg, nil
	}
	return msgNoteDeleted, nil
}

var _ core.NotesService = (*Notes)(nil)
