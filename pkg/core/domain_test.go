package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/core"
)

func TestContentItem_DecodesBothShapes(t *testing.T) {
	payload := `{
		"id": 12,
		"title": "Groceries",
		"user_id": 7,
		"created_at": "2024-03-01T10:00:00.000Z",
		"updated_at": "2024-03-02T10:00:00.000Z",
		"contents": [
			{"id": 1, "note_id": 12, "content": "milk", "created_at": "2024-03-01T10:00:00.000Z", "updated_at": "2024-03-01T10:00:00.000Z"},
			"eggs"
		]
	}`

	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(payload), &n))

	require.Len(t, n.Contents, 2)
	assert.Equal(t, core.ContentItem{
		ID:        1,
		NoteID:    12,
		Text:      "milk",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}, n.Contents[0])
	assert.Equal(t, core.ContentItem{Text: "eggs"}, n.Contents[1])
	assert.Equal(t, []string{"milk", "eggs"}, n.Texts())
	assert.Equal(t, core.Draft{Title: "Groceries", Items: []string{"milk", "eggs"}}, n.Draft())
}

func TestNote_DecodesLooseTimestamps(t *testing.T) {
	payload := `{
		"id": 3,
		"title": "Loose",
		"created_at": "2024-05-01T10:00:00",
		"updated_at": "2024-05-01 10:30:00",
		"contents": [
			{"content": "a", "created_at": "2024-05-01 11:00:00", "updated_at": "yesterday"},
			{"content": "b", "created_at": null, "updated_at": 1714557600}
		]
	}`

	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(payload), &n))

	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), n.CreatedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), n.UpdatedAt)
	require.Len(t, n.Contents, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), n.Contents[0].CreatedAt)
	assert.True(t, n.Contents[0].UpdatedAt.IsZero())
	assert.True(t, n.Contents[1].CreatedAt.IsZero())
	assert.True(t, n.Contents[1].UpdatedAt.IsZero())
	assert.Equal(t, []string{"a", "b"}, n.Texts())
}

func TestNote_BadTimestampKeepsNote(t *testing.T) {
	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(`{"id": 9, "title": "x", "created_at": "01/05/2024"}`), &n))
	assert.Equal(t, int64(9), n.ID)
	assert.True(t, n.CreatedAt.IsZero())
}

func TestContentItem_RejectsGarbage(t *testing.T) {
	var c core.ContentItem
	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
}

func TestDraft_Normalize(t *testing.T) {
	tests := []struct {
		name  string
		draft core.Draft
		field string
	}{
		{"Empty Title", core.Draft{Title: "", Items: []string{"a"}}, "title"},
		{"Blank Title", core.Draft{Title: " \t", Items: []string{"a"}}, "title"},
		{"No Items", core.Draft{Title: "t"}, "contents"},
		{"Blank Item", core.Draft{Title: "t", Items: []string{"a", "  "}}, "contents[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Normalize()
			var verr *core.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}

	d, err := core.Draft{Title: " t ", Items: []string{" a "}}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, core.Draft{Title: "t", Items: []string{"a"}}, d)
}

func TestSession_RecordShape(t *testing.T) {
	s := core.Session{Profile: core.Profile{Username: "alice"}, Token: "tok"}
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"username":"alice"},"access_token":"tok"}`, string(raw))
}
