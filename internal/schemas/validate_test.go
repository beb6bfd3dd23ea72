package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

const validDeck = `[
  {"id": 1, "title": "Cover", "bullets": ["Subtitle", "Generated on October 16, 2026"], "type": "cover"},
  {"id": 2, "title": "Data", "bullets": ["a", "b", "c"], "type": "content", "visual": "| a |", "source": "Survey", "visualDescription": null},
  {"id": 3, "title": "More", "bullets": ["d"], "type": "content"}
]`

func TestSlideDeckSchema_IsValidJSON(t *testing.T) {
	var v any
	require.NoError(t, json.Unmarshal([]byte(SlideDeckSchema), &v))

	_, err := loadDeckSchema()
	require.NoError(t, err)
}

func TestValidateDeckJSON_Valid(t *testing.T) {
	assert.NoError(t, ValidateDeckJSON([]byte(validDeck)))
}

func TestValidateDeckJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty array", `[]`},
		{"object", `{"id": 1}`},
		{"first not cover", `[{"id": 1, "title": "A", "bullets": ["x"], "type": "content"}]`},
		{"second cover", `[{"id": 1, "title": "A", "bullets": ["x"], "type": "cover"}, {"id": 2, "title": "B", "bullets": ["x"], "type": "cover"}]`},
		{"missing title", `[{"id": 1, "bullets": ["x"], "type": "cover"}]`},
		{"blank title", `[{"id": 1, "title": "   ", "bullets": ["x"], "type": "cover"}]`},
		{"empty bullets", `[{"id": 1, "title": "A", "bullets": [], "type": "cover"}]`},
		{"numeric bullet", `[{"id": 1, "title": "A", "bullets": [1], "type": "cover"}]`},
		{"zero id", `[{"id": 0, "title": "A", "bullets": ["x"], "type": "cover"}]`},
		{"empty visual", `[{"id": 1, "title": "A", "bullets": ["x"], "type": "cover", "visual": ""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeckJSON([]byte(tt.input))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateDeckJSON_NotJSON(t *testing.T) {
	err := ValidateDeckJSON([]byte("not json"))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.NotErrorAs(t, err, &validationErr)
}

func TestValidateDeck(t *testing.T) {
	deck := types.SlideDeck{
		{ID: 1, Title: "Cover", Bullets: []string{"Subtitle"}, Kind: types.SlideKindCover},
		{ID: 2, Title: "Body", Bullets: []string{"x", "y", "z"}, Kind: types.SlideKindContent,
			Visual: types.Some("[###]"), Source: types.Some("Ops")},
	}
	assert.NoError(t, ValidateDeck(deck))

	deck[1].Kind = types.SlideKindCover
	assert.Error(t, ValidateDeck(deck))
}

func TestValidateDeckFile(t *testing.T) {
	dir := t.TempDir()
	validPath := filepath.Join(dir, "deck.json")
	invalidPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(validPath, []byte(validDeck), 0o644))
	require.NoError(t, os.WriteFile(invalidPath, []byte(`[{"id": 1}]`), 0o644))

	assert.NoError(t, ValidateDeckFile(validPath))

	var validationErr *ValidationError
	require.ErrorAs(t, ValidateDeckFile(invalidPath), &validationErr)
	assert.NotEmpty(t, validationErr.Errors)

	err := ValidateDeckFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSchemaLoadError(t *testing.T) {
	err := &SchemaLoadError{Path: "slide_deck.schema.json", Message: "bad", Cause: os.ErrInvalid}
	assert.Contains(t, err.Error(), "slide_deck.schema.json")
	assert.ErrorIs(t, err, os.ErrInvalid)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "0.title", Message: "title is required"},
		{Field: "(root)", Message: "Array must have at least 1 items"},
	}}

	assert.Equal(t,
		"deck does not match schema: 0.title: title is required; (root): Array must have at least 1 items",
		err.Error())
}
