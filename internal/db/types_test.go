package db

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

func sampleDeck() types.SlideDeck {
	return types.SlideDeck{
		{ID: 1, Title: "Cover", Bullets: []string{"Subtitle"}, Kind: types.SlideKindCover},
		{ID: 2, Title: "One", Bullets: []string{"a", "b", "c"}, Kind: types.SlideKindContent, Visual: types.Some("[chart]")},
		{ID: 3, Title: "Two", Bullets: []string{"a", "b", "c"}, Kind: types.SlideKindContent},
	}
}

func TestDeckTitle(t *testing.T) {
	assert.Equal(t, "Cover", deckTitle(sampleDeck()))
	assert.Equal(t, "One", deckTitle(sampleDeck()[1:]))
	assert.Equal(t, "", deckTitle(nil))
}

func TestVisualCount(t *testing.T) {
	assert.Equal(t, 1, visualCount(sampleDeck()))
	assert.Equal(t, 0, visualCount(nil))
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, nullableString(""))
	require.NotNil(t, nullableString("https://example.com"))
	assert.Equal(t, "https://example.com", *nullableString("https://example.com"))
}

func TestDeckRecord_JSON(t *testing.T) {
	record := DeckRecord{
		ID:         uuid.New(),
		Title:      "Cover",
		SlideCount: 3,
		Deck:       sampleDeck(),
		CreatedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "source_url")
	assert.NotContains(t, decoded, "provider")
	assert.Len(t, decoded["deck"], 3)
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS decks")
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid database URL")
}
