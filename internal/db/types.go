package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

// DeckRecord is an archived deck with its generation metadata
type DeckRecord struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Provider    string          `json:"provider,omitempty"`
	Model       string          `json:"model,omitempty"`
	SourceURL   *string         `json:"source_url,omitempty"`
	SourceChars int             `json:"source_chars"`
	SlideCount  int             `json:"slide_count"`
	VisualCount int             `json:"visual_count"`
	Deck        types.SlideDeck `json:"deck"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DeckSummary is a DeckRecord without the deck body, for listings
type DeckSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Provider    string    `json:"provider,omitempty"`
	SlideCount  int       `json:"slide_count"`
	VisualCount int       `json:"visual_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeckInput is the metadata stored alongside a new deck
type DeckInput struct {
	Provider    string
	Model       string
	SourceURL   string
	SourceChars int
	Deck        types.SlideDeck
}

// deckTitle is the cover title, or the first slide title when there is no cover
func deckTitle(deck types.SlideDeck) string {
	if cover, ok := deck.Cover(); ok {
		return cover.Title
	}
	if len(deck) > 0 {
		return deck[0].Title
	}
	return ""
}

// visualCount counts slides carrying a visual
func visualCount(deck types.SlideDeck) int {
	n := 0
	for _, slide := range deck {
		if slide.HasVisual() {
			n++
		}
	}
	return n
}

// nullableString maps "" to NULL
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
