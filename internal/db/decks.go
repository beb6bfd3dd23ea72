package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Deck Archive Methods
// -----------------------------------------------------------------------------

// SaveDeck stores a generated deck and returns its ID
func (db *DB) SaveDeck(ctx context.Context, input *DeckInput) (uuid.UUID, error) {
	if input == nil || len(input.Deck) == 0 {
		return uuid.Nil, errors.New("cannot save an empty deck")
	}

	content, err := json.Marshal(input.Deck)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal deck: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO decks (title, provider, model, source_url, source_chars, slide_count, visual_count, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		deckTitle(input.Deck), input.Provider, input.Model, nullableString(input.SourceURL),
		input.SourceChars, len(input.Deck), visualCount(input.Deck), content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save deck: %w", err)
	}
	return id, nil
}

// GetDeck retrieves an archived deck by ID; ErrNotFound if absent
func (db *DB) GetDeck(ctx context.Context, id uuid.UUID) (*DeckRecord, error) {
	var record DeckRecord
	var content []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, title, provider, model, source_url, source_chars, slide_count, visual_count, content, created_at
		 FROM decks WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.Title, &record.Provider, &record.Model, &record.SourceURL,
		&record.SourceChars, &record.SlideCount, &record.VisualCount, &content, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	if err := json.Unmarshal(content, &record.Deck); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deck %s: %w", id, err)
	}
	return &record, nil
}

// ListDecks retrieves the most recent decks, newest first
func (db *DB) ListDecks(ctx context.Context, limit int) ([]DeckSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, provider, slide_count, visual_count, created_at
		 FROM decks ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []DeckSummary
	for rows.Next() {
		var d DeckSummary
		if err := rows.Scan(&d.ID, &d.Title, &d.Provider, &d.SlideCount, &d.VisualCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// DeleteDeck removes an archived deck; ErrNotFound if absent
func (db *DB) DeleteDeck(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
