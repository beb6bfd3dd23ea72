// Package schemas provides JSON Schema validation for slide deck documents.
package schemas

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

// SlideDeckSchema is the JSON Schema of the deck wire format
//
//go:embed slide_deck.schema.json
var SlideDeckSchema string

var (
	deckSchemaOnce sync.Once
	deckSchema     *gojsonschema.Schema
	deckSchemaErr  error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Error lists every failing field on one line, so it fits HTTP error details
func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		parts[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return "deck does not match schema: " + strings.Join(parts, "; ")
}

// ValidateDeck validates a deck as it would be written to the wire
func ValidateDeck(deck types.SlideDeck) error {
	data, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("failed to marshal deck: %w", err)
	}
	return ValidateDeckJSON(data)
}

// ValidateDeckJSON validates raw deck JSON against the embedded schema
func ValidateDeckJSON(data []byte) error {
	schema, err := loadDeckSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to read deck JSON: %w", err)
	}
	return resultError(result)
}

// loadDeckSchema compiles the embedded schema once
func loadDeckSchema() (*gojsonschema.Schema, error) {
	deckSchemaOnce.Do(func() {
		deckSchema, deckSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(SlideDeckSchema))
		if deckSchemaErr != nil {
			deckSchemaErr = &SchemaLoadError{
				Path:    "slide_deck.schema.json",
				Message: "embedded schema does not compile",
				Cause:   deckSchemaErr,
			}
		}
	})
	return deckSchema, deckSchemaErr
}

// ValidateDeckFile validates a deck JSON file, such as one written by the CLI
func ValidateDeckFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deck file not found: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to read deck file: %w", err)
	}
	return ValidateDeckJSON(data)
}

// resultError builds a ValidationError from a failed result, or nil.
// Field paths are gojsonschema's dotted form, e.g. "1.visual".
func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
