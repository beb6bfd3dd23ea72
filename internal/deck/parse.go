package deck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

// wireSlide is one slide object as the model emits it.
// Fields are decoded as any so a wrong JSON type is reported per field
// instead of failing the whole array. Unknown keys are ignored.
type wireSlide struct {
	ID                any `json:"id"`
	Title             any `json:"title"`
	Bullets           any `json:"bullets"`
	Type              any `json:"type"`
	Kind              any `json:"kind"`
	Visual            any `json:"visual"`
	VisualDescription any `json:"visualDescription"`
	Source            any `json:"source"`
}

// ParseResult is a parsed deck plus the corrections the parser applied
type ParseResult struct {
	Deck types.SlideDeck
	// RenumberedIDs counts slides whose id was missing or not equal to their position
	RenumberedIDs int
	// DemotedCovers counts cover slides after the first that became content slides
	DemotedCovers int
}

// Parse decodes sanitized model output into a deck.
// See ParseDetailed for the rules.
func Parse(clean string) (types.SlideDeck, error) {
	result, err := ParseDetailed(clean)
	if err != nil {
		return nil, err
	}
	return result.Deck, nil
}

// Decode reads a deck from stored or user-supplied JSON, such as a file
// written by the CLI or an export request body. It applies the same
// sanitize, parse and normalize steps as generation.
func Decode(data []byte) (types.SlideDeck, error) {
	deck, err := Parse(Sanitize(string(data)))
	if err != nil {
		return nil, err
	}
	return NormalizeDeck(deck), nil
}

// ParseDetailed decodes sanitized model output into a deck and reports what it corrected.
//
// The text must be a non-empty JSON array of objects. The first object must
// be a cover slide (its "type", or "kind", equal to "cover"); every object
// needs a non-empty title and a non-empty array of string bullets. Ids are
// reassigned to the 1-based position of each slide, later covers are
// demoted to content, and a missing or unknown kind on a later slide means
// content. Slide counts and visual coverage are not checked here (see Lint).
// Optional fields are carried as given; Normalize cleans them.
func ParseDetailed(clean string) (*ParseResult, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(clean), &elements); err != nil {
		return nil, newMalformed("response is not a JSON array", "", clean, err)
	}
	if len(elements) == 0 {
		return nil, newMalformed("deck contains no slides", "", clean, nil)
	}

	result := &ParseResult{Deck: make(types.SlideDeck, 0, len(elements))}
	for i, element := range elements {
		slide, err := parseSlide(i, element, result)
		if err != nil {
			return nil, err
		}
		result.Deck = append(result.Deck, slide)
	}

	return result, nil
}

// parseSlide validates one array element at index i
func parseSlide(i int, element json.RawMessage, result *ParseResult) (types.SlideRecord, error) {
	path := fmt.Sprintf("[%d]", i)
	text := string(element)

	trimmed := bytes.TrimSpace(element)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return types.SlideRecord{}, newMalformed("slide is not a JSON object", path, text, nil)
	}

	var raw wireSlide
	if err := json.Unmarshal(element, &raw); err != nil {
		return types.SlideRecord{}, newMalformed("slide could not be decoded", path, text, err)
	}

	title, ok := raw.Title.(string)
	if !ok || strings.TrimSpace(title) == "" {
		return types.SlideRecord{}, newMalformed("title must be a non-empty string", path+".title", text, nil)
	}

	bullets, err := parseBullets(raw.Bullets)
	if err != nil {
		return types.SlideRecord{}, newMalformed(err.Error(), path+".bullets", text, nil)
	}

	kind, known := resolveKind(raw)
	switch {
	case i == 0 && kind != types.SlideKindCover:
		return types.SlideRecord{}, newMalformed("first slide must be the cover", path+".type", text, nil)
	case i > 0 && kind == types.SlideKindCover:
		kind = types.SlideKindContent
		result.DemotedCovers++
	case !known:
		kind = types.SlideKindContent
	}

	position := i + 1
	if id, ok := raw.ID.(float64); !ok || id != float64(position) {
		result.RenumberedIDs++
	}

	return types.SlideRecord{
		ID:                position,
		Title:             title,
		Bullets:           bullets,
		Kind:              kind,
		Visual:            optionalFromWire(raw.Visual),
		VisualDescription: optionalFromWire(raw.VisualDescription),
		Source:            optionalFromWire(raw.Source),
	}, nil
}

// parseBullets requires a non-empty array whose entries are all strings
func parseBullets(value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, errors.New("bullets must be an array of strings")
	}
	if len(items) == 0 {
		return nil, errors.New("bullets must not be empty")
	}

	bullets := make([]string, 0, len(items))
	for j, item := range items {
		bullet, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("bullet %d is not a string", j)
		}
		bullets = append(bullets, bullet)
	}
	return bullets, nil
}

// resolveKind reads "type", falling back to "kind", case-insensitively.
// known is false when neither key holds a recognised kind.
func resolveKind(raw wireSlide) (kind types.SlideKind, known bool) {
	for _, value := range []any{raw.Type, raw.Kind} {
		s, ok := value.(string)
		if !ok {
			continue
		}
		switch types.SlideKind(strings.ToLower(strings.TrimSpace(s))) {
		case types.SlideKindCover:
			return types.SlideKindCover, true
		case types.SlideKindContent:
			return types.SlideKindContent, true
		}
	}
	return "", false
}

// optionalFromWire keeps string values and treats every other JSON type as absent
func optionalFromWire(value any) types.OptionalText {
	if s, ok := value.(string); ok {
		return types.Some(s)
	}
	return types.None()
}
