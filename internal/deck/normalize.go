package deck

import (
	"strings"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

// nullSentinel is the literal some models write instead of omitting a field
const nullSentinel = "null"

// Normalize cleans the optional fields of a slide: visual,
// visualDescription and source. The input is not modified.
func Normalize(slide types.SlideRecord) types.SlideRecord {
	slide.Visual = NormalizeField(slide.Visual)
	slide.VisualDescription = NormalizeField(slide.VisualDescription)
	slide.Source = NormalizeField(slide.Source)
	if slide.Bullets != nil {
		slide.Bullets = append([]string(nil), slide.Bullets...)
	}
	return slide
}

// NormalizeDeck applies Normalize to every slide and returns a new deck
func NormalizeDeck(deck types.SlideDeck) types.SlideDeck {
	normalized := make(types.SlideDeck, len(deck))
	for i, slide := range deck {
		normalized[i] = Normalize(slide)
	}
	return normalized
}

// NormalizeField cleans one optional field. Absent stays absent.
func NormalizeField(field types.OptionalText) types.OptionalText {
	text, ok := field.Get()
	if !ok {
		return types.None()
	}
	return NormalizeText(text)
}

// NormalizeText strips a fence wrapped around a single field value and
// surrounding whitespace. Empty text and any casing of "null" become absent.
func NormalizeText(text string) types.OptionalText {
	cleaned := stripFences(text)
	if cleaned == "" || strings.EqualFold(cleaned, nullSentinel) {
		return types.None()
	}
	return types.Some(cleaned)
}
