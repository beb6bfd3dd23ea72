// Package deck turns free-form text into a validated slide deck.
// It builds the prompt, calls a text-generation transport, and cleans the
// model output into types.SlideDeck. Every stage fails closed.
package deck

import (
	"fmt"

	"github.com/jonathan/slide-deck-generator/internal/prompts"
)

const (
	systemPromptKey = "system"
	generateDeckKey = "generate-deck"
	sourceTextKey   = "SourceText"
)

// BuildPrompt renders the deck generation prompt for sourceText.
// The output schema and slide-count instructions are fixed; the source
// text is appended verbatim at the end. It fails if the template asks
// for a value other than the source text.
func BuildPrompt(sourceText string) (string, error) {
	return renderPrompt(generateDeckKey, sourceText)
}

func renderPrompt(key, sourceText string) (string, error) {
	prompt, err := prompts.Render(prompts.SlidesFile, key, map[string]string{
		sourceTextKey: sourceText,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}
	return prompt, nil
}

// SystemPrompt returns the fixed system instruction sent with every request
func SystemPrompt() string {
	return prompts.MustGet(prompts.SlidesFile, systemPromptKey)
}
