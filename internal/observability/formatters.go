// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxBulletsToShow is the number of bullets listed per slide
	maxBulletsToShow = 3
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// clip shortens s to n runes, marking the cut with "..."
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSource outputs a short preview of the text a deck is generated from.
func (p *Printer) PrintSource(origin, text string) {
	if text == "" {
		return
	}
	words := len(strings.Fields(text))
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Origin: %s\n", origin))
	sb.WriteString(fmt.Sprintf("Length: %d characters, %d words\n\n", utf8.RuneCountInString(text), words))
	preview := strings.Join(strings.Fields(text), " ")
	sb.WriteString(clip(preview, 160))
	p.printBox("SOURCE TEXT", sb.String())
}

// PrintDeck outputs a human-readable outline of the generated deck.
func (p *Printer) PrintDeck(deck types.SlideDeck) {
	if len(deck) == 0 {
		return
	}

	var sb strings.Builder
	content := deck.ContentSlides()
	sb.WriteString(fmt.Sprintf("Slides: %d (%d content)\n", len(deck), len(content)))
	sb.WriteString(fmt.Sprintf("Visual coverage: %.0f%%\n\n", deck.VisualCoverage()*100))

	for i, slide := range deck {
		marker := " "
		if slide.HasVisual() {
			marker = "▣"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s", marker, slide.ID, slide.Title))
		if slide.Kind == types.SlideKindCover {
			sb.WriteString(" [cover]")
		}
		sb.WriteString("\n")

		count := min(len(slide.Bullets), maxBulletsToShow)
		for _, bullet := range slide.Bullets[:count] {
			sb.WriteString(fmt.Sprintf("    • %s\n", bullet))
		}
		if len(slide.Bullets) > maxBulletsToShow {
			sb.WriteString(fmt.Sprintf("    ... and %d more\n", len(slide.Bullets)-maxBulletsToShow))
		}
		if source, ok := slide.Source.Get(); ok {
			sb.WriteString(fmt.Sprintf("    Source: %s\n", source))
		}
		if i < len(deck)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("GENERATED DECK", strings.TrimRight(sb.String(), "\n"))
}

// PrintViolations outputs any soft-constraint violations found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations == nil || len(violations.Violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	for i, v := range violations.Violations {
		label := string(v.Type)
		if v.SlideID != nil {
			label = fmt.Sprintf("%s (slide %d)", label, *v.SlideID)
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", label))
		sb.WriteString(fmt.Sprintf("  %s\n", clip(v.Details, 45)))
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SOFT CONSTRAINT WARNINGS", strings.TrimRight(sb.String(), "\n"))
}
