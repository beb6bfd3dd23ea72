package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

// ErrEmptyDeck is returned when there is nothing to render
var ErrEmptyDeck = errors.New("deck has no slides")

// Format is an export file format
type Format string

// Supported formats
const (
	FormatPDF  Format = "pdf"
	FormatPPTX Format = "pptx"
)

// ParseFormat reads a format name such as "pdf" or ".pptx"
func ParseFormat(name string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatPPTX:
		return FormatPPTX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", name)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatPPTX:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	default:
		return "application/octet-stream"
	}
}

// Render exports deck in the given format
func Render(format Format, deck types.SlideDeck, theme Theme) ([]byte, error) {
	switch format {
	case FormatPDF:
		return PDF(deck, theme)
	case FormatPPTX:
		return PPTX(deck, theme)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// visualLines splits a visual into display lines, dropping trailing blank lines
func visualLines(visual string) []string {
	lines := strings.Split(strings.ReplaceAll(visual, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
