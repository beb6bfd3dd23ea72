// Package export renders a slide deck to PDF and PPTX.
// Both exporters read the deck and never modify it.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Theme is the colour scheme applied to every slide
type Theme struct {
	Name string
	// Colours are RGB hex without a leading '#'
	Background string
	Text       string
	Muted      string
	Accent     string
}

// DefaultThemeName is used when no theme is requested
const DefaultThemeName = "professional"

var themes = map[string]Theme{
	"professional": {Name: "professional", Background: "1E3A8A", Text: "FFFFFF", Muted: "CCCCCC", Accent: "3B82F6"},
	"dark":         {Name: "dark", Background: "111827", Text: "FFFFFF", Muted: "CCCCCC", Accent: "6B7280"},
	"vibrant":      {Name: "vibrant", Background: "F97316", Text: "FFFFFF", Muted: "FDE7D6", Accent: "EC4899"},
}

// LookupTheme returns the named theme; an empty name selects the default
func LookupTheme(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultThemeName
	}
	theme, ok := themes[key]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return theme, nil
}

// ThemeNames lists the available themes, sorted
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// argb returns the colour in the ARGB form used by PPTX
func argb(hex string) string {
	return "FF" + strings.ToUpper(hex)
}

// rgb converts a hex colour for maroto
func rgb(hex string) *props.Color {
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return &props.Color{}
	}
	return &props.Color{
		Red:   int(value >> 16 & 0xFF),
		Green: int(value >> 8 & 0xFF),
		Blue:  int(value & 0xFF),
	}
}
