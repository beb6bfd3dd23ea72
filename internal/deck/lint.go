package deck

import (
	"fmt"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

// Soft limits requested by the prompt. Parse does not enforce them.
const (
	MinContentSlides  = 4
	MaxContentSlides  = 8
	MinContentBullets = 3
	MaxContentBullets = 5
	MinVisualCoverage = 0.5
)

// Violation types reported by Lint
const (
	ViolationContentCount   = "content_count"
	ViolationVisualCoverage = "visual_coverage"
	ViolationBulletCount    = "bullet_count"
	ViolationMissingSource  = "visual_without_source"
)

// Lint checks a parsed deck against the soft constraints of the prompt.
// Every finding is a warning; the deck is still usable.
func Lint(deck types.SlideDeck) types.Violations {
	var violations []types.Violation

	content := deck.ContentSlides()
	if n := len(content); n < MinContentSlides || n > MaxContentSlides {
		violations = append(violations, types.Violation{
			Type:     ViolationContentCount,
			Severity: types.SeverityWarning,
			Details:  fmt.Sprintf("deck has %d content slides, expected %d-%d", n, MinContentSlides, MaxContentSlides),
		})
	}

	if len(content) > 0 {
		if coverage := deck.VisualCoverage(); coverage < MinVisualCoverage {
			violations = append(violations, types.Violation{
				Type:     ViolationVisualCoverage,
				Severity: types.SeverityWarning,
				Details:  fmt.Sprintf("%.0f%% of content slides have a visual, expected at least %.0f%%", coverage*100, MinVisualCoverage*100),
			})
		}
	}

	for _, slide := range content {
		id := slide.ID
		if n := len(slide.Bullets); n < MinContentBullets || n > MaxContentBullets {
			violations = append(violations, types.Violation{
				Type:     ViolationBulletCount,
				Severity: types.SeverityWarning,
				Details:  fmt.Sprintf("slide has %d bullets, expected %d-%d", n, MinContentBullets, MaxContentBullets),
				SlideID:  &id,
			})
		}
		if slide.HasVisual() && !slide.Source.Present() {
			violations = append(violations, types.Violation{
				Type:     ViolationMissingSource,
				Severity: types.SeverityWarning,
				Details:  "slide has a visual but no source citation",
				SlideID:  &id,
			})
		}
	}

	return types.Violations{Violations: violations}
}
