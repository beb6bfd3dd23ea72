package deck

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slides_deck_generations_total",
			Help: "Total number of deck generations by outcome.",
		},
		[]string{"kind"},
	)
	lintWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slides_deck_lint_warnings_total",
			Help: "Soft-constraint warnings raised on generated decks.",
		},
		[]string{"type"},
	)
	deckSlides = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slides_deck_slides",
			Help:    "Number of slides in generated decks.",
			Buckets: prometheus.LinearBuckets(1, 1, 12),
		},
	)
)

// generationLabel returns the metrics label for a generation outcome
func generationLabel(kind FailureKind) string {
	if kind == FailureNone {
		return "success"
	}
	return string(kind)
}
