package deck

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/slide-deck-generator/internal/llm"
	"github.com/jonathan/slide-deck-generator/internal/types"
)

// coverDateLayout matches the "Month D, YYYY" date used on cover slides
const coverDateLayout = "January 2, 2006"

// Stage names a step of the generation pipeline
type Stage string

// Pipeline stages in the order they run
const (
	StagePrompt    Stage = "prompt"
	StageGenerate  Stage = "generate"
	StageSanitize  Stage = "sanitize"
	StageParse     Stage = "parse"
	StageNormalize Stage = "normalize"
	StageDone      Stage = "done"
)

// Generator turns source text into a slide deck with one model call.
// It holds no per-call state and is safe for concurrent use.
type Generator struct {
	client    llm.Client
	logger    *zap.Logger
	observer  func(Stage)
	coverDate func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger used for stage and lint messages
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithObserver registers a callback invoked as each stage starts
func WithObserver(observer func(Stage)) Option {
	return func(g *Generator) {
		g.observer = observer
	}
}

// WithCoverDate appends "Generated on <date>" to the cover slide unless a
// cover bullet already mentions today's month and day
func WithCoverDate(now func() time.Time) Option {
	return func(g *Generator) {
		g.coverDate = now
	}
}

// NewGenerator creates a Generator that calls client
func NewGenerator(client llm.Client, opts ...Option) *Generator {
	g := &Generator{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate converts sourceText into a deck.
// The credential is passed to the transport for this call only.
// Any stage failure is returned unchanged and no partial deck is produced.
// Cancelling ctx abandons the model call; nothing is sent upstream.
func (g *Generator) Generate(ctx context.Context, sourceText, credential string) (types.SlideDeck, error) {
	deck, err := g.generate(ctx, sourceText, credential)
	generationsTotal.WithLabelValues(generationLabel(Classify(err))).Inc()
	return deck, err
}

func (g *Generator) generate(ctx context.Context, sourceText, credential string) (types.SlideDeck, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, ErrEmptySource
	}

	g.notify(StagePrompt)
	prompt, err := BuildPrompt(sourceText)
	if err != nil {
		return nil, err
	}
	req := llm.Request{
		System:     SystemPrompt(),
		Prompt:     prompt,
		SourceText: sourceText,
		Credential: credential,
	}

	g.notify(StageGenerate)
	raw, err := g.client.Generate(ctx, req)
	if err != nil {
		g.logger.Warn("slide generation failed",
			zap.String("kind", string(Classify(err))),
			zap.Error(err))
		return nil, err
	}

	g.notify(StageSanitize)
	clean := Sanitize(raw)

	g.notify(StageParse)
	result, err := ParseDetailed(clean)
	if err != nil {
		var malformed *MalformedOutputError
		if errors.As(err, &malformed) {
			g.logger.Warn("model returned malformed deck",
				zap.String("reason", malformed.Reason),
				zap.String("field", malformed.Field),
				zap.String("snippet", malformed.Snippet))
		}
		return nil, err
	}
	if result.RenumberedIDs > 0 || result.DemotedCovers > 0 {
		g.logger.Info("corrected model output",
			zap.Int("renumbered_ids", result.RenumberedIDs),
			zap.Int("demoted_covers", result.DemotedCovers))
	}

	g.notify(StageNormalize)
	deck := NormalizeDeck(result.Deck)
	if g.coverDate != nil {
		deck = stampCoverDate(deck, g.coverDate())
	}

	g.lint(deck)
	deckSlides.Observe(float64(len(deck)))

	g.notify(StageDone)
	return deck, nil
}

// lint logs the soft-constraint warnings for a generated deck
func (g *Generator) lint(deck types.SlideDeck) {
	for _, violation := range Lint(deck).Violations {
		lintWarningsTotal.WithLabelValues(violation.Type).Inc()
		fields := []zap.Field{
			zap.String("type", violation.Type),
			zap.String("details", violation.Details),
		}
		if violation.SlideID != nil {
			fields = append(fields, zap.Int("slide_id", *violation.SlideID))
		}
		g.logger.Warn("generated deck violates soft constraint", fields...)
	}
}

func (g *Generator) notify(stage Stage) {
	if g.observer != nil {
		g.observer(stage)
	}
}

// stampCoverDate returns deck with a date bullet added to the cover when missing
func stampCoverDate(deck types.SlideDeck, now time.Time) types.SlideDeck {
	cover, ok := deck.Cover()
	if !ok {
		return deck
	}

	today := now.Format(coverDateLayout)
	monthDay := now.Format("January 2")
	for _, bullet := range cover.Bullets {
		if strings.Contains(bullet, monthDay) {
			return deck
		}
	}

	stamped := make(types.SlideDeck, len(deck))
	copy(stamped, deck)
	cover.Bullets = append(append([]string(nil), cover.Bullets...), "Generated on "+today)
	stamped[0] = cover
	return stamped
}
