package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/slide-deck-generator/internal/config"
	"github.com/jonathan/slide-deck-generator/internal/deck"
	"github.com/jonathan/slide-deck-generator/internal/fetch"
	"github.com/jonathan/slide-deck-generator/internal/logging"
	"github.com/jonathan/slide-deck-generator/internal/observability"
)

// maxSourceBytes bounds source text read from a file or stdin
const maxSourceBytes = 1 << 20

type generateOptions struct {
	inputFile  string
	url        string
	outputFile string
	targets    exportTargets

	theme     string
	provider  string
	model     string
	apiKey    string
	relayURL  string
	retries   int
	coverDate bool
	browser   bool
}

// apply copies the flags the user set over the loaded configuration
func (o *generateOptions) apply(cfg *config.Config, changed func(string) bool) {
	if changed("theme") {
		cfg.Theme = o.theme
	}
	if changed("provider") {
		cfg.Provider = o.provider
	}
	if changed("model") {
		cfg.Model = o.model
	}
	if changed("api-key") {
		cfg.APIKey = o.apiKey
	}
	if changed("relay-url") {
		cfg.RelayURL = o.relayURL
	}
	if changed("retries") {
		cfg.SetRetries(o.retries)
	}
	if changed("cover-date") {
		cfg.CoverDate = o.coverDate
	}
	if changed("browser") {
		cfg.UseBrowser = o.browser
	}
}

func newGenerateCmd(global *globalOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a slide deck from text or a URL",
		Long: `Generate a slide deck from source text read from --in, fetched from --url, or piped on stdin.

The deck is written as JSON to --out (or stdout) and can be exported to PDF
and PPTX in the same run with --pdf and --pptx.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputFile, "in", "i", "", "Path to a source text file")
	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "URL to fetch the source text from")
	cmd.Flags().StringVarP(&opts.outputFile, "out", "o", "", "Path to the output deck JSON (default: stdout)")
	cmd.Flags().StringVar(&opts.targets.pdf, "pdf", "", "Also export a PDF to this path")
	cmd.Flags().StringVar(&opts.targets.pptx, "pptx", "", "Also export a PPTX to this path")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "Export theme: professional, dark or vibrant")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Model provider: openai, gemini or relay")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name (default depends on provider)")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "API key (overrides OPENAI_API_KEY / GEMINI_API_KEY; bearer token for relay)")
	cmd.Flags().StringVar(&opts.relayURL, "relay-url", "", "Relay endpoint, e.g. http://localhost:8080/api/generate-slides")
	cmd.Flags().IntVar(&opts.retries, "retries", 0, "Extra attempts on network and 5xx errors")
	cmd.Flags().BoolVar(&opts.coverDate, "cover-date", false, "Add a \"Generated on\" date to the cover slide")
	cmd.Flags().BoolVar(&opts.browser, "browser", false, "Use a headless browser fallback with --url")
	cmd.MarkFlagsMutuallyExclusive("in", "url")

	return cmd
}

func runGenerate(cmd *cobra.Command, global *globalOptions, opts *generateOptions) error {
	cfg, err := global.loadConfig(cmd, opts.apply)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	// Source text
	var sourceText, origin string
	switch {
	case opts.url != "":
		result, err := fetch.Text(ctx, opts.url, fetchOptions(cfg, logger))
		if err != nil {
			return fmt.Errorf("failed to fetch content: %w", err)
		}
		sourceText, origin = result.Text, result.URL
	case opts.inputFile != "":
		data, err := os.ReadFile(opts.inputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		sourceText, origin = string(data), opts.inputFile
	default:
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxSourceBytes))
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sourceText, origin = string(data), "stdin"
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("generating slides",
		zap.String("provider", cfg.Provider),
		zap.String("source", origin),
		zap.Int("source_chars", len([]rune(sourceText))),
		zap.String("api_key", logging.MaskSecret(cfg.Credential())),
	)

	genOpts := []deck.Option{deck.WithLogger(logger)}
	if cfg.CoverDate {
		genOpts = append(genOpts, deck.WithCoverDate(time.Now))
	}
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintSource(origin, sourceText)
	}

	slides, err := deck.NewGenerator(client, genOpts...).Generate(ctx, sourceText, cfg.Credential())
	if err != nil {
		return fmt.Errorf("%s: %w", deck.UserMessage(err), err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintDeck(slides)
		violations := deck.Lint(slides)
		printer.PrintViolations(&violations)
	}

	if err := writeDeck(out, opts.outputFile, slides); err != nil {
		return err
	}
	if opts.outputFile != "" {
		_, _ = fmt.Fprintf(out, "Generated %d slides\nOutput: %s\n", len(slides), opts.outputFile)
	}

	if opts.targets.empty() {
		return nil
	}
	// Keep stdout pure JSON when the deck went there
	status := out
	if opts.outputFile == "" {
		status = cmd.ErrOrStderr()
	}
	return exportDeck(ctx, status, slides, cfg.Theme, opts.targets)
}
