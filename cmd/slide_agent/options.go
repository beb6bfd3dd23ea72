package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/slide-deck-generator/internal/config"
	"github.com/jonathan/slide-deck-generator/internal/deck"
	"github.com/jonathan/slide-deck-generator/internal/llm"
	"github.com/jonathan/slide-deck-generator/internal/logging"
	"github.com/jonathan/slide-deck-generator/internal/types"
)

// loadConfig resolves env, file and defaults, then applies the flags the
// user actually set. apply may be nil.
func (g *globalOptions) loadConfig(cmd *cobra.Command, apply func(cfg *config.Config, changed func(string) bool)) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("verbose") {
		cfg.Verbose = g.verbose
	}
	if changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if apply != nil {
		apply(cfg, changed)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the zap logger for a command
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// newClient builds the configured transport, wrapped in the retry decorator
// when retries are enabled
func newClient(cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	llmConfig, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(llmConfig, logger)
	if err != nil {
		return nil, err
	}
	if cfg.RetryCount() > 0 {
		client = llm.NewRetryingClient(client, cfg.RetryPolicy(), logger)
	}
	return client, nil
}

// readDeckFile loads a deck written by generate, or any deck JSON in the
// same shape, applying the generation sanitize/parse/normalize steps
func readDeckFile(path string) (types.SlideDeck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}
	slides, err := deck.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid deck in %s: %w", path, err)
	}
	return slides, nil
}

// writeDeck writes indented deck JSON to path, or to w when path is empty
func writeDeck(w io.Writer, path string, slides types.SlideDeck) error {
	jsonBytes, err := json.MarshalIndent(slides, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deck: %w", err)
	}
	jsonBytes = append(jsonBytes, '\n')

	if path == "" {
		_, err = w.Write(jsonBytes)
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
