package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/slide-deck-generator/internal/config"
	"github.com/jonathan/slide-deck-generator/internal/fetch"
)

// fetchOptions builds fetch options from the resolved configuration
func fetchOptions(cfg *config.Config, logger *zap.Logger) *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.UseBrowser = cfg.UseBrowser
	opts.Logger = logger
	return opts
}

func newFetchCmd(global *globalOptions) *cobra.Command {
	var (
		url        string
		outputFile string
		useBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the readable text of a web page",
		Long:  "Download a URL and extract its main text. Google Docs links are read through their plain-text export; --browser falls back to a headless browser for script-rendered pages.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.loadConfig(cmd, func(cfg *config.Config, changed func(string) bool) {
				if changed("browser") {
					cfg.UseBrowser = useBrowser
				}
			})
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			result, err := fetch.Text(cmd.Context(), url, fetchOptions(cfg, logger))
			if err != nil {
				return fmt.Errorf("failed to fetch content: %w", err)
			}

			if outputFile == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(result.Text+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d characters from %s\nOutput: %s\n", len([]rune(result.Text)), result.URL, outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "", "URL to fetch")
	cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write the text to this file instead of stdout")
	cmd.Flags().BoolVar(&useBrowser, "browser", false, "Use a headless browser when the page yields too little text")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
