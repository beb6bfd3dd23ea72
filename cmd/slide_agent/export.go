package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/slide-deck-generator/internal/config"
	"github.com/jonathan/slide-deck-generator/internal/export"
	"github.com/jonathan/slide-deck-generator/internal/types"
)

// exportTargets names the output file for each requested format
type exportTargets struct {
	pdf  string
	pptx string
}

func (t exportTargets) empty() bool {
	return t.pdf == "" && t.pptx == ""
}

// exportDeck renders the requested formats concurrently and writes them out
func exportDeck(ctx context.Context, out io.Writer, slides types.SlideDeck, themeName string, targets exportTargets) error {
	theme, err := export.LookupTheme(themeName)
	if err != nil {
		return err
	}

	files := map[export.Format]string{}
	if targets.pdf != "" {
		files[export.FormatPDF] = targets.pdf
	}
	if targets.pptx != "" {
		files[export.FormatPPTX] = targets.pptx
	}

	g, ctx := errgroup.WithContext(ctx)
	for format, path := range files {
		g.Go(func() error {
			data, err := export.Render(format, slides, theme)
			if err != nil {
				return fmt.Errorf("%s export failed: %w", format, err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, format := range []export.Format{export.FormatPDF, export.FormatPPTX} {
		if path, ok := files[format]; ok {
			_, _ = fmt.Fprintf(out, "Exported %s: %s\n", format, path)
		}
	}
	return nil
}

func newExportCmd(global *globalOptions) *cobra.Command {
	var (
		inputFile string
		targets   exportTargets
		theme     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a deck JSON file to PDF and/or PPTX",
		Long:  "Render a deck previously written by generate (or any deck JSON of the same shape) to PDF and/or PPTX using one of the built-in themes.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if targets.empty() {
				return fmt.Errorf("at least one of --pdf or --pptx is required")
			}

			cfg, err := global.loadConfig(cmd, func(cfg *config.Config, changed func(string) bool) {
				if changed("theme") {
					cfg.Theme = theme
				}
			})
			if err != nil {
				return err
			}

			slides, err := readDeckFile(inputFile)
			if err != nil {
				return err
			}
			return exportDeck(cmd.Context(), cmd.OutOrStdout(), slides, cfg.Theme, targets)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "in", "i", "", "Path to deck JSON file")
	cmd.Flags().StringVar(&targets.pdf, "pdf", "", "Write a PDF to this path")
	cmd.Flags().StringVar(&targets.pptx, "pptx", "", "Write a PPTX to this path")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme: professional, dark or vibrant")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}
