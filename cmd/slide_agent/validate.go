package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/slide-deck-generator/internal/deck"
	"github.com/jonathan/slide-deck-generator/internal/observability"
	"github.com/jonathan/slide-deck-generator/internal/schemas"
)

func newValidateCmd(_ *globalOptions) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a deck JSON file",
		Long:  "Check a deck JSON file against the slide deck schema and report soft-constraint warnings such as slide count and visual coverage.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if err := schemas.ValidateDeckFile(inputFile); err != nil {
				var validationErr *schemas.ValidationError
				if !errors.As(err, &validationErr) {
					return err
				}
				_, _ = fmt.Fprintln(out, "Validation failed:")
				for _, fieldErr := range validationErr.Errors {
					_, _ = fmt.Fprintf(out, "  %s: %s\n", fieldErr.Field, fieldErr.Message)
				}
				return fmt.Errorf("deck does not match the schema")
			}

			slides, err := readDeckFile(inputFile)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "Validation passed: %d slides\n", len(slides))
			violations := deck.Lint(slides)
			observability.NewPrinter(out).PrintViolations(&violations)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "in", "i", "", "Path to deck JSON file")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}
