package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/slide-deck-generator/internal/config"
	"github.com/jonathan/slide-deck-generator/internal/server"
)

func newTokenCmd() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a relay started with --require-auth",
		Long:  "Sign a relay access token with SLIDES_JWT_SECRET. Pass it to generate with --api-key when using --provider relay.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			jwtConfig, err := config.NewJWTConfig()
			if err != nil {
				return err
			}

			token, err := server.NewTokenService(jwtConfig).GenerateToken(subject)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "slide-agent-client", "Subject (client name) recorded in the token")

	return cmd
}
