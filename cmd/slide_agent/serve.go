package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/slide-deck-generator/internal/config"
	"github.com/jonathan/slide-deck-generator/internal/db"
	"github.com/jonathan/slide-deck-generator/internal/llm"
	"github.com/jonathan/slide-deck-generator/internal/logging"
	"github.com/jonathan/slide-deck-generator/internal/server"
	"github.com/jonathan/slide-deck-generator/internal/server/ratelimit"
)

func newServeCmd(global *globalOptions) *cobra.Command {
	var (
		port        int
		requireAuth bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the relay HTTP server",
		Long: `Start an HTTP server that generates slides with a server-held API key,
so browser clients never see the credential. Also serves PDF/PPTX export,
URL fetching and, when SLIDES_DATABASE_URL is set, the deck archive.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.loadConfig(cmd, func(cfg *config.Config, changed func(string) bool) {
				if changed("port") {
					cfg.Port = port
				}
				if changed("require-auth") {
					cfg.RequireAuth = requireAuth
				}
			})
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	cmd.Flags().BoolVar(&requireAuth, "require-auth", false, "Require a bearer token on /api/ routes (needs SLIDES_JWT_SECRET)")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.Provider == string(llm.ProviderRelay) {
		return fmt.Errorf("the relay server needs a direct provider (openai or gemini), not %q", cfg.Provider)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	rateLimit, err := ratelimit.LoadConfig()
	if err != nil {
		return err
	}

	srvCfg := server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.Credential(),
		Client:         client,
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		CoverDate:      cfg.CoverDate,
		FetchOptions:   fetchOptions(cfg, logger),
		RateLimit:      rateLimit,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}

	if cfg.RequireAuth {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return err
		}
		srvCfg.JWT = jwtConfig
	}

	ctx := cmd.Context()
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return err
		}
		srvCfg.Archive = database
	}

	logger.Info("relay configuration",
		zap.String("provider", cfg.Provider),
		zap.String("api_key", logging.MaskSecret(srvCfg.APIKey)),
		zap.Bool("archive", srvCfg.Archive != nil),
		zap.Bool("auth", srvCfg.JWT != nil),
		zap.Bool("rate_limit", rateLimit.Enabled),
	)
	if srvCfg.APIKey == "" {
		logger.Warn("no API key configured; generation requests will fail until one is set")
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
