package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/router"
	"github.com/muhittincamdali/enterprise-security-framework/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Compliance report aggregation service",
		Long: `Compliance report aggregation service.
Aggregates boolean compliance checks across regulatory standards
into immutable signed reports with multi-format export.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP server",
		Run: func(_ *cobra.Command, _ []string) {
			serve()
		},
	})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}

func serve() {
	cfg := config.DefaultServiceConfigFromEnv()

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Logger.Level)
	if cfg.Logger.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter())
	}

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	router.Init(s)

	go func() {
		if err := s.Start(); err != nil {
			log.Error().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		log.Fatal().Errs("errors", errs).Msg("Failed to gracefully shut down server")
	}
}
