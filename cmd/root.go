// Package cmd wires configuration, storage and the HTTP server into the
// portfolio-blog command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpupo63/portfolio-blog-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries the configuration loaded before any subcommand runs.
type app struct {
	config map[string]string
}

func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "portfolio-blog",
		Short:         "Backend of the portfolio site and its blog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newGenerateCommand(a),
		newReportCommand(a),
		newTokenCommand(a),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func (a *app) load(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	a.config = config.New()
	setupLogging(a.config)

	if prefix := config.GetString(a.config, "SSM_PARAMETER_PATH", ""); prefix != "" {
		client, err := config.NewSSMClient(ctx)
		if err != nil {
			return err
		}
		loaded, err := config.LoadSSM(ctx, client, a.config, prefix)
		if err != nil {
			return err
		}
		log.Info().Int("parameters", loaded).Str("path", prefix).Msg("Loaded configuration from SSM")
	}
	return nil
}

func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "LOG_FORMAT", "json") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
