// Package cmd is the grocery.GO command line: the HTTP server, fixture maintenance, catalog
// indexing and cron jobs. Custom packages add commands through Register.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"grocery.GO/app"
	"grocery.GO/config"
)

var rootCmd = &cobra.Command{
	Use:           "grocery",
	Short:         "grocery.GO storefront backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute applies registered commands and runs the root command.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// logger builds the configured zap logger, falling back to a no-op one.
func logger(cfg *config.Config) *zap.Logger {
	log, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return zap.NewNop()
	}
	return log
}

// bootstrap loads the environment and builds the application.
func bootstrap(ctx context.Context) (*app.App, error) {
	config.LoadAppConfig()
	cfg := config.AppConfig
	a, err := app.New(ctx, cfg, logger(cfg))
	if err != nil {
		return nil, fmt.Errorf("startup: %w", err)
	}
	return a, nil
}
