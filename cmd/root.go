package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/resume-link-scraper/internal/api"
	"github.com/JakeFAU/resume-link-scraper/internal/app"
	"github.com/JakeFAU/resume-link-scraper/internal/config"
	"github.com/JakeFAU/resume-link-scraper/internal/logging"
	"github.com/JakeFAU/resume-link-scraper/internal/pipeline"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application surface commands use.
type App interface {
	Close()
	Config() config.Config
	Logger() *zap.Logger
	Service() *pipeline.Service
	Server() *api.Server
}

// newApp is the application factory. It's a variable so tests can swap it.
var newApp = func(cfg config.Config, logger *zap.Logger) App {
	return app.New(cfg, logger)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "resume-link-scraper",
		Short: "Scrape the pages a resume links to.",
		Long: `resume-link-scraper extracts the links from a resume or profile document,
fetches each linked page politely and returns the main text of every page,
in the order the links appeared.`,
		SilenceUsage: true,

		// Builds the app after flags are parsed but before the subcommand runs.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(logging.Options{
				Development: cfg.Logging.Development,
				Level:       cfg.Logging.Level,
				File:        cfg.Logging.File,
				MaxSizeMB:   cfg.Logging.MaxSizeMB,
				MaxBackups:  cfg.Logging.MaxBackups,
				MaxAgeDays:  cfg.Logging.MaxAgeDays,
			})
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, newApp(cfg, logger))
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, JSON or TOML)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScrapeCmd())

	return cmd
}

// resolveApp pulls the App built by the root command out of ctx.
func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
