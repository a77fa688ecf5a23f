package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"conquest"
	"conquest/config"
	"conquest/internal/history"
	"conquest/internal/history/sqlite"
	"conquest/internal/logging"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const appContextKey contextKey = "appContext"

// appContext holds shared CLI state
type appContext struct {
	Config   *config.Config
	Client   *conquest.Client
	Importer *conquest.Importer
	History  history.Store
	Logger   *slog.Logger

	logFile *os.File
}

// Global flags
var (
	configPath string
	logLevel   string
	logFormat  string
)

// newRootCommand creates the root cobra command
func newRootCommand() *cobra.Command {
	var app appContext

	rootCmd := &cobra.Command{
		Use:           "conquest",
		Short:         "CLI for the Conquest asset-management web API",
		Long:          `A command line interface for importing files into Conquest and working with its records.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors (main.go handles it)
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app.Config = cfg

			logger, logFile, err := setupLogging(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}
			app.Logger = logger
			app.logFile = logFile
			logger.Debug("CLI started", "command", cmd.Name())

			client, err := conquest.NewClient(conquest.Config{
				BaseURL:            cfg.API.BaseURL,
				Connection:         cfg.API.Connection,
				Username:           cfg.API.Username,
				Password:           cfg.API.Password,
				InsecureSkipVerify: cfg.API.InsecureSkipVerify,
				Timeout:            time.Duration(cfg.API.TimeoutSeconds) * time.Second,
			}, logger)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			app.Client = client
			app.Importer = conquest.NewImporter(client, conquest.ImportOptions{
				OutputDir:    cfg.Import.OutputDir,
				PollInterval: time.Duration(cfg.Import.PollIntervalMS) * time.Millisecond,
			})

			store, err := sqlite.New(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("failed to open history database: %w", err)
			}
			app.History = logging.NewHistoryStoreLogger(store, logger)

			cmd.SetContext(context.WithValue(cmd.Context(), appContextKey, &app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.History != nil {
				if err := app.History.Close(); err != nil {
					return err
				}
			}
			if app.logFile != nil {
				return app.logFile.Close()
			}
			return nil
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newTokenCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newAssetCommand())
	rootCmd.AddCommand(newActionCommand())
	rootCmd.AddCommand(newSystemCommand())
	rootCmd.AddCommand(newHistoryCommand())

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to JSON config file (default: environment variables)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Log format override (text, json)")

	return rootCmd
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}

// setupLogging builds the CLI logger. Logs go to stderr so command output
// stays clean on stdout, or to the configured log file.
func setupLogging(cfg config.LoggingConfig) (*slog.Logger, *os.File, error) {
	logCfg := logging.LoggerConfig{
		Format: cfg.Format,
		Level:  logging.ParseLevel(cfg.Level),
	}

	if cfg.File != "" {
		return logging.NewFileLogger(cfg.File, logCfg)
	}
	return logging.NewLoggerTo(os.Stderr, logCfg), nil, nil
}

// getAppContext extracts the CLI context from the command context
func getAppContext(cmd *cobra.Command) *appContext {
	return cmd.Context().Value(appContextKey).(*appContext)
}

// printRecord writes a record to stdout as indented JSON
func printRecord(record conquest.Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format record: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
