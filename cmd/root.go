// Package cmd wires the editor core to its collaborators and exposes the CLI.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spiffler33/quill/internal/auth"
	"github.com/spiffler33/quill/internal/config"
	"github.com/spiffler33/quill/internal/db"
	"github.com/spiffler33/quill/internal/editor"
	"github.com/spiffler33/quill/internal/logger"
	"github.com/spiffler33/quill/internal/registry"
	"github.com/spiffler33/quill/internal/store"
)

var (
	cfgFile  string
	logLevel string

	appLogger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "quill - blog draft editor",
	Long:  "quill edits blog drafts and posts stored in a remote content repository.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			// Not an error: the token may come from the real environment.
			fmt.Fprintln(os.Stderr, "No .env file loaded")
		}

		if err := config.LoadConfig(cfgFile); err != nil {
			return err
		}
		if logLevel == "" {
			logLevel = config.AppConfig.Logging.Level
		}

		var logOut io.Writer
		if f, err := os.OpenFile(config.AppConfig.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			logOut = f
		}
		appLogger = logger.New(logLevel, logOut)

		config.SetLogger(appLogger)
		store.SetLogger(appLogger)
		registry.SetLogger(appLogger)
		editor.SetLogger(appLogger)
		auth.SetLogger(appLogger)
		db.SetLogger(appLogger)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
}

// newCredentials captures the bearer token from the environment and verifies
// it before any store call, the same probe the token capture screen runs.
func newCredentials(cmd *cobra.Command) (auth.CredentialProvider, error) {
	token := os.Getenv("QUILL_GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, errors.New(config.ErrTokenRequired)
	}

	creds := auth.NewGitHubTokenProvider(token)
	if err := creds.Verify(cmd.Context()); err != nil {
		return nil, fmt.Errorf(config.ErrTokenRejected+": %w", err)
	}
	return creds, nil
}

// newStore builds the configured store backend.
func newStore(cmd *cobra.Command) (store.Store, error) {
	cfg := config.AppConfig

	switch cfg.Store.Backend {
	case "github":
		creds, err := newCredentials(cmd)
		if err != nil {
			return nil, err
		}
		return store.NewGitHubStore(cfg.Repo.Owner, cfg.Repo.Name, creds), nil

	case "s3":
		return store.NewS3Store(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			cfg.Store.S3.Endpoint,
			cfg.Store.S3.Bucket,
		)

	case "sqlite":
		return newSQLiteStore(cfg.Store.SQLite.Path)

	default:
		return nil, fmt.Errorf(config.ErrUnknownBackendFmt, cfg.Store.Backend)
	}
}

func newSQLiteStore(path string) (store.Store, error) {
	database := db.NewSQLite(path)
	if err := database.InitDB(); err != nil {
		return nil, fmt.Errorf(config.ErrInitializeStoreFmt, err)
	}
	return store.NewSQLiteStore(database), nil
}

func newRegistry(st store.Store) *registry.Registry {
	return registry.New(st)
}

func autosaveDelay() time.Duration {
	return time.Duration(config.AppConfig.Editor.AutosaveDelayMs) * time.Millisecond
}
