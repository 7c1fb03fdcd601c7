package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/aqasim81/migration-ledger/internal/config"
	"github.com/aqasim81/migration-ledger/internal/database"
	"github.com/aqasim81/migration-ledger/internal/ledger"
	"github.com/aqasim81/migration-ledger/internal/logging"
)

const version = "0.1.0"

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// errDatabaseURLRequired is returned when no database URL is configured.
var errDatabaseURLRequired = errors.New(
	"database URL is required (set --database-url, LEDGER_DATABASE_URL, or database_url in config)",
)

// rootCmd is the base command for the migrate-ledger CLI.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:     "migrate-ledger",
	Version: version,
	Short:   "Inspect and edit the table that records applied schema migrations",
	Long: `migrate-ledger reads and writes the migration ledger: a single-column
table holding the version of every applied migration. It works with SQLite,
MySQL and PostgreSQL and never runs migration SQL itself.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := logging.New(cmd.ErrOrStderr(), verbose)
		cmd.SetContext(logging.ContextWithLogger(commandContext(cmd), logger))

		return nil
	},
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.PersistentFlags().String("config", "ledger.yml", "path to configuration file")
	rootCmd.PersistentFlags().String("driver", "", "database driver (sqlite, mysql, pgx, postgres)")
	rootCmd.PersistentFlags().String("database-url", "", "database connection string")
	rootCmd.PersistentFlags().String("table", "", "ledger table name")
	rootCmd.PersistentFlags().String("migrations-dir", "", "path to migration files")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration with precedence: flag > env > file.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	config.MergeEnv(cfg)
	mergeFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	AppConfig = cfg

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	for flag, dst := range map[string]*string{
		"driver":         &cfg.Driver,
		"database-url":   &cfg.DatabaseURL,
		"table":          &cfg.Table,
		"migrations-dir": &cfg.MigrationsDir,
	} {
		if cmd.Flags().Changed(flag) {
			*dst, _ = cmd.Flags().GetString(flag)
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// openLedger connects to the configured database and wraps it in a Ledger.
// The caller must close the returned handle.
func openLedger(ctx context.Context, cfg *config.Config) (*sqlx.DB, *ledger.Ledger, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, errDatabaseURLRequired
	}

	log := logging.FromContext(ctx)
	log.Debug("connecting", "driver", cfg.Driver, "dsn", config.RedactDSN(cfg.Driver, cfg.DatabaseURL))

	db, err := database.Open(ctx, cfg.Driver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	l, err := ledger.New(db, cfg.Table)
	if err != nil {
		_ = db.Close()

		return nil, nil, err
	}

	log.Debug("ledger ready",
		"table", l.Table(),
		"driver", l.Driver(),
		"dialect", l.Dialect().Name(),
		"validated", l.Dialect().Validated(),
	)

	return db, l, nil
}
