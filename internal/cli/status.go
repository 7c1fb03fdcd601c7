package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/aqasim81/migration-ledger/internal/config"
	"github.com/aqasim81/migration-ledger/internal/ledger"
	"github.com/aqasim81/migration-ledger/internal/logging"
	"github.com/aqasim81/migration-ledger/internal/migration"
)

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show applied migration versions",
	Long: `Display the versions recorded in the ledger. When the migrations
directory exists, also show migrations on disk that are not yet applied and
applied versions that have no file.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	statusCmd.Flags().String("format", "", "output format (text, json); defaults to the configured format")
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the status command's output, also its JSON shape.
type statusReport struct {
	Table        string   `json:"table"`
	LedgerExists bool     `json:"ledger_exists"`
	Applied      []string `json:"applied"`
	Pending      []string `json:"pending,omitempty"`
	Unknown      []string `json:"unknown,omitempty"`
	FilesScanned bool     `json:"files_scanned"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	format := cfg.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}

	if format != config.FormatText && format != config.FormatJSON {
		return fmt.Errorf("%w: format %q", config.ErrInvalidConfig, format)
	}

	ctx := commandContext(cmd)

	db, l, err := openLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	report, err := buildStatus(ctx, l, cfg.MigrationsDir)
	if err != nil {
		return err
	}

	if format == config.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(report)
	}

	printStatus(cmd.OutOrStdout(), report)

	return nil
}

func buildStatus(ctx context.Context, l *ledger.Ledger, migrationsDir string) (*statusReport, error) {
	report := &statusReport{Table: l.Table(), Applied: []string{}}

	exists, err := l.HasLedger(ctx)
	if err != nil {
		return nil, err
	}

	report.LedgerExists = exists

	if exists {
		report.Applied, err = l.ListApplied(ctx)
		if err != nil {
			return nil, err
		}
	}

	files, err := migration.LoadFromDir(migrationsDir)
	if errors.Is(err, fs.ErrNotExist) {
		logging.FromContext(ctx).Debug("migrations directory not found; skipping file comparison", "dir", migrationsDir)

		return report, nil
	}

	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}

	report.FilesScanned = true

	for _, m := range migration.Pending(migration.Sort(files), report.Applied) {
		report.Pending = append(report.Pending, m.Version)
	}

	report.Unknown = migration.Unknown(files, report.Applied)

	return report, nil
}

func printStatus(out io.Writer, r *statusReport) {
	if !r.LedgerExists {
		fmt.Fprintf(out, "Ledger table %s does not exist (run migrate-ledger init).\n", r.Table)
	}

	fmt.Fprintf(out, "Applied (%d):\n", len(r.Applied))

	for _, v := range r.Applied {
		fmt.Fprintf(out, "  %s\n", v)
	}

	if !r.FilesScanned {
		return
	}

	fmt.Fprintf(out, "Pending (%d):\n", len(r.Pending))

	for _, v := range r.Pending {
		fmt.Fprintf(out, "  %s\n", v)
	}

	if len(r.Unknown) > 0 {
		fmt.Fprintf(out, "Applied without a migration file (%d):\n", len(r.Unknown))

		for _, v := range r.Unknown {
			fmt.Fprintf(out, "  %s\n", v)
		}
	}
}
