package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aqasim81/migration-ledger/internal/ledger"
	"github.com/aqasim81/migration-ledger/internal/logging"
)

// errLedgerMissing is returned when a write is attempted before init.
var errLedgerMissing = errors.New("ledger table does not exist (run migrate-ledger init)")

var markAppliedCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "mark-applied VERSION...",
	Short: "Record migration versions as applied",
	Long: `Insert one ledger row per VERSION, in argument order. Versions already
in the ledger are inserted again; the ledger has no uniqueness constraint.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMarkApplied,
}

var markRevertedCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "mark-reverted VERSION...",
	Short: "Remove migration versions from the ledger",
	Long: `Delete every ledger row for each VERSION, in argument order. Versions
that are not in the ledger are ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMarkReverted,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(markAppliedCmd)
	rootCmd.AddCommand(markRevertedCmd)
}

func runMarkApplied(cmd *cobra.Command, args []string) error {
	return markVersions(cmd, args, "applied", (*ledger.Ledger).MarkApplied)
}

func runMarkReverted(cmd *cobra.Command, args []string) error {
	return markVersions(cmd, args, "reverted", (*ledger.Ledger).MarkReverted)
}

func markVersions(
	cmd *cobra.Command,
	versions []string,
	verb string,
	mark func(*ledger.Ledger, context.Context, string) error,
) error {
	ctx := commandContext(cmd)

	db, l, err := openLedger(ctx, AppConfig)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	exists, err := l.HasLedger(ctx)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", errLedgerMissing, l.Table())
	}

	log := logging.FromContext(ctx)

	for _, v := range versions {
		if err := mark(l, ctx, v); err != nil {
			return err
		}

		log.Debug("ledger updated", "version", v, "state", verb)
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s.\n", v, verb)
	}

	return nil
}
