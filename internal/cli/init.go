package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "init",
	Short: "Create the ledger table if it does not exist",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	db, l, err := openLedger(ctx, AppConfig)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	created, err := l.EnsureLedger(ctx)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Created ledger table %s.\n", l.Table())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Ledger table %s already exists.\n", l.Table())
	}

	return nil
}
