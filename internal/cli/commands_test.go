package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/migration-ledger/internal/config"
)

// setupTestConfig points AppConfig at a fresh SQLite file for the duration of
// the test and restores it on cleanup. It returns the migrations directory.
func setupTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	migrationsDir := filepath.Join(dir, "migrations")

	old := AppConfig
	AppConfig = &config.Config{
		Driver:        config.DefaultDriver,
		DatabaseURL:   filepath.Join(dir, "ledger.db"),
		Table:         config.DefaultTable,
		MigrationsDir: migrationsDir,
		Format:        config.FormatText,
	}

	t.Cleanup(func() { AppConfig = old })

	return migrationsDir
}

// run invokes fn as a fresh command with args and returns its output.
func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{RunE: fn}
	cmd.Flags().String("format", "", "")
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	err := fn(cmd, args)

	return buf.String(), err
}

func TestRunInit_noDatabaseURL_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setupTestConfig(t)
	AppConfig.DatabaseURL = ""

	_, err := run(t, runInit)
	require.ErrorIs(t, err, errDatabaseURLRequired)
}

func TestRunInit_unsupportedDriver_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setupTestConfig(t)
	AppConfig.Driver = "oracle"

	_, err := run(t, runInit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to database")
}

func TestRunInit_createsOnce(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setupTestConfig(t)

	out, err := run(t, runInit)
	require.NoError(t, err)
	assert.Contains(t, out, "Created ledger table migrations.")

	out, err = run(t, runInit)
	require.NoError(t, err)
	assert.Contains(t, out, "Ledger table migrations already exists.")
}

func TestRunMarkApplied_withoutLedger_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setupTestConfig(t)

	_, err := run(t, runMarkApplied, "001")
	require.ErrorIs(t, err, errLedgerMissing)
}

func TestRunStatus_text(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	migrationsDir := setupTestConfig(t)

	require.NoError(t, os.Mkdir(migrationsDir, 0o755))

	for _, name := range []string{"V001_a.up.sql", "V002_b.up.sql", "V003_c.up.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(migrationsDir, name), nil, 0o644))
	}

	_, err := run(t, runInit)
	require.NoError(t, err)

	out, err := run(t, runMarkApplied, "002", "001", "900")
	require.NoError(t, err)
	assert.Contains(t, out, "Marked 002 applied.")
	assert.Contains(t, out, "Marked 900 applied.")

	out, err = run(t, runMarkReverted, "001")
	require.NoError(t, err)
	assert.Contains(t, out, "Marked 001 reverted.")

	out, err = run(t, runStatus)
	require.NoError(t, err)
	assert.Equal(t, `Applied (2):
  002
  900
Pending (2):
  001
  003
Applied without a migration file (1):
  900
`, out)
}

func TestRunStatus_json_missingLedgerAndDir(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setupTestConfig(t)

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{RunE: runStatus}
	cmd.Flags().String("format", "", "")
	cmd.SetOut(buf)
	require.NoError(t, cmd.Flags().Set("format", "json"))

	require.NoError(t, runStatus(cmd, nil))

	var report statusReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "migrations", report.Table)
	assert.False(t, report.LedgerExists)
	assert.False(t, report.FilesScanned)
	assert.Empty(t, report.Applied)
}

func TestRunStatus_invalidFormat_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	setupTestConfig(t)

	cmd := &cobra.Command{RunE: runStatus}
	cmd.Flags().String("format", "", "")
	require.NoError(t, cmd.Flags().Set("format", "xml"))

	require.ErrorIs(t, runStatus(cmd, nil), config.ErrInvalidConfig)
}

func TestRootCommand_registersSubcommands(t *testing.T) {
	t.Parallel()

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"init", "status", "mark-applied", "mark-reverted"})
}
