package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/migration-ledger/internal/migration"
)

func TestPending(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		onDisk  []string
		applied []string
		want    []string
	}{
		{name: "nothing applied", onDisk: []string{"001", "002"}, applied: nil, want: []string{"001", "002"}},
		{name: "some applied", onDisk: []string{"001", "002", "003"}, applied: []string{"002"}, want: []string{"001", "003"}},
		{name: "all applied", onDisk: []string{"001"}, applied: []string{"001"}, want: []string{}},
		{name: "applied without file is ignored", onDisk: []string{"001"}, applied: []string{"999"}, want: []string{"001"}},
		{name: "no files", onDisk: nil, applied: []string{"001"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := migration.Pending(makeMigrations(t, tt.onDisk...), tt.applied)
			assert.Equal(t, tt.want, versionsOf(t, got))
		})
	}
}

func TestUnknown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		onDisk  []string
		applied []string
		want    []string
	}{
		{name: "all known", onDisk: []string{"001", "002"}, applied: []string{"001"}, want: []string{}},
		{name: "missing file", onDisk: []string{"001"}, applied: []string{"001", "005"}, want: []string{"005"}},
		{name: "duplicate rows reported once", onDisk: nil, applied: []string{"007", "007"}, want: []string{"007"}},
		{name: "empty ledger", onDisk: []string{"001"}, applied: []string{}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := migration.Unknown(makeMigrations(t, tt.onDisk...), tt.applied)
			assert.Equal(t, tt.want, got)
		})
	}
}
