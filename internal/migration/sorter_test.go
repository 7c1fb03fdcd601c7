package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/migration-ledger/internal/migration"
)

func makeMigrations(t *testing.T, versions ...string) []migration.Migration {
	t.Helper()

	ms := make([]migration.Migration, len(versions))
	for i, v := range versions {
		ms[i] = migration.Migration{Version: v, Name: "m" + v}
	}

	return ms
}

func versionsOf(t *testing.T, ms []migration.Migration) []string {
	t.Helper()

	vs := make([]string, len(ms))
	for i, m := range ms {
		vs[i] = m.Version
	}

	return vs
}

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "reverse order is corrected",
			input:    []string{"003", "002", "001"},
			expected: []string{"001", "002", "003"},
		},
		{
			name:     "timestamp versions sort chronologically",
			input:    []string{"20230101", "20220101", "20240101"},
			expected: []string{"20220101", "20230101", "20240101"},
		},
		{
			name:     "unpadded numbers sort as strings",
			input:    []string{"9", "100", "10"},
			expected: []string{"10", "100", "9"},
		},
		{
			name:     "nil slice returns empty",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := migration.Sort(makeMigrations(t, tt.input...))

			assert.Equal(t, tt.expected, versionsOf(t, result))
		})
	}
}

func TestSort_doesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	input := makeMigrations(t, "003", "001", "002")

	migration.Sort(input)

	assert.Equal(t, []string{"003", "001", "002"}, versionsOf(t, input))
}

func TestSort_stableForEqualVersions(t *testing.T) {
	t.Parallel()

	input := []migration.Migration{
		{Version: "002", Name: "b"},
		{Version: "001", Name: "first"},
		{Version: "001", Name: "second"},
	}

	result := migration.Sort(input)

	assert.Equal(t, "first", result[0].Name)
	assert.Equal(t, "second", result[1].Name)
	assert.Equal(t, "b", result[2].Name)
}
