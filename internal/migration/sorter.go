package migration

import (
	"slices"
	"strings"
)

// Sort returns a copy of migrations ordered by Version as plain strings, the
// same order the ledger lists applied versions in. Equal versions keep their
// input order.
func Sort(migrations []Migration) []Migration {
	sorted := slices.Clone(migrations)

	slices.SortStableFunc(sorted, func(a, b Migration) int {
		return strings.Compare(a.Version, b.Version)
	})

	return sorted
}
