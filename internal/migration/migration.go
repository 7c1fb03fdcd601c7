// Package migration discovers migration files on disk so their versions can
// be compared with the versions recorded in the ledger.
package migration

// Migration is one migration discovered on disk. Its SQL is not read; running
// migrations is the runner's job.
type Migration struct {
	Version  string // "001" or "20240101120000", extracted from the filename
	Name     string // "create_users", extracted from the filename
	UpPath   string // path to the .up.sql file
	DownPath string // path to the .down.sql file (empty if none)
}

// Pending returns the migrations whose version is not in applied, preserving
// the order of all.
func Pending(all []Migration, applied []string) []Migration {
	seen := toSet(applied)

	pending := []Migration{}

	for _, m := range all {
		if !seen[m.Version] {
			pending = append(pending, m)
		}
	}

	return pending
}

// Unknown returns applied versions that have no migration file, in the order
// they appear in applied. Duplicate ledger rows are reported once.
func Unknown(all []Migration, applied []string) []string {
	onDisk := make(map[string]bool, len(all))
	for _, m := range all {
		onDisk[m.Version] = true
	}

	unknown := []string{}
	reported := make(map[string]bool)

	for _, v := range applied {
		if onDisk[v] || reported[v] {
			continue
		}

		reported[v] = true
		unknown = append(unknown, v)
	}

	return unknown
}

func toSet(versions []string) map[string]bool {
	set := make(map[string]bool, len(versions))
	for _, v := range versions {
		set[v] = true
	}

	return set
}
