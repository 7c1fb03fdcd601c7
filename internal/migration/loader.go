package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// filenamePattern matches migration files in two formats:
//
//	V{version}_{name}.up.sql   (e.g., V001_create_users.up.sql)
//	{timestamp}_{name}.up.sql  (e.g., 20240101120000_create_users.up.sql)
var filenamePattern = regexp.MustCompile( //nolint:gochecknoglobals // compiled once, used by LoadFromDir
	`^(?:V(\d+)|(\d{14}))_(.+)\.(up|down)\.sql$`,
)

// LoadFromDir scans a directory for migration files and returns them unsorted.
// Files that do not match the naming pattern and .down.sql files without a
// matching .up.sql are skipped.
func LoadFromDir(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}

	grouped := make(map[string]*Migration)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matches := filenamePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}

		version := matches[1]
		if version == "" {
			version = matches[2]
		}

		name := matches[3]
		key := version + "_" + name

		m, ok := grouped[key]
		if !ok {
			m = &Migration{Version: version, Name: name}
			grouped[key] = m
		}

		path := filepath.Join(dir, entry.Name())
		if matches[4] == "up" {
			m.UpPath = path
		} else {
			m.DownPath = path
		}
	}

	migrations := []Migration{}

	for _, m := range grouped {
		if m.UpPath == "" {
			continue
		}

		migrations = append(migrations, *m)
	}

	return migrations, nil
}
