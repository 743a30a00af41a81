package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// unitFileName pins the naming convention: a fixed-width four-digit prefix,
// an underscore, and a lowercase description. The fixed width keeps
// lexicographic order and numeric order identical, and lexicographic order
// is what the runner applies.
var unitFileName = regexp.MustCompile(`^(\d{4})_([a-z0-9_]+)\.sql$`)

// Scan reads the migration directory and returns its units sorted ascending
// by name. Files that do not end in .sql are ignored; .sql files that break
// the naming convention, duplicate a name, or are empty abort the scan.
func Scan(dir string) ([]Unit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migration directory %s: %w", dir, err)
	}

	seen := make(map[string]string)
	units := make([]Unit, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		if !unitFileName.MatchString(entry.Name()) {
			return nil, fmt.Errorf("%w: %s (want {NNNN}_{description}.sql)", ErrInvalidName, entry.Name())
		}

		name := strings.TrimSuffix(entry.Name(), ".sql")
		prefix := name[:4]
		if other, ok := seen[prefix]; ok {
			return nil, fmt.Errorf("%w: prefix %s used by both %s and %s", ErrDuplicateName, prefix, other, entry.Name())
		}
		seen[prefix] = entry.Name()

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", path, err)
		}
		if strings.TrimSpace(string(raw)) == "" {
			return nil, &UnitError{Name: name, Op: "read", Err: ErrEmptyUnit}
		}

		units = append(units, Unit{Name: name, Source: path, SQL: string(raw)})
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].Name < units[j].Name
	})
	return units, nil
}
