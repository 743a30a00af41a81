package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// alterAddColumn recognizes the single shape the guard protects: an
// additive column change. Any other ALTER form passes through unguarded.
var alterAddColumn = regexp.MustCompile(`(?i)^\s*ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+([^\s(,;]+)`)

// validIdentifier matches identifiers that are safe to interpolate into a
// PRAGMA call, which cannot take bound parameters.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// columnAddTarget extracts the table and column from an additive column
// change, with identifier quoting stripped. ok is false for any other
// statement shape.
func columnAddTarget(stmt string) (table, column string, ok bool) {
	m := alterAddColumn.FindStringSubmatch(stmt)
	if m == nil {
		return "", "", false
	}
	return unquoteIdent(m[1]), unquoteIdent(m[2]), true
}

// unquoteIdent strips the quoting decorations the supported backends allow
// around identifiers: "double quotes", `backticks`, and [brackets].
func unquoteIdent(ident string) string {
	return strings.Trim(ident, "\"`[]")
}

// columnExists reports whether the table already carries the column,
// reading live schema metadata through the open transaction so columns
// added earlier in the same unit are visible. SQLite only: this is the
// embedded engine's substitute for ADD COLUMN IF NOT EXISTS.
func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	if !validIdentifier.MatchString(table) {
		return false, fmt.Errorf("unsafe table identifier %q", table)
	}

	rows, err := tx.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return false, fmt.Errorf("read schema for table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return false, fmt.Errorf("read schema columns: %w", err)
	}

	// PRAGMA table_info yields (cid, name, type, notnull, dflt_value, pk);
	// locate name by position so driver differences in column labels don't
	// matter.
	nameIdx := 1
	for i, c := range columns {
		if strings.EqualFold(c, "name") {
			nameIdx = i
			break
		}
	}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return false, fmt.Errorf("scan schema row: %w", err)
		}

		var name string
		switch v := values[nameIdx].(type) {
		case string:
			name = v
		case []byte:
			name = string(v)
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}
