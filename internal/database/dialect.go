package database

import (
	"strconv"
	"strings"
)

// Dialect identifies which backend a connection talks to.
type Dialect string

const (
	// DialectSQLite is the embedded, file-backed engine.
	DialectSQLite Dialect = "sqlite"

	// DialectPostgres is the networked, client-server engine.
	DialectPostgres Dialect = "postgres"
)

// DetectDialect picks the backend from the shape of the target descriptor:
// a postgres:// or postgresql:// URL selects the networked engine, anything
// else is treated as an SQLite file path (including :memory:).
func DetectDialect(target string) Dialect {
	t := strings.TrimSpace(target)
	if strings.HasPrefix(t, "postgres://") || strings.HasPrefix(t, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// TranslatePlaceholders rewrites positional ? markers into the dialect's
// native parameter syntax. SQLite consumes ? directly, so the input is
// returned unchanged. PostgreSQL requires ordinal $1, $2, ... references;
// each marker is replaced in left-to-right order with the next ordinal.
//
// The function counts markers literally and performs no SQL parsing, so it
// must not be handed query text in which ? appears inside a string literal.
// Callers keep literals out of query bodies and pass them as arguments.
func TranslatePlaceholders(dialect Dialect, query string) string {
	if dialect != DialectPostgres || !strings.ContainsRune(query, '?') {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NowExpr returns the backend's expression for the current timestamp.
// Callers embed it in query text instead of branching on the dialect.
func (d *DB) NowExpr() string {
	if d.dialect == DialectPostgres {
		return "NOW()"
	}
	return "CURRENT_TIMESTAMP"
}

// DaysAgoExpr returns an expression for the current timestamp shifted back
// by the given number of days, in the backend's date-arithmetic syntax.
func (d *DB) DaysAgoExpr(days int) string {
	if d.dialect == DialectPostgres {
		return "NOW() - INTERVAL '" + strconv.Itoa(days) + " days'"
	}
	return "datetime('now', '-" + strconv.Itoa(days) + " days')"
}
