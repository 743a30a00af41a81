package migrate

import (
	"regexp"
	"strings"
)

var createIndexStmt = regexp.MustCompile(`(?i)^\s*CREATE\s+(UNIQUE\s+)?INDEX\b`)

// Ignorable reports whether a failed statement is safe to skip on the
// embedded engine. It covers the two "already applied" signals SQLite
// raises, plus one transaction-visibility quirk: an index created against a
// column or table added earlier in the same still-open transaction can
// report the object missing. That carve-out applies to index creation only.
//
// The PostgreSQL migration path never consults this classifier; there every
// statement failure is fatal and the whole unit rolls back.
func Ignorable(stmt string, err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "duplicate column") {
		return true
	}
	if strings.Contains(msg, "already exists") {
		return true
	}
	if strings.Contains(msg, "no such column") || strings.Contains(msg, "no such table") {
		return createIndexStmt.MatchString(stmt)
	}
	return false
}
