package migrate

import "regexp"

// Migration files are authored in the networked engine's SQL. Before a unit
// runs on the embedded engine, the constructs SQLite cannot execute are
// rewritten to their closest local equivalent.
var (
	// Extension creation has no SQLite counterpart; the clause becomes a
	// no-op comment that the splitter subsequently drops.
	extensionClause = regexp.MustCompile(`(?i)CREATE\s+EXTENSION[^;]*;`)

	// NOW() becomes SQLite's literal current-timestamp expression.
	nowCall = regexp.MustCompile(`(?i)\bNOW\s*\(\s*\)`)

	// Timezone-aware timestamp types widen to TEXT; SQLite stores
	// timestamps as text anyway.
	timestampTZType = regexp.MustCompile(`(?i)\bTIMESTAMPTZ\b`)
	timestampWithTZ = regexp.MustCompile(`(?i)\bTIMESTAMP\s+WITH\s+TIME\s+ZONE\b`)
)

// rewriteForSQLite returns the unit text with networked-engine-only syntax
// replaced for the embedded engine. Identity for text that uses none of it.
func rewriteForSQLite(sqlText string) string {
	out := extensionClause.ReplaceAllString(sqlText, "-- extension creation elided on sqlite\n")
	out = nowCall.ReplaceAllString(out, "CURRENT_TIMESTAMP")
	out = timestampTZType.ReplaceAllString(out, "TEXT")
	out = timestampWithTZ.ReplaceAllString(out, "TEXT")
	return out
}
