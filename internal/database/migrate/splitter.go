package migrate

import "strings"

// Split breaks a block of SQL text into individually executable statements.
// Comments are removed first, then the text is scanned with quote tracking
// so a ; inside a single- or double-quoted literal never terminates a
// statement. Returned statements carry no trailing terminator; empty
// segments between terminators are dropped.
func Split(sqlText string) []string {
	text := stripComments(sqlText)

	var (
		statements []string
		current    strings.Builder
		inSingle   bool
		inDouble   bool
	)

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		escaped := i > 0 && text[i-1] == '\\'

		switch {
		case c == '\'' && !inDouble && !escaped:
			inSingle = !inSingle
		case c == '"' && !inSingle && !escaped:
			inDouble = !inDouble
		case c == ';' && !inSingle && !inDouble:
			flush()
			continue
		}
		current.WriteByte(c)
	}
	flush()

	return statements
}

// stripComments removes -- line comments and /* */ block comments. By
// contract it does not track quoting, so comment markers must not appear
// inside string literals in migration files.
func stripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], "--") {
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				break
			}
			i += end
			continue
		}
		if strings.HasPrefix(text[i:], "/*") {
			end := strings.Index(text[i:], "*/")
			if end < 0 {
				break
			}
			i += end + 2
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}
