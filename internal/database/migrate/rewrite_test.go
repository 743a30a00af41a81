package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteForSQLite(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "extension clause becomes a comment",
			in:   "CREATE EXTENSION IF NOT EXISTS pgcrypto;\nCREATE TABLE t (id TEXT);",
			want: "-- extension creation elided on sqlite\n\nCREATE TABLE t (id TEXT);",
		},
		{
			name: "now default becomes current timestamp",
			in:   "created_at TEXT NOT NULL DEFAULT NOW()",
			want: "created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP",
		},
		{
			name: "timestamptz widens to text",
			in:   "closed_at TIMESTAMPTZ",
			want: "closed_at TEXT",
		},
		{
			name: "timestamp with time zone widens to text",
			in:   "due_at TIMESTAMP WITH TIME ZONE",
			want: "due_at TEXT",
		},
		{
			name: "identity for portable sql",
			in:   "CREATE TABLE t (id TEXT PRIMARY KEY, n INTEGER)",
			want: "CREATE TABLE t (id TEXT PRIMARY KEY, n INTEGER)",
		},
		{
			name: "case insensitive",
			in:   "created_at timestamptz default now()",
			want: "created_at TEXT default CURRENT_TIMESTAMP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteForSQLite(tt.in))
		})
	}
}

func TestRewriteThenSplit_DropsExtensionClause(t *testing.T) {
	in := "CREATE EXTENSION IF NOT EXISTS pgcrypto;\nCREATE TABLE t (id TEXT);"
	got := Split(rewriteForSQLite(in))
	assert.Equal(t, []string{"CREATE TABLE t (id TEXT)"}, got)
}
