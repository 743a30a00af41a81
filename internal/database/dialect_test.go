package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   Dialect
	}{
		{"postgres url", "postgres://app:secret@db:5432/orderdesk", DialectPostgres},
		{"postgresql url", "postgresql://localhost/orderdesk", DialectPostgres},
		{"file path", "orderdesk.db", DialectSQLite},
		{"file uri", "file:orderdesk.db?mode=rwc", DialectSQLite},
		{"memory", ":memory:", DialectSQLite},
		{"surrounding whitespace", "  postgres://host/db  ", DialectPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDialect(tt.target))
		})
	}
}

func TestTranslatePlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{
			name:    "postgres ordinals in order",
			dialect: DialectPostgres,
			query:   "SELECT * FROM t WHERE a = ? AND b = ?",
			want:    "SELECT * FROM t WHERE a = $1 AND b = $2",
		},
		{
			name:    "sqlite identity",
			dialect: DialectSQLite,
			query:   "SELECT * FROM t WHERE a = ? AND b = ?",
			want:    "SELECT * FROM t WHERE a = ? AND b = ?",
		},
		{
			name:    "no markers",
			dialect: DialectPostgres,
			query:   "SELECT 1",
			want:    "SELECT 1",
		},
		{
			name:    "many markers",
			dialect: DialectPostgres,
			query:   "INSERT INTO t (a, b, c) VALUES (?, ?, ?)",
			want:    "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)",
		},
		{
			name:    "double digit ordinals",
			dialect: DialectPostgres,
			query:   "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			want:    "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslatePlaceholders(tt.dialect, tt.query))
		})
	}
}

func TestDialectFragments(t *testing.T) {
	sqlite := &DB{dialect: DialectSQLite}
	postgres := &DB{dialect: DialectPostgres}

	assert.Equal(t, "CURRENT_TIMESTAMP", sqlite.NowExpr())
	assert.Equal(t, "NOW()", postgres.NowExpr())

	assert.Equal(t, "datetime('now', '-7 days')", sqlite.DaysAgoExpr(7))
	assert.Equal(t, "NOW() - INTERVAL '7 days'", postgres.DaysAgoExpr(7))
}
