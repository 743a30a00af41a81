package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "file:orderdesk.db", cfg.DatabaseTarget)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, 30*time.Second, cfg.StatementTimeout)
	assert.Equal(t, "WAL", cfg.SQLite.JournalMode)
	assert.Equal(t, "NORMAL", cfg.SQLite.Synchronous)
	assert.Equal(t, 8192, cfg.SQLite.CacheSizeKB)
	assert.True(t, cfg.SQLite.ForeignKeys)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ORDERDESK_DATABASE_TARGET", "postgres://app@db/orderdesk")
	t.Setenv("ORDERDESK_MIGRATIONS_DIR", "/srv/migrations")
	t.Setenv("ORDERDESK_STATEMENT_TIMEOUT", "10s")
	t.Setenv("ORDERDESK_SQLITE_JOURNAL_MODE", "DELETE")
	t.Setenv("ORDERDESK_SQLITE_CACHE_KB", "1024")
	t.Setenv("ORDERDESK_SQLITE_FOREIGN_KEYS", "false")
	t.Setenv("ORDERDESK_ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ORDERDESK_ADMIN_PASSWORD", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://app@db/orderdesk", cfg.DatabaseTarget)
	assert.Equal(t, "/srv/migrations", cfg.MigrationsDir)
	assert.Equal(t, 10*time.Second, cfg.StatementTimeout)
	assert.Equal(t, "DELETE", cfg.SQLite.JournalMode)
	assert.Equal(t, 1024, cfg.SQLite.CacheSizeKB)
	assert.False(t, cfg.SQLite.ForeignKeys)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
}

func TestLoad_InvalidEnvValuesReportedTogether(t *testing.T) {
	t.Setenv("ORDERDESK_STATEMENT_TIMEOUT", "soon")
	t.Setenv("ORDERDESK_SQLITE_CACHE_KB", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDERDESK_STATEMENT_TIMEOUT")
	assert.Contains(t, err.Error(), "ORDERDESK_SQLITE_CACHE_KB")
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_target: /var/lib/orderdesk/data.db
migrations_dir: db/migrations
statement_timeout: 45s
sqlite:
  journal_mode: TRUNCATE
  busy_timeout: 2s
  cache_size_kb: 2048
  foreign_keys: false
admin_email: boss@example.com
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/orderdesk/data.db", cfg.DatabaseTarget)
	assert.Equal(t, "db/migrations", cfg.MigrationsDir)
	assert.Equal(t, 45*time.Second, cfg.StatementTimeout)
	assert.Equal(t, "TRUNCATE", cfg.SQLite.JournalMode)
	assert.Equal(t, 2*time.Second, cfg.SQLite.BusyTimeout)
	assert.Equal(t, 2048, cfg.SQLite.CacheSizeKB)
	assert.False(t, cfg.SQLite.ForeignKeys)
	assert.Equal(t, "boss@example.com", cfg.AdminEmail)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_target: from-file.db\n"), 0o644))
	t.Setenv("ORDERDESK_DATABASE_TARGET", "from-env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DatabaseTarget)
}

func TestLoad_BadYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("statement_timeout: [oops\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
