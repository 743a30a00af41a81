package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/orderdesk/internal/database"
)

// SQLiteOptions carries the embedded engine's session tuning knobs.
type SQLiteOptions struct {
	BusyTimeout time.Duration
	JournalMode string
	Synchronous string
	CacheSizeKB int
	ForeignKeys bool
}

// Config captures the configuration the storage layer and its CLI need.
// Values come from an optional YAML file overridden by environment
// variables.
type Config struct {
	// DatabaseTarget selects the backend by shape: a file path opens the
	// embedded engine, a postgres:// URL the networked one.
	DatabaseTarget string

	// MigrationsDir holds one .sql file per migration unit.
	MigrationsDir string

	// StatementTimeout applies to networked-engine sessions.
	StatementTimeout time.Duration

	SQLite SQLiteOptions

	// Bootstrap admin credential consumed by the seed step.
	AdminEmail    string
	AdminPassword string
}

// fileConfig mirrors Config for YAML decoding; durations travel as strings.
type fileConfig struct {
	DatabaseTarget   string `yaml:"database_target"`
	MigrationsDir    string `yaml:"migrations_dir"`
	StatementTimeout string `yaml:"statement_timeout"`
	SQLite           struct {
		BusyTimeout string `yaml:"busy_timeout"`
		JournalMode string `yaml:"journal_mode"`
		Synchronous string `yaml:"synchronous"`
		CacheSizeKB int    `yaml:"cache_size_kb"`
		ForeignKeys *bool  `yaml:"foreign_keys"`
	} `yaml:"sqlite"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

// Load builds the configuration: defaults, then the YAML file at path when
// path is non-empty, then environment overrides. Invalid values are
// reported together rather than one at a time.
func Load(path string) (Config, error) {
	cfg := Config{
		DatabaseTarget:   "file:orderdesk.db",
		MigrationsDir:    "migrations",
		StatementTimeout: 30 * time.Second,
		SQLite: SQLiteOptions{
			BusyTimeout: 5 * time.Second,
			JournalMode: "WAL",
			Synchronous: "NORMAL",
			CacheSizeKB: 8192,
			ForeignKeys: true,
		},
	}

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	invalid := make([]string, 0, 2)

	if v := strings.TrimSpace(os.Getenv("ORDERDESK_DATABASE_TARGET")); v != "" {
		cfg.DatabaseTarget = v
	}
	if v := strings.TrimSpace(os.Getenv("ORDERDESK_MIGRATIONS_DIR")); v != "" {
		cfg.MigrationsDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ORDERDESK_STATEMENT_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, "ORDERDESK_STATEMENT_TIMEOUT")
		} else {
			cfg.StatementTimeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORDERDESK_SQLITE_BUSY_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, "ORDERDESK_SQLITE_BUSY_TIMEOUT")
		} else {
			cfg.SQLite.BusyTimeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORDERDESK_SQLITE_JOURNAL_MODE")); v != "" {
		cfg.SQLite.JournalMode = v
	}
	if v := strings.TrimSpace(os.Getenv("ORDERDESK_SQLITE_SYNCHRONOUS")); v != "" {
		cfg.SQLite.Synchronous = v
	}
	if v := strings.TrimSpace(os.Getenv("ORDERDESK_SQLITE_CACHE_KB")); v != "" {
		kb, err := strconv.Atoi(v)
		if err != nil || kb <= 0 {
			invalid = append(invalid, "ORDERDESK_SQLITE_CACHE_KB")
		} else {
			cfg.SQLite.CacheSizeKB = kb
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORDERDESK_SQLITE_FOREIGN_KEYS")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "ORDERDESK_SQLITE_FOREIGN_KEYS")
		} else {
			cfg.SQLite.ForeignKeys = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORDERDESK_ADMIN_EMAIL")); v != "" {
		cfg.AdminEmail = v
	}
	if v := strings.TrimSpace(os.Getenv("ORDERDESK_ADMIN_PASSWORD")); v != "" {
		cfg.AdminPassword = v
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// applyFile merges the YAML file at path into cfg.
func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.DatabaseTarget != "" {
		cfg.DatabaseTarget = fc.DatabaseTarget
	}
	if fc.MigrationsDir != "" {
		cfg.MigrationsDir = fc.MigrationsDir
	}
	if fc.StatementTimeout != "" {
		d, err := time.ParseDuration(fc.StatementTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("config file %s: invalid statement_timeout %q", path, fc.StatementTimeout)
		}
		cfg.StatementTimeout = d
	}
	if fc.SQLite.BusyTimeout != "" {
		d, err := time.ParseDuration(fc.SQLite.BusyTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("config file %s: invalid sqlite.busy_timeout %q", path, fc.SQLite.BusyTimeout)
		}
		cfg.SQLite.BusyTimeout = d
	}
	if fc.SQLite.JournalMode != "" {
		cfg.SQLite.JournalMode = fc.SQLite.JournalMode
	}
	if fc.SQLite.Synchronous != "" {
		cfg.SQLite.Synchronous = fc.SQLite.Synchronous
	}
	if fc.SQLite.CacheSizeKB > 0 {
		cfg.SQLite.CacheSizeKB = fc.SQLite.CacheSizeKB
	}
	if fc.SQLite.ForeignKeys != nil {
		cfg.SQLite.ForeignKeys = *fc.SQLite.ForeignKeys
	}
	if fc.AdminEmail != "" {
		cfg.AdminEmail = fc.AdminEmail
	}
	if fc.AdminPassword != "" {
		cfg.AdminPassword = fc.AdminPassword
	}
	return nil
}

// DatabaseOptions translates the configuration into connector options.
func (c Config) DatabaseOptions(logger *slog.Logger) database.Options {
	return database.Options{
		BusyTimeout:      c.SQLite.BusyTimeout,
		JournalMode:      c.SQLite.JournalMode,
		Synchronous:      c.SQLite.Synchronous,
		CacheSizeKB:      c.SQLite.CacheSizeKB,
		ForeignKeys:      c.SQLite.ForeignKeys,
		StatementTimeout: c.StatementTimeout,
		Logger:           logger,
	}
}
