package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Row is one result row keyed by column name. Values carry whatever the
// driver produced; byte slices are converted to strings so dynamic callers
// can compare and log them directly.
type Row map[string]any

// Options tunes the connection. The zero value is usable; unset fields fall
// back to the defaults below.
type Options struct {
	// SQLite session tuning, applied once per connection, best-effort.
	BusyTimeout time.Duration
	JournalMode string
	Synchronous string
	CacheSizeKB int
	ForeignKeys bool

	// StatementTimeout is applied to PostgreSQL sessions, best-effort.
	StatementTimeout time.Duration

	// Pool knobs, passed through to database/sql when positive.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = 5 * time.Second
	}
	if o.JournalMode == "" {
		o.JournalMode = "WAL"
	}
	if o.Synchronous == "" {
		o.Synchronous = "NORMAL"
	}
	if o.CacheSizeKB <= 0 {
		o.CacheSizeKB = 8192
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// DB is the single owned handle to the backend. All query traffic in the
// process goes through one instance.
type DB struct {
	dialect Dialect
	db      *sql.DB
	opts    Options
	logger  *slog.Logger

	tuneOnce sync.Once
}

// Connect opens a connection to the backend selected by the target's shape
// (see DetectDialect) and verifies it is reachable. An unreachable backend
// is a startup-fatal condition; no degraded mode exists.
func Connect(ctx context.Context, target string, opts Options) (*DB, error) {
	opts = opts.withDefaults()

	dialect := DetectDialect(target)
	driver := "sqlite"
	if dialect == DialectPostgres {
		driver = "pgx"
	}

	db, err := sql.Open(driver, target)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reach %s database: %w", dialect, err)
	}

	return &DB{
		dialect: dialect,
		db:      db,
		opts:    opts,
		logger:  opts.Logger,
	}, nil
}

// Dialect reports which backend this connection talks to.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Close releases the connection. Called once at process shutdown.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping verifies the backend is still reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Get returns the first row matched by the query, or nil when no row
// matches. A nil row is the absent-result marker; Get never fabricates a
// zero-valued row.
func (d *DB) Get(ctx context.Context, query string, args ...any) (Row, error) {
	d.tune(ctx)

	rows, err := d.db.QueryContext(ctx, TranslatePlaceholders(d.dialect, query), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return nil, rows.Err()
	}
	row, err := scanRow(rows)
	if err != nil {
		return nil, err
	}
	return row, rows.Err()
}

// All returns every row matched by the query, in result order. When no rows
// match the result is an empty slice, never nil.
func (d *DB) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	d.tune(ctx)

	rows, err := d.db.QueryContext(ctx, TranslatePlaceholders(d.dialect, query), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make([]Row, 0)
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Run executes a mutation and returns the number of rows it affected. The
// count is normalized to int64 regardless of how the backend reports it.
func (d *DB) Run(ctx context.Context, query string, args ...any) (int64, error) {
	d.tune(ctx)

	res, err := d.db.ExecContext(ctx, TranslatePlaceholders(d.dialect, query), args...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// Exec executes raw statement text without result parsing or placeholder
// translation. Used for DDL, where parameters never appear.
func (d *DB) Exec(ctx context.Context, query string) error {
	d.tune(ctx)

	_, err := d.db.ExecContext(ctx, query)
	return err
}

// Conn hands out a dedicated session from the pool. The caller owns it and
// must close it; session-scoped state (advisory locks, SET commands) only
// holds for statements issued on this connection.
func (d *DB) Conn(ctx context.Context) (*sql.Conn, error) {
	return d.db.Conn(ctx)
}

// TxFunc runs inside a transaction started by WithTx.
type TxFunc func(tx *sql.Tx) error

// WithTx executes fn inside a transaction. The transaction is rolled back
// when fn returns an error or panics, and committed otherwise.
func (d *DB) WithTx(ctx context.Context, fn TxFunc) error {
	d.tune(ctx)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// tune applies backend session settings once, on first use. Failures are
// logged and never block the caller.
func (d *DB) tune(ctx context.Context) {
	d.tuneOnce.Do(func() {
		var stmts []string
		switch d.dialect {
		case DialectSQLite:
			stmts = []string{
				"PRAGMA busy_timeout = " + strconv.FormatInt(d.opts.BusyTimeout.Milliseconds(), 10),
				"PRAGMA journal_mode = " + d.opts.JournalMode,
				"PRAGMA synchronous = " + d.opts.Synchronous,
				"PRAGMA cache_size = -" + strconv.Itoa(d.opts.CacheSizeKB),
			}
			if d.opts.ForeignKeys {
				stmts = append(stmts, "PRAGMA foreign_keys = ON")
			}
		case DialectPostgres:
			if d.opts.StatementTimeout > 0 {
				stmts = []string{
					"SET statement_timeout = " + strconv.FormatInt(d.opts.StatementTimeout.Milliseconds(), 10),
				}
			}
		}

		for _, stmt := range stmts {
			if _, err := d.db.ExecContext(ctx, stmt); err != nil {
				d.logger.Warn("session tuning statement failed", "statement", stmt, "error", err)
			}
		}
	})
}

// scanRow reads the current cursor position into a Row.
func scanRow(rows *sql.Rows) (Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := make(Row, len(columns))
	for i, col := range columns {
		if b, ok := values[i].([]byte); ok {
			row[col] = string(b)
		} else {
			row[col] = values[i]
		}
	}
	return row, nil
}
