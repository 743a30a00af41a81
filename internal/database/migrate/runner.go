package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/orderdesk/internal/database"
)

const (
	ledgerSQLite = `CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	ledgerPostgres = `CREATE TABLE IF NOT EXISTS schema_migrations (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	// advisoryLockKey serializes concurrently starting instances on the
	// networked engine. The embedded engine's file write lock covers the
	// same risk there.
	advisoryLockKey int64 = 0x6f72646472756e // "orddrun"
)

// Runner applies the migration units found in a directory against the
// connected backend, exactly once each, in name order.
type Runner struct {
	db     *database.DB
	dir    string
	logger *slog.Logger
}

// New builds a Runner. The logger may be nil, in which case slog.Default()
// is used.
func New(db *database.DB, dir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, dir: dir, logger: logger}
}

// Run executes the full migration procedure: ensure the ledger exists, load
// the applied set, discover units, and apply each unapplied unit in its own
// transaction. The first fatal failure rolls its unit back and aborts the
// run; the host must not serve traffic after a failed Run.
//
// Run is strictly sequential and must finish before any other component
// issues queries.
func (r *Runner) Run(ctx context.Context) error {
	logger := r.logger.With("run_id", uuid.NewString())
	start := time.Now()

	if r.db.Dialect() == database.DialectPostgres {
		unlock, err := r.acquireLock(ctx)
		if err != nil {
			return fmt.Errorf("acquire migration lock: %w", err)
		}
		defer unlock()
	}

	if err := r.ensureLedger(ctx); err != nil {
		return err
	}

	applied, err := r.appliedNames(ctx)
	if err != nil {
		return err
	}

	units, err := Scan(r.dir)
	if err != nil {
		return err
	}
	logger.Info("migration runner starting", "dialect", r.db.Dialect(), "discovered", len(units), "applied", len(applied))

	ran := 0
	for _, unit := range units {
		if applied[unit.Name] {
			logger.Debug("migration already applied", "unit", unit.Name)
			continue
		}
		if err := r.applyUnit(ctx, logger, unit); err != nil {
			logger.Error("migration failed", "unit", unit.Name, "error", err)
			return err
		}
		ran++
	}

	logger.Info("migration runner finished", "ran", ran, "elapsed", time.Since(start))
	return nil
}

// Status reports the ledger's applied entries and the discovered units not
// yet applied, both in application order.
func (r *Runner) Status(ctx context.Context) (Status, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return Status{}, err
	}

	rows, err := r.db.All(ctx, "SELECT name, applied_at FROM schema_migrations ORDER BY name ASC")
	if err != nil {
		return Status{}, fmt.Errorf("read migration ledger: %w", err)
	}

	status := Status{Applied: make([]Applied, 0, len(rows))}
	appliedSet := make(map[string]bool, len(rows))
	for _, row := range rows {
		name, _ := row["name"].(string)
		status.Applied = append(status.Applied, Applied{
			Name:      name,
			AppliedAt: parseAppliedAt(row["applied_at"]),
		})
		appliedSet[name] = true
	}

	units, err := Scan(r.dir)
	if err != nil {
		return Status{}, err
	}
	status.Pending = make([]Unit, 0)
	for _, unit := range units {
		if !appliedSet[unit.Name] {
			status.Pending = append(status.Pending, unit)
		}
	}
	return status, nil
}

// applyUnit runs one unit inside a transaction: dialect rewriting, statement
// split, guarded and classified execution, and the ledger insert. Commit
// happens only when every statement has been handled; any fatal error leaves
// no durable trace of the unit.
func (r *Runner) applyUnit(ctx context.Context, logger *slog.Logger, unit Unit) error {
	embedded := r.db.Dialect() == database.DialectSQLite

	text := unit.SQL
	if embedded {
		text = rewriteForSQLite(text)
	}

	statements := Split(text)
	if len(statements) == 0 {
		return &UnitError{Name: unit.Name, Op: "split", Err: ErrEmptyUnit}
	}

	logger.Info("applying migration", "unit", unit.Name, "statements", len(statements))
	start := time.Now()

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range statements {
			if embedded {
				if table, column, ok := columnAddTarget(stmt); ok {
					exists, err := columnExists(ctx, tx, table, column)
					if err != nil {
						return &UnitError{Name: unit.Name, Statement: stmt, Op: "inspect schema", Err: err}
					}
					if exists {
						logger.Info("column already present, skipping statement",
							"unit", unit.Name, "table", table, "column", column)
						continue
					}
				}
			}

			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				if embedded && Ignorable(stmt, err) {
					logger.Warn("ignorable migration error, continuing",
						"unit", unit.Name, "statement", stmt, "error", err)
					continue
				}
				return &UnitError{Name: unit.Name, Statement: stmt, Op: "execute", Err: fmt.Errorf("%w: %v", ErrExecution, err)}
			}
		}

		insert := database.TranslatePlaceholders(r.db.Dialect(),
			"INSERT INTO schema_migrations (name) VALUES (?)")
		if _, err := tx.ExecContext(ctx, insert, unit.Name); err != nil {
			return &UnitError{Name: unit.Name, Op: "record in ledger", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("migration applied", "unit", unit.Name, "elapsed", time.Since(start))
	return nil
}

// ensureLedger creates the ledger table when missing. Idempotent.
func (r *Runner) ensureLedger(ctx context.Context) error {
	ddl := ledgerSQLite
	if r.db.Dialect() == database.DialectPostgres {
		ddl = ledgerPostgres
	}
	if err := r.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create migration ledger: %w", err)
	}
	return nil
}

// appliedNames loads the set of unit names the ledger records as applied.
func (r *Runner) appliedNames(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.All(ctx, "SELECT name FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	applied := make(map[string]bool, len(rows))
	for _, row := range rows {
		if name, ok := row["name"].(string); ok {
			applied[name] = true
		}
	}
	return applied, nil
}

// acquireLock takes a session-scoped advisory lock on a dedicated
// connection, so two instances starting at once cannot race to apply the
// same unit. The returned function releases the lock and the connection.
func (r *Runner) acquireLock(ctx context.Context) (func(), error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", advisoryLockKey); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return func() {
		if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockKey); err != nil {
			r.logger.Warn("failed to release migration lock", "error", err)
		}
		_ = conn.Close()
	}, nil
}

// parseAppliedAt normalizes the ledger timestamp across backends: the
// networked engine yields time.Time, the embedded engine stores text.
func parseAppliedAt(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
