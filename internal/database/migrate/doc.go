// Package migrate applies file-based schema migrations against either
// backend supported by the database package.
//
// Migration units live one per file in a directory, named
// {NNNN}_{description}.sql with a fixed-width numeric prefix that encodes
// the application order. Each unit is applied inside its own transaction:
// it either commits fully, together with its ledger row, or leaves no
// durable trace. Re-running the runner against an already-migrated store
// is a no-op.
//
// The runner owns the dialect differences the migration path cares about:
// SQLite-only rewriting of PostgreSQL constructs, a column-existence guard
// standing in for ADD COLUMN IF NOT EXISTS, and a classifier that lets
// known "already applied" errors pass on the embedded engine.
package migrate
