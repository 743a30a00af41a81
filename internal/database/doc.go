// Package database provides the process-wide connection to the relational
// backend and the query surface every other component goes through.
//
// Two backends are supported behind the same operation set: an embedded
// SQLite database (modernc.org/sqlite, file path or :memory: target) and a
// networked PostgreSQL database (jackc/pgx, postgres:// URL target). Callers
// write SQL with positional ? placeholders; the package translates them to
// the backend's native syntax before dispatch.
//
// The *DB handle is owned by the host process: constructed once at startup
// via Connect, closed once at shutdown. No other component opens its own
// connection.
package database
