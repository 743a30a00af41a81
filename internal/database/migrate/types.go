package migrate

import "time"

// Unit is one discrete, file-backed schema change. Identity is the Name;
// units are immutable once authored.
type Unit struct {
	// Name is the file name without the .sql suffix. It sorts
	// lexicographically into the global application order.
	Name string

	// Source is the path the unit was read from.
	Source string

	// SQL is the raw text of the unit before any dialect rewriting.
	SQL string
}

// Applied is a ledger entry: a unit name and the moment its transaction
// committed. The ledger retains entries even after the originating file is
// removed.
type Applied struct {
	Name      string
	AppliedAt time.Time
}

// Status describes the migration state of a store: what the ledger records
// as applied and which discovered units are still pending, in application
// order.
type Status struct {
	Applied []Applied
	Pending []Unit
}
