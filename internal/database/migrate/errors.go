package migrate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName indicates a migration file that does not follow the
	// {NNNN}_{description}.sql naming convention.
	ErrInvalidName = errors.New("invalid migration file name")

	// ErrDuplicateName indicates two migration files sharing a name.
	ErrDuplicateName = errors.New("duplicate migration name")

	// ErrEmptyUnit indicates a migration file with no executable statements.
	ErrEmptyUnit = errors.New("migration contains no executable statements")

	// ErrExecution indicates a statement failed and was not ignorable.
	ErrExecution = errors.New("migration execution failed")
)

// UnitError carries the context a fatal migration failure is reported with:
// the offending unit, the statement that failed, and the stage it failed at.
type UnitError struct {
	Name      string
	Statement string
	Op        string
	Err       error
}

func (e *UnitError) Error() string {
	if e.Statement != "" {
		return fmt.Sprintf("migration %s: %s: %q: %v", e.Name, e.Op, e.Statement, e.Err)
	}
	return fmt.Sprintf("migration %s: %s: %v", e.Name, e.Op, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

func (e *UnitError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
