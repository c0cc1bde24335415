package txingest

import (
	"errors"
	"fmt"
)

// StructuralError reports a problem with the input file itself: it cannot be
// opened, is not valid CSV, or a mapped column is absent. The whole import
// stops on a StructuralError.
type StructuralError struct {
	Msg string
	Err error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *StructuralError) Unwrap() error { return e.Err }

// PersistenceError reports a failure while committing staged rows.
// Nothing was written when it is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrEditRejected is returned by Grid.FieldEdited when the edited value
// cannot be coerced to the column type.
var ErrEditRejected = errors.New("edit rejected")

// ErrUnknownAccount is wrapped in a PersistenceError when a staged row names
// an account the repository does not know.
var ErrUnknownAccount = errors.New("account not found")
