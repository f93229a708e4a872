package gtimer

import (
	"fmt"

	"github.com/pkg/errors"
)

// PreconditionError signals a caller bug: an operation invoked off-strand,
// a duration out of range, or a Close with outstanding work. TimerCore and
// SerialStrand.Close raise it as a panic, mirroring the assertion-failure
// class of bug the original's assert() calls guarded against;
// NewSerialStrand returns it, wrapped, as an error for a non-positive
// queue size.
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("gtimer: precondition violated in %s: %s", e.Op, e.Msg)
}

func newPreconditionError(op, msg string) error {
	return errors.WithStack(&PreconditionError{Op: op, Msg: msg})
}
