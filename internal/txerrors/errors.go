// Package txerrors defines the error kinds the transactional core
// distinguishes between: IoError, Corrupt, OutOfBounds, BufferAbort,
// LockAbort, and SchemaError. Each kind is its own type so callers can
// recover it with errors.As after github.com/pkg/errors has wrapped it
// with stack context.
package txerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// IoError wraps an underlying OS failure observed during block I/O.
// It is generally fatal to the current operation, not to the process.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string { return "io: " + e.Op + ": " + e.Err.Error() }
func (e *IoError) Unwrap() error { return e.Err }

// NewIoError wraps err with stack context and the failing operation name.
func NewIoError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Op: op, Err: errors.Wrap(err, op)}
}

// Corrupt indicates a malformed page or log record: a bad discriminator,
// a truncated record, or invalid UTF-8 in a string field.
type Corrupt struct {
	Reason string
}

func (e *Corrupt) Error() string { return "corrupt: " + e.Reason }

func NewCorrupt(reason string) error {
	return errors.WithStack(&Corrupt{Reason: reason})
}

// OutOfBounds indicates a page operation ran past the block's capacity.
// This is a programmer error: it should never occur at runtime against
// a correctly computed offset.
type OutOfBounds struct {
	Offset, Length, Capacity int
}

func (e *OutOfBounds) Error() string {
	return fmt.Sprintf("out of bounds: offset %d, length %d, capacity %d",
		e.Offset, e.Length, e.Capacity)
}

func NewOutOfBounds(offset, length, capacity int) error {
	return errors.WithStack(&OutOfBounds{Offset: offset, Length: length, Capacity: capacity})
}

// BufferAbort indicates a pinned frame could not be obtained within the
// buffer manager's timeout.
type BufferAbort struct {
	Waited string
}

func (e *BufferAbort) Error() string { return "buffer abort: timed out after " + e.Waited }

func NewBufferAbort(waited string) error {
	return errors.WithStack(&BufferAbort{Waited: waited})
}

// LockAbort indicates a lock could not be acquired within the lock
// table's timeout. The caller must roll back.
type LockAbort struct {
	Block string
}

func (e *LockAbort) Error() string { return "lock abort: timed out waiting for " + e.Block }

func NewLockAbort(block string) error {
	return errors.WithStack(&LockAbort{Block: block})
}

// SchemaError indicates a field was not present in a layout or schema.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string { return "schema error: unknown field " + e.Field }

func NewSchemaError(field string) error {
	return errors.WithStack(&SchemaError{Field: field})
}
