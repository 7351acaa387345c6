package thread

import (
	"errors"
	"fmt"
)

// Manager errors.
var (
	ErrUninitialized   = errors.New("thread stack not initialized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("thread stack internal error")
	ErrNotImplemented  = errors.New("not implemented")
)

// StackError reports a native stack call that failed.
// It matches ErrInternal with errors.Is.
type StackError struct {
	// Op names the native call, e.g. "attach".
	Op string

	// Status is the native status returned.
	Status Status
}

func (e *StackError) Error() string {
	return fmt.Sprintf("thread %s failed: %s", e.Op, e.Status)
}

// Is makes errors.Is(err, ErrInternal) true for native failures.
func (e *StackError) Is(target error) bool {
	return target == ErrInternal
}

// stackErr returns nil when status counts as success for op.
func stackErr(op string, status Status, alreadyDoneOK bool) error {
	if status == StatusNone || (alreadyDoneOK && status == StatusAlreadyDone) {
		return nil
	}
	return &StackError{Op: op, Status: status}
}

// SoftFailure records a best-effort native call that failed without
// aborting the operation that issued it.
type SoftFailure struct {
	Op     string
	Status Status
}

func (f SoftFailure) String() string {
	return fmt.Sprintf("%s: %s", f.Op, f.Status)
}

// Err converts the soft failure to a StackError.
func (f SoftFailure) Err() error {
	return &StackError{Op: f.Op, Status: f.Status}
}
