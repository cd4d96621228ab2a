package economy

import (
	"errors"
	"fmt"
)

// ErrFatal marks construction errors that must abort initialization.
var ErrFatal = errors.New("fatal simulation error")

// FatalError wraps a construction failure so callers can match ErrFatal.
type FatalError struct {
	Op     string
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *FatalError) Is(target error) bool { return target == ErrFatal }

// Fatalf builds a FatalError.
func Fatalf(op, format string, args ...any) error {
	return &FatalError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
