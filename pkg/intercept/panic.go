package intercept

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrGoexit reports a target that terminated its goroutine with
// runtime.Goexit instead of returning.
var ErrGoexit = errors.New("target exited without returning")

// PanicError describes a target that panicked. It is only used to render
// the FAILURE event; the caller sees the original panic value.
type PanicError struct {
	// Value is the value passed to panic.
	Value any

	stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprint(e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Stack returns the stack of the panicking goroutine.
func (e *PanicError) Stack() []byte {
	return e.stack
}

// newAbortError converts the result of recover in a deferred call into the
// error reported for a target that did not return.
func newAbortError(recovered any) error {
	if recovered == nil {
		return ErrGoexit
	}
	return &PanicError{Value: recovered, stack: debug.Stack()}
}
