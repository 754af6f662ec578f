// Package format renders instrumentation messages.
//
// All functions are pure. Values are rendered with their default %v text;
// nothing is truncated or redacted.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Value renders a single argument or result.
func Value(v any) string {
	return fmt.Sprintf("%v", v)
}

// Args renders an argument list as "[a, b, c]". An empty list renders "[]".
func Args(args []any) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Value(a))
	}
	b.WriteByte(']')
	return b.String()
}

// Entry renders the message emitted before the operation runs.
func Entry(op string, args []any) string {
	return "Before method: " + op + " with args " + Args(args)
}

// Success renders the message emitted after the operation returned.
func Success(op string, result any) string {
	return "AfterReturning from method: " + op + " with result: " + Value(result)
}

// Failure renders the message emitted when the operation failed.
func Failure(op string, message string) string {
	return "Exception thrown in method: " + op + " with message: " + message
}

// ErrorMessage renders err for a failure message. Error methods that panic,
// including ones called on a typed nil pointer, are contained by fmt and
// rendered inline instead of escaping.
func ErrorMessage(err error) string {
	if err == nil {
		return "<nil>"
	}
	return fmt.Sprint(err)
}

// Timing renders the elapsed time message in whole milliseconds.
func Timing(op string, elapsed time.Duration) string {
	return fmt.Sprintf("Around method: %s executed in %d ms", op, Millis(elapsed))
}

// Millis truncates elapsed to whole milliseconds. Negative durations
// (clock adjustments) are clamped to zero.
func Millis(elapsed time.Duration) int64 {
	if elapsed < 0 {
		return 0
	}
	return elapsed.Milliseconds()
}
