package log

import (
	"time"

	"github.com/logstarter/logstarter-go/pkg/severity"
)

// Event is one rendered observation of an instrumented call.
type Event struct {
	// Timestamp when the event was produced.
	Timestamp time.Time

	// InvocationID identifies the call within this process. All events of
	// one call share it.
	InvocationID string

	// Operation is the name of the instrumented operation.
	Operation string

	// Kind classifies the observation.
	Kind Kind

	// Level is the channel the event is emitted on. Failure events are
	// always severity.LevelError.
	Level severity.Level

	// Message is the rendered, human-readable text.
	Message string

	// Err is the operation's error (KindFailure only). It is the exact value
	// the operation produced and is handed back to the caller unchanged.
	Err error

	// Elapsed is the measured execution time (KindTiming only).
	Elapsed time.Duration
}

// Kind classifies an instrumentation event.
type Kind uint8

const (
	// KindEntry is emitted before the operation runs.
	KindEntry Kind = 0
	// KindSuccess is emitted after the operation returned normally.
	KindSuccess Kind = 1
	// KindFailure is emitted when the operation returned an error or panicked.
	KindFailure Kind = 2
	// KindTiming reports the elapsed time of a successful call.
	KindTiming Kind = 3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "ENTRY"
	case KindSuccess:
		return "SUCCESS"
	case KindFailure:
		return "FAILURE"
	case KindTiming:
		return "TIMING"
	default:
		return "UNKNOWN"
	}
}
