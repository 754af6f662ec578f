package log

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/logstarter/logstarter-go/pkg/severity"
)

// SlogSink writes instrumentation events to an slog.Logger.
// Each event is emitted on the channel of its Level through a severity.Policy.
type SlogSink struct {
	policy *severity.Policy
}

// NewSlogSink creates a SlogSink that writes to the given slog.Logger.
// A nil logger uses slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{policy: severity.NewPolicy(logger)}
}

// NewPolicySink creates a SlogSink backed by an existing policy.
func NewPolicySink(policy *severity.Policy) *SlogSink {
	return &SlogSink{policy: policy}
}

// Log writes the event message with its identifiers as attributes.
func (s *SlogSink) Log(ctx context.Context, event Event) {
	attrs := []slog.Attr{
		slog.String("op", event.Operation),
		slog.String("kind", event.Kind.String()),
	}
	if event.InvocationID != "" {
		attrs = append(attrs, slog.String("invocation_id", event.InvocationID))
	}

	switch event.Kind {
	case KindTiming:
		attrs = append(attrs, slog.Int64("elapsed_ms", event.Elapsed.Milliseconds()))
	case KindFailure:
		if event.Err != nil {
			attrs = append(attrs, errorAttrs(event.Err)...)
		}
	}

	s.policy.Emit(ctx, event.Level, event.Message, attrs...)
}

// stackTracer is implemented by errors that captured a goroutine stack.
type stackTracer interface {
	Stack() []byte
}

func errorAttrs(err error) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("error", fmt.Sprint(err)),
		slog.String("error_type", fmt.Sprintf("%T", err)),
	}
	if chain := CauseChain(err); len(chain) > 1 {
		attrs = append(attrs, slog.Any("error_chain", chain))
	}
	if stack := stackOf(err); stack != nil {
		attrs = append(attrs, slog.String("stack", string(stack)))
	}
	return attrs
}

// stackOf returns the stack captured by err or one of its causes.
// Errors whose Unwrap or As methods panic report no stack.
func stackOf(err error) (stack []byte) {
	defer func() {
		if recover() != nil {
			stack = nil
		}
	}()
	var st stackTracer
	if errors.As(err, &st) {
		return st.Stack()
	}
	return nil
}

// CauseChain returns the messages of err and every error it wraps,
// outermost first. Joined errors are walked depth-first. The walk stops at
// an Unwrap method that panics, such as one called on a typed nil pointer.
func CauseChain(err error) []string {
	var chain []string
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		chain = append(chain, fmt.Sprint(e))
		for _, inner := range unwrap(e) {
			walk(inner)
		}
	}
	walk(err)
	return chain
}

func unwrap(e error) (inner []error) {
	defer func() {
		if recover() != nil {
			inner = nil
		}
	}()
	switch u := e.(type) {
	case interface{ Unwrap() error }:
		return []error{u.Unwrap()}
	case interface{ Unwrap() []error }:
		return u.Unwrap()
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Sink = (*SlogSink)(nil)
