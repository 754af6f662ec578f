package log

import "context"

// Sink is the interface applications implement to receive instrumentation events.
type Sink interface {
	// Log records an event. Implementations must be thread-safe.
	// Log is called synchronously on the instrumented call path; blocking
	// here delays the caller.
	Log(ctx context.Context, event Event)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(ctx context.Context, event Event)

// Log calls f(ctx, event).
func (f SinkFunc) Log(ctx context.Context, event Event) {
	f(ctx, event)
}

// NoopSink discards all events.
// NoopSink is safe for concurrent use and usable as a zero value.
type NoopSink struct{}

// Log discards the event.
func (NoopSink) Log(context.Context, Event) {}

// Compile-time interface satisfaction checks.
var (
	_ Sink = NoopSink{}
	_ Sink = SinkFunc(nil)
)
