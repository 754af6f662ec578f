// Package log defines the sink contract for instrumentation events.
//
// An interceptor renders each observation of an instrumented call (entry,
// successful return, failure, elapsed time) into an Event and hands it to a
// Sink. The package is separate from the application's own operational
// logging: a Sink decides how events are written, the interceptor only
// decides what is observed.
//
// # Basic Usage
//
// Applications choose a Sink implementation:
//
//	// Write events through slog, one channel per severity level
//	sink := log.NewSlogSink(slog.Default())
//
//	// Keep events in memory (tests, interactive inspection)
//	rec := log.NewRecorder(0)
//
//	// Disable output entirely
//	var sink log.Sink = log.NoopSink{}
//
// # Event Kinds
//
// Every instrumented call produces exactly one KindEntry event followed by
// either KindSuccess and KindTiming, or a single KindFailure. Failure events
// carry the original error in Event.Err for sinks that can render detail.
package log
