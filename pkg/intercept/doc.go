// Package intercept wraps operations so that their invocation, outcome and
// execution time are reported to a log.Sink.
//
// # Protocol
//
// For every intercepted call the Interceptor emits, in order:
//
//  1. one ENTRY event with the operation name and arguments, then runs the target;
//  2. on success, one SUCCESS event with the result and one TIMING event with
//     the elapsed milliseconds;
//  3. on failure (non-nil error, panic or runtime.Goexit), one FAILURE event
//     on the ERROR channel, and nothing else.
//
// The target's result and error are returned exactly as the target produced
// them, and a panic is re-raised with the identical value. ENTRY, SUCCESS and
// TIMING use the level read from the LevelSource at the start of the call;
// FAILURE always uses severity.LevelError.
//
// # Selection
//
// A Gate decides per call site whether wrapping is active. When the global
// flag is off, or the Selector does not select the operation, Call and the
// Func decorators invoke the target directly without reading the clock or
// rendering any message:
//
//	reg := intercept.NewRegistry("inventory.Lookup")
//	ic := intercept.New(log.NewSlogSink(logger), store,
//	    intercept.WithGate(intercept.NewGate(store, reg)))
//
//	lookup := intercept.Func1(ic, "inventory.Lookup", inv.Lookup)
//	qty, err := lookup(ctx, "sku-42")
//
// # Sink failures
//
// A panicking sink never affects the intercepted call. The panic is
// recovered, counted (see Interceptor.Dropped) and passed to the handler set
// with WithEmitErrorHandler.
package intercept
