package intercept

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/logstarter/logstarter-go/pkg/format"
	"github.com/logstarter/logstarter-go/pkg/log"
	"github.com/logstarter/logstarter-go/pkg/severity"
)

// LevelSource supplies the configured emission level.
// Implementations that support reload must return a consistent value
// from concurrent calls.
type LevelSource interface {
	Level() severity.Level
}

// StaticLevel is a LevelSource that never changes.
type StaticLevel severity.Level

// Level returns l.
func (l StaticLevel) Level() severity.Level {
	return severity.Level(l)
}

// Invocation identifies one intercepted call. It is created after the
// ENTRY event, when the start time is captured, and never modified.
type Invocation struct {
	ID        string
	Operation string
	Args      []any
	Start     time.Time
}

// Interceptor emits instrumentation events around target invocations.
// It is safe for concurrent use; invocations share no mutable state other
// than the dropped-event counter.
type Interceptor struct {
	sink        log.Sink
	level       LevelSource
	gate        *Gate
	now         func() time.Time
	newID       func() string
	onEmitError func(event log.Event, recovered any)

	dropped atomic.Uint64
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithGate sets the gate consulted by Call, CallErr and the Func decorators.
// Without a gate every operation is routed through the interceptor.
func WithGate(g *Gate) Option {
	return func(ic *Interceptor) { ic.gate = g }
}

// WithClock replaces time.Now for start and elapsed measurement.
func WithClock(now func() time.Time) Option {
	return func(ic *Interceptor) {
		if now != nil {
			ic.now = now
		}
	}
}

// WithIDGenerator replaces the invocation ID generator (random UUIDs by default).
func WithIDGenerator(newID func() string) Option {
	return func(ic *Interceptor) {
		if newID != nil {
			ic.newID = newID
		}
	}
}

// WithEmitErrorHandler sets a function called with the event and the
// recovered value whenever the sink panics.
func WithEmitErrorHandler(fn func(event log.Event, recovered any)) Option {
	return func(ic *Interceptor) { ic.onEmitError = fn }
}

// New creates an Interceptor writing to sink at the level supplied by level.
// A nil sink discards events; a nil level source uses severity.LevelInfo.
func New(sink log.Sink, level LevelSource, opts ...Option) *Interceptor {
	if sink == nil {
		sink = log.NoopSink{}
	}
	if level == nil {
		level = StaticLevel(severity.LevelInfo)
	}
	ic := &Interceptor{
		sink:  sink,
		level: level,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(ic)
	}
	return ic
}

// Routes reports whether op is routed through the interceptor.
// A nil Interceptor routes nothing.
func (ic *Interceptor) Routes(op string) bool {
	return ic != nil && ic.gate.Route(op)
}

// Dropped returns the number of events whose emission panicked.
func (ic *Interceptor) Dropped() uint64 {
	return ic.dropped.Load()
}

// Intercept runs target and reports it to ic's sink. It does not consult
// the gate; use Call for gated invocation.
//
// The returned value and error are the ones target returned. If target
// panics, the FAILURE event is emitted and the panic continues with the
// same value. A nil target panics immediately.
func Intercept[T any](ctx context.Context, ic *Interceptor, op string, args []any, target func() (T, error)) (T, error) {
	if target == nil {
		panic("intercept: nil target for operation " + op)
	}

	level := ic.level.Level()
	id := ic.newID()

	ic.emit(ctx, log.Event{
		InvocationID: id,
		Operation:    op,
		Kind:         log.KindEntry,
		Level:        level,
		Message:      format.Entry(op, args),
	})

	inv := Invocation{ID: id, Operation: op, Args: args, Start: ic.now()}

	returned := false
	defer func() {
		if returned {
			return
		}
		r := recover()
		ic.failure(ctx, inv, newAbortError(r))
		if r != nil {
			panic(r)
		}
	}()

	result, err := target()
	returned = true

	if err != nil {
		ic.failure(ctx, inv, err)
		return result, err
	}

	ic.emit(ctx, log.Event{
		InvocationID: id,
		Operation:    op,
		Kind:         log.KindSuccess,
		Level:        level,
		Message:      format.Success(op, result),
	})

	elapsed := ic.now().Sub(inv.Start)
	ic.emit(ctx, log.Event{
		InvocationID: id,
		Operation:    op,
		Kind:         log.KindTiming,
		Level:        level,
		Message:      format.Timing(op, elapsed),
		Elapsed:      elapsed,
	})

	return result, nil
}

// Do is Intercept for operations without a result. The SUCCESS event
// renders the result as <nil>.
func Do(ctx context.Context, ic *Interceptor, op string, args []any, target func() error) error {
	if target == nil {
		panic("intercept: nil target for operation " + op)
	}
	_, err := Intercept(ctx, ic, op, args, func() (any, error) {
		return nil, target()
	})
	return err
}

// Call runs target through the interceptor when the gate routes op, and
// invokes it directly otherwise.
func Call[T any](ctx context.Context, ic *Interceptor, op string, args []any, target func() (T, error)) (T, error) {
	if !ic.Routes(op) {
		return target()
	}
	return Intercept(ctx, ic, op, args, target)
}

// CallErr is Call for operations without a result.
func CallErr(ctx context.Context, ic *Interceptor, op string, args []any, target func() error) error {
	if !ic.Routes(op) {
		return target()
	}
	return Do(ctx, ic, op, args, target)
}

func (ic *Interceptor) failure(ctx context.Context, inv Invocation, err error) {
	ic.emit(ctx, log.Event{
		InvocationID: inv.ID,
		Operation:    inv.Operation,
		Kind:         log.KindFailure,
		Level:        severity.LevelError,
		Message:      format.Failure(inv.Operation, format.ErrorMessage(err)),
		Err:          err,
	})
}

// emit hands one event to the sink. A panicking sink is contained here.
func (ic *Interceptor) emit(ctx context.Context, event log.Event) {
	event.Timestamp = ic.now()
	defer func() {
		if r := recover(); r != nil {
			ic.dropped.Add(1)
			ic.reportEmitError(event, r)
		}
	}()
	ic.sink.Log(ctx, event)
}

func (ic *Interceptor) reportEmitError(event log.Event, r any) {
	if ic.onEmitError == nil {
		return
	}
	defer func() { _ = recover() }()
	ic.onEmitError(event, r)
}
