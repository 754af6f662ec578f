package intercept

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/logstarter/logstarter-go/pkg/log"
	"github.com/logstarter/logstarter-go/pkg/severity"
)

// fakeClock only moves when Advance is called.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	calls atomic.Int64
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.calls.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequentialIDs returns "inv-1", "inv-2", ...
func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return "inv-" + strconv.FormatInt(n.Add(1), 10)
	}
}

// newTestInterceptor returns an interceptor writing to a Recorder with a
// fake clock and predictable invocation IDs.
func newTestInterceptor(t *testing.T, level severity.Level, opts ...Option) (*Interceptor, *log.Recorder, *fakeClock) {
	t.Helper()
	rec := log.NewRecorder(0)
	clock := newFakeClock()
	all := append([]Option{WithClock(clock.Now), WithIDGenerator(sequentialIDs())}, opts...)
	return New(rec, StaticLevel(level), all...), rec, clock
}

func kinds(events []log.Event) []log.Kind {
	out := make([]log.Kind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

// panicSink panics on every event.
type panicSink struct{ calls atomic.Int64 }

func (s *panicSink) Log(_ context.Context, _ log.Event) {
	s.calls.Add(1)
	panic("sink unavailable")
}
