package interactive

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logstarter/logstarter-go/pkg/config"
	"github.com/logstarter/logstarter-go/pkg/intercept"
	"github.com/logstarter/logstarter-go/pkg/log"
	"github.com/logstarter/logstarter-go/pkg/severity"
)

// echoRunner instruments a single "echo" operation.
type echoRunner struct {
	ic *intercept.Interceptor
}

func (r *echoRunner) Commands() []string { return []string{"echo <word>"} }

func (r *echoRunner) Run(ctx context.Context, cmd string, args []string) (string, error) {
	if cmd != "echo" {
		return "", errors.New("unknown operation: " + cmd)
	}
	return intercept.Call(ctx, r.ic, "demo.Echo", []any{strings.Join(args, " ")}, func() (string, error) {
		return strings.Join(args, " "), nil
	})
}

type fixture struct {
	shell *Shell
	out   *bytes.Buffer
	store *config.Store
	reg   *intercept.Registry
	rec   *log.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := config.NewStore(config.Default())
	reg := intercept.NewRegistry()
	rec := log.NewRecorder(0)
	ic := intercept.New(rec, store, intercept.WithGate(intercept.NewGate(store, reg.OrAll())))

	out := &bytes.Buffer{}
	shell := newShell(Options{
		Runner:   &echoRunner{ic: ic},
		Store:    store,
		Registry: reg,
		Recorder: rec,
	}, out)

	return &fixture{shell: shell, out: out, store: store, reg: reg, rec: rec}
}

func (f *fixture) exec(t *testing.T, line string) string {
	t.Helper()
	f.out.Reset()
	require.True(t, f.shell.Execute(context.Background(), line))
	return f.out.String()
}

func TestShellCall(t *testing.T) {
	f := newFixture(t)

	out := f.exec(t, "call echo hello")
	assert.Equal(t, "=> hello\n", out)
	assert.Equal(t, []string{
		"Before method: demo.Echo with args [hello]",
		"AfterReturning from method: demo.Echo with result: hello",
		"Around method: demo.Echo executed in 0 ms",
	}, normalizeTiming(f.rec.Messages()))
}

func TestShellCallError(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Usage: call <op> [args]\n", f.exec(t, "call"))
	assert.Equal(t, "Error: unknown operation: nope\n", f.exec(t, "call nope"))
}

func TestShellLevel(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Level: INFO (enabled: true)\n", f.exec(t, "level"))
	assert.Equal(t, "Level set to TRACE\n", f.exec(t, "level trace"))
	assert.Equal(t, severity.LevelTrace, f.store.Level())

	assert.Contains(t, f.exec(t, "level loud"), "Error:")
	assert.Equal(t, severity.LevelTrace, f.store.Level())
}

func TestShellEnableDisable(t *testing.T) {
	f := newFixture(t)

	f.exec(t, "disable")
	assert.False(t, f.store.Enabled())
	f.exec(t, "call echo quiet")
	assert.Zero(t, f.rec.Len(), "disabled instrumentation must not emit")

	f.exec(t, "enable")
	f.exec(t, "call echo loud")
	assert.Equal(t, 3, f.rec.Len())
}

func TestShellMarkUnmark(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "All operations selected\n", f.exec(t, "ops"))

	f.exec(t, "mark other.Op")
	f.exec(t, "call echo skipped")
	assert.Zero(t, f.rec.Len(), "unselected operation must not emit")

	f.exec(t, "mark demo.Echo")
	assert.Equal(t, "  demo.Echo\n  other.Op\n", f.exec(t, "ops"))
	f.exec(t, "call echo seen")
	assert.Equal(t, 3, f.rec.Len())

	f.exec(t, "unmark demo.Echo")
	assert.Equal(t, []string{"other.Op"}, f.reg.Operations())

	assert.Equal(t, "Usage: mark <op>\n", f.exec(t, "mark"))
	assert.Equal(t, "Usage: unmark <op>\n", f.exec(t, "unmark a b"))
}

func TestShellHistory(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "No events recorded\n", f.exec(t, "history"))

	f.exec(t, "call echo one")
	out := f.exec(t, "history 1")
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "TIMING")

	out = f.exec(t, "history")
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Contains(t, out, "Before method: demo.Echo with args [one]")

	assert.Equal(t, "Invalid count: x\n", f.exec(t, "history x"))
}

func TestShellHistoryWithoutRecorder(t *testing.T) {
	f := newFixture(t)
	f.shell.opts.Recorder = nil

	assert.Contains(t, f.exec(t, "history"), "-sink memory")
}

func TestShellHelpAndUnknown(t *testing.T) {
	f := newFixture(t)

	out := f.exec(t, "help")
	assert.Contains(t, out, "Logstarter Demo Commands")
	assert.Contains(t, out, "echo <word>")

	assert.Contains(t, f.exec(t, "frobnicate"), "Unknown command: frobnicate")
	assert.Empty(t, f.exec(t, "   "))
}

func TestShellQuit(t *testing.T) {
	f := newFixture(t)

	for _, cmd := range []string{"quit", "exit", "q", "QUIT"} {
		assert.False(t, f.shell.Execute(context.Background(), cmd), cmd)
	}
}

// normalizeTiming pins the elapsed time in timing messages to 0 ms.
func normalizeTiming(msgs []string) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		if strings.HasPrefix(m, "Around method: ") {
			m = m[:strings.LastIndex(m, " in ")] + " in 0 ms"
		}
		out[i] = m
	}
	return out
}
