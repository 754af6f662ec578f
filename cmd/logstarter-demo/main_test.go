package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logstarter/logstarter-go/pkg/config"
	"github.com/logstarter/logstarter-go/pkg/intercept"
	"github.com/logstarter/logstarter-go/pkg/log"
	"github.com/logstarter/logstarter-go/pkg/severity"
)

func newInstrumented(t *testing.T) (*instrumentedInventory, *log.Recorder) {
	t.Helper()
	rec := log.NewRecorder(0)
	ic := intercept.New(rec, intercept.StaticLevel(severity.LevelDebug))
	return instrument(ic, NewInventory()), rec
}

func TestInventoryLookup(t *testing.T) {
	inv, rec := newInstrumented(t)

	got, err := inv.Run(context.Background(), "lookup", []string{"apple"})
	require.NoError(t, err)
	assert.Equal(t, "12", got)

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "Before method: inventory.Lookup with args [apple]", events[0].Message)
	assert.Equal(t, "AfterReturning from method: inventory.Lookup with result: 12", events[1].Message)
	assert.Equal(t, log.KindTiming, events[2].Kind)
	for _, e := range events {
		assert.Equal(t, severity.LevelDebug, e.Level)
	}
}

func TestInventoryLookupUnknown(t *testing.T) {
	inv, rec := newInstrumented(t)

	_, err := inv.Run(context.Background(), "lookup", []string{"durian"})
	assert.ErrorIs(t, err, ErrUnknownSKU)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, log.KindFailure, events[1].Kind)
	assert.Equal(t, severity.LevelError, events[1].Level)
	assert.Equal(t, `Exception thrown in method: inventory.Lookup with message: lookup "durian": unknown sku`, events[1].Message)
}

func TestInventoryReserve(t *testing.T) {
	inv, rec := newInstrumented(t)
	ctx := context.Background()

	id, err := inv.Run(ctx, "reserve", []string{"banana", "2"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, "Before method: inventory.Reserve with args [banana, 2]", rec.Messages()[0])

	left, err := inv.Run(ctx, "lookup", []string{"banana"})
	require.NoError(t, err)
	assert.Equal(t, "1", left)

	_, err = inv.Run(ctx, "reserve", []string{"banana", "2"})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = inv.Run(ctx, "reserve", []string{"banana", "two"})
	assert.EqualError(t, err, `invalid quantity "two"`)
}

func TestInventoryRestock(t *testing.T) {
	inv, rec := newInstrumented(t)

	got, err := inv.Run(context.Background(), "restock", []string{"cherry"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "AfterReturning from method: inventory.Restock with result: <nil>", rec.Messages()[1])
}

func TestInventoryAuditCancelled(t *testing.T) {
	inv, rec := newInstrumented(t)

	_, err := inv.Run(context.Background(), "audit", []string{"200", "10"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, log.KindFailure, events[1].Kind)
	assert.True(t, errors.Is(events[1].Err, context.DeadlineExceeded))
}

func TestInventoryAudit(t *testing.T) {
	inv, _ := newInstrumented(t)

	got, err := inv.Run(context.Background(), "audit", []string{"0"})
	require.NoError(t, err)
	assert.Equal(t, "apple,banana,cherry", got)
}

func TestInventoryUsageErrors(t *testing.T) {
	inv, rec := newInstrumented(t)
	ctx := context.Background()

	tests := []struct {
		cmd  string
		args []string
	}{
		{"lookup", nil},
		{"reserve", []string{"apple"}},
		{"restock", []string{"a", "b"}},
		{"audit", nil},
		{"audit", []string{"x"}},
		{"audit", []string{"1", "y"}},
		{"sell", nil},
	}
	for _, tt := range tests {
		_, err := inv.Run(ctx, tt.cmd, tt.args)
		assert.Error(t, err, "%s %v", tt.cmd, tt.args)
	}
	assert.Zero(t, rec.Len(), "usage errors must not reach the interceptor")
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv(config.EnvEnabled, "")
	t.Setenv(config.EnvLevel, "")

	path := filepath.Join(t.TempDir(), "logstarter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logstarter:\n  level: WARN\n  operations: [a.B]\n"), 0o644))

	cfg, err := loadConfig(path, Config{})
	require.NoError(t, err)
	assert.Equal(t, severity.LevelWarn, cfg.Level)
	assert.Equal(t, []string{"a.B"}, cfg.Operations)

	cfg, err = loadConfig(path, Config{Level: "trace", Disabled: true, Ops: "x.Y, ,z.W"})
	require.NoError(t, err)
	assert.Equal(t, severity.LevelTrace, cfg.Level)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, []string{"x.Y", "z.W"}, cfg.Operations)

	_, err = loadConfig(path, Config{Level: "loud"})
	assert.ErrorIs(t, err, severity.ErrUnknownLevel)
}

func TestWatcherReloadKeepsFlagOverrides(t *testing.T) {
	t.Setenv(config.EnvEnabled, "")
	t.Setenv(config.EnvLevel, "")

	path := filepath.Join(t.TempDir(), "logstarter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logstarter:\n  level: INFO\n"), 0o644))

	load := overrideLoader(Config{Disabled: true, Level: "trace", Ops: "inventory.Reserve"})
	cfg, err := load(path)
	require.NoError(t, err)

	store := config.NewStore(cfg)
	reg := intercept.NewRegistry(cfg.Operations...)
	w, err := config.NewWatcher(path, load, store, nil, func(c config.Config) { reg.Replace(c.Operations) })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("logstarter:\n  enabled: true\n  level: WARN\n  operations: [inventory.Lookup]\n"), 0o644))
	require.NoError(t, w.Reload())

	assert.False(t, store.Enabled())
	assert.Equal(t, severity.LevelTrace, store.Level())
	assert.Equal(t, []string{"inventory.Reserve"}, reg.Operations())
}

func TestNewLoggerRendersTrace(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "text")
	require.NoError(t, err)

	sink := log.NewSlogSink(logger)
	ic := intercept.New(sink, intercept.StaticLevel(severity.LevelTrace))
	_, err = intercept.Intercept(context.Background(), ic, "a.B", nil, func() (int, error) { return 1, nil })
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Contains(t, l, "level=TRACE")
	}

	_, err = newLogger(&buf, "xml")
	assert.Error(t, err)
}
