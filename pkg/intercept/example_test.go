package intercept_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/logstarter/logstarter-go/pkg/intercept"
	"github.com/logstarter/logstarter-go/pkg/log"
	"github.com/logstarter/logstarter-go/pkg/severity"
)

func exampleLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: severity.SlogLevelTrace,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func ExampleIntercept() {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ic := intercept.New(
		log.NewSlogSink(exampleLogger()),
		intercept.StaticLevel(severity.LevelInfo),
		intercept.WithClock(func() time.Time { return fixed }),
		intercept.WithIDGenerator(func() string { return "1" }),
	)

	qty, err := intercept.Intercept(context.Background(), ic, "inventory.Lookup", []any{"sku-42"}, func() (int, error) {
		return 7, nil
	})
	fmt.Println(qty, err)

	// Output:
	// level=INFO msg="Before method: inventory.Lookup with args [sku-42]" op=inventory.Lookup kind=ENTRY invocation_id=1
	// level=INFO msg="AfterReturning from method: inventory.Lookup with result: 7" op=inventory.Lookup kind=SUCCESS invocation_id=1
	// level=INFO msg="Around method: inventory.Lookup executed in 0 ms" op=inventory.Lookup kind=TIMING invocation_id=1 elapsed_ms=0
	// 7 <nil>
}

func ExampleCall_disabled() {
	rec := log.NewRecorder(0)
	ic := intercept.New(rec, intercept.StaticLevel(severity.LevelDebug),
		intercept.WithGate(intercept.NewGate(intercept.Static(false), intercept.SelectAll)))

	err := intercept.CallErr(context.Background(), ic, "cache.Flush", nil, func() error {
		return errors.New("cache offline")
	})
	fmt.Println(err, rec.Len())

	// Output:
	// cache offline 0
}
