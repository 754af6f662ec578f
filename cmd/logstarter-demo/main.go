// Command logstarter-demo runs a small inventory service through the
// logstarter interceptor.
//
// This command demonstrates:
//   - Layered configuration (defaults, YAML file, environment, flags)
//   - Severity routing of ENTRY, SUCCESS, FAILURE and TIMING events
//   - Runtime reconfiguration through a watched config file
//   - An interactive shell for calling operations and changing settings
//
// Usage:
//
//	logstarter-demo [flags]
//
// Flags:
//
//	-config string   Configuration file path (or LOGSTARTER_CONFIG_FILE)
//	-level string    Instrumentation level: trace, debug, info, warn, error
//	-disabled        Disable instrumentation
//	-ops string      Comma-separated operations to instrument (default all)
//	-format string   Log format: text, json (default "text")
//	-sink string     Event sink: slog, memory (default "slog")
//	-watch           Reload the config file when it changes
//	-interactive     Start the interactive shell
//	-version         Print version information and exit
//
// Examples:
//
//	# Run the scripted scenario with DEBUG routing
//	logstarter-demo -level debug
//
//	# Only instrument reservations, as JSON
//	logstarter-demo -ops inventory.Reserve -format json
//
//	# Interactive shell with live config reloads
//	logstarter-demo -config ./logstarter.yaml -watch -interactive
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/logstarter/logstarter-go/cmd/logstarter-demo/interactive"
	"github.com/logstarter/logstarter-go/pkg/config"
	"github.com/logstarter/logstarter-go/pkg/intercept"
	"github.com/logstarter/logstarter-go/pkg/log"
	"github.com/logstarter/logstarter-go/pkg/severity"
	"github.com/logstarter/logstarter-go/pkg/version"
)

// Config holds the command-line configuration.
type Config struct {
	ConfigFile  string
	Level       string
	Disabled    bool
	Ops         string
	Format      string
	Sink        string
	Watch       bool
	Interactive bool
	Version     bool
}

var flags Config

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (or "+config.EnvConfigFile+")")
	flag.StringVar(&flags.Level, "level", "", "Instrumentation level: trace, debug, info, warn, error")
	flag.BoolVar(&flags.Disabled, "disabled", false, "Disable instrumentation")
	flag.StringVar(&flags.Ops, "ops", "", "Comma-separated operations to instrument (default all)")
	flag.StringVar(&flags.Format, "format", "text", "Log format: text, json")
	flag.StringVar(&flags.Sink, "sink", "slog", "Event sink: slog, memory")
	flag.BoolVar(&flags.Watch, "watch", false, "Reload the config file when it changes")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Start the interactive shell")
	flag.BoolVar(&flags.Version, "version", false, "Print version information and exit")
}

func main() {
	flag.Parse()

	if flags.Version {
		fmt.Printf("logstarter-demo %s (config schema %s)\n", version.Library, version.Schema)
		return
	}

	out := &switchWriter{w: os.Stdout}
	logger, err := newLogger(out, flags.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flags: %v\n", err)
		os.Exit(2)
	}

	cfgPath := flags.ConfigFile
	if cfgPath == "" {
		cfgPath = config.Path(os.LookupEnv, "")
	}

	load := overrideLoader(flags)
	cfg, err := load(cfgPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("logstarter demo starting",
		"version", version.Library,
		"config", cfgPath,
		"enabled", cfg.Enabled,
		"level", cfg.Level.String(),
		"operations", cfg.Operations)

	store := config.NewStore(cfg)
	reg := intercept.NewRegistry(cfg.Operations...)

	var (
		sink     log.Sink
		recorder *log.Recorder
	)
	switch flags.Sink {
	case "memory":
		recorder = log.NewRecorder(1000)
		sink = recorder
	case "slog":
		sink = log.NewSlogSink(logger.With("component", "intercept"))
	default:
		logger.Error("invalid sink", "sink", flags.Sink)
		os.Exit(2)
	}

	ic := intercept.New(sink, store,
		intercept.WithGate(intercept.NewGate(store, reg.OrAll())),
		intercept.WithEmitErrorHandler(func(event log.Event, recovered any) {
			logger.Warn("dropped instrumentation event",
				"op", event.Operation,
				"kind", event.Kind.String(),
				"panic", recovered)
		}),
	)
	inv := instrument(ic, NewInventory())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if flags.Watch {
		if cfgPath == "" {
			logger.Warn("-watch ignored without a config file")
		} else {
			w, err := config.NewWatcher(cfgPath, load, store, logger, func(c config.Config) {
				reg.Replace(c.Operations)
			})
			if err != nil {
				logger.Error("failed to watch config", "error", err)
				os.Exit(1)
			}
			go func() {
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("config watcher stopped", "error", err)
				}
			}()
		}
	}

	if flags.Interactive {
		shell, err := interactive.New(interactive.Options{
			Runner:   inv,
			Store:    store,
			Registry: reg,
			Recorder: recorder,
		})
		if err != nil {
			logger.Error("failed to start interactive mode", "error", err)
			os.Exit(1)
		}
		out.Set(shell.Stdout())
		shell.Run(ctx, cancel)
	} else {
		runScenario(ctx, inv, logger)
		if recorder != nil {
			printEvents(os.Stdout, recorder.Events())
		}
	}

	if n := ic.Dropped(); n > 0 {
		logger.Warn("instrumentation events dropped", "count", n)
	}
}

// overrideLoader returns a loader that applies the command-line overrides
// on every load, so config reloads keep them.
func overrideLoader(f Config) func(path string) (config.Config, error) {
	return func(path string) (config.Config, error) {
		return loadConfig(path, f)
	}
}

// loadConfig layers command-line overrides on top of the resolved
// configuration.
func loadConfig(path string, f Config) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if f.Level != "" {
		level, err := severity.ParseLevel(f.Level)
		if err != nil {
			return cfg, fmt.Errorf("-level: %w", err)
		}
		cfg.Level = level
	}
	if f.Disabled {
		cfg.Enabled = false
	}
	if f.Ops != "" {
		cfg.Operations = nil
		for _, op := range strings.Split(f.Ops, ",") {
			if op = strings.TrimSpace(op); op != "" {
				cfg.Operations = append(cfg.Operations, op)
			}
		}
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger. The handler admits TRACE so every
// severity channel is visible.
func newLogger(w io.Writer, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level: severity.SlogLevelTrace,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l <= severity.SlogLevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// runScenario exercises every inventory operation once on the happy path
// and once on a failure path, then waits for a shutdown signal.
func runScenario(ctx context.Context, inv *instrumentedInventory, logger *slog.Logger) {
	steps := [][]string{
		{"lookup", "apple"},
		{"lookup", "durian"},
		{"reserve", "apple", "5"},
		{"reserve", "banana", "7"},
		{"restock", "cherry"},
		{"audit", "5"},
		{"audit", "50", "20"},
	}

	for _, step := range steps {
		result, err := inv.Run(ctx, step[0], step[1:])
		if err != nil {
			logger.Info("step failed", "step", strings.Join(step, " "), "error", err)
			continue
		}
		logger.Info("step done", "step", strings.Join(step, " "), "result", result)
	}

	if !flags.Watch {
		return
	}

	logger.Info("watching config, press Ctrl+C to exit")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}
}

func printEvents(w io.Writer, events []log.Event) {
	fmt.Fprintf(w, "\nRecorded %d events:\n", len(events))
	for _, e := range events {
		fmt.Fprintf(w, "  %-5s %-7s %s\n", e.Level, e.Kind, e.Message)
	}
}

// switchWriter lets log output move to the interactive shell once it exists.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) Set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}
