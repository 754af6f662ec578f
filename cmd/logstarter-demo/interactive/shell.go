// Package interactive provides the interactive command-line interface
// for the logstarter demo.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/logstarter/logstarter-go/pkg/config"
	"github.com/logstarter/logstarter-go/pkg/intercept"
	"github.com/logstarter/logstarter-go/pkg/log"
	"github.com/logstarter/logstarter-go/pkg/severity"
)

// Runner executes instrumented operations by name.
// This interface keeps the shell independent of the demo service.
type Runner interface {
	// Commands returns usage lines for the available operations.
	Commands() []string

	// Run executes one operation and renders its result.
	Run(ctx context.Context, cmd string, args []string) (string, error)
}

// Options wires the shell to the running demo.
type Options struct {
	Runner   Runner
	Store    *config.Store
	Registry *intercept.Registry

	// Recorder is optional. When nil the history command is unavailable.
	Recorder *log.Recorder
}

// Shell handles interactive mode for logstarter-demo.
type Shell struct {
	opts Options
	rl   *readline.Instance
	out  io.Writer
}

// New creates a new interactive shell.
func New(opts Options) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "logstarter> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{opts: opts, rl: rl, out: rl.Stdout()}, nil
}

// newShell creates a shell without a terminal, writing to out.
func newShell(opts Options, out io.Writer) *Shell {
	return &Shell{opts: opts, out: out}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Execute(ctx, line) {
			cancel()
			return
		}
	}
}

// Execute runs a single command line. It returns false when the shell
// should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "call", "c":
		s.cmdCall(ctx, args)

	case "level":
		s.cmdLevel(args)

	case "enable":
		s.opts.Store.SetEnabled(true)
		fmt.Fprintln(s.out, "Instrumentation enabled")

	case "disable":
		s.opts.Store.SetEnabled(false)
		fmt.Fprintln(s.out, "Instrumentation disabled")

	case "mark":
		s.cmdMark(args, true)

	case "unmark":
		s.cmdMark(args, false)

	case "ops":
		s.cmdOps()

	case "history", "h":
		s.cmdHistory(args)

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Logstarter Demo Commands:
  Operations:
    call <op> [args]   - Run an instrumented operation (see below)

  Instrumentation:
    level [LEVEL]      - Show or set the level (TRACE, DEBUG, INFO, WARN, ERROR)
    enable             - Enable instrumentation
    disable            - Disable instrumentation
    mark <op>          - Select an operation for instrumentation
    unmark <op>        - Deselect an operation
    ops                - List selected operations
    history [n]        - Show the last n recorded events (memory sink only)

  General:
    help               - Show this help
    quit               - Exit`)

	fmt.Fprintln(s.out, "\n  Available operations:")
	for _, c := range s.opts.Runner.Commands() {
		fmt.Fprintf(s.out, "    %s\n", c)
	}
	fmt.Fprintln(s.out)
}

func (s *Shell) cmdCall(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: call <op> [args]")
		return
	}

	result, err := s.opts.Runner.Run(ctx, strings.ToLower(args[0]), args[1:])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "=> %s\n", result)
}

func (s *Shell) cmdLevel(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Level: %s (enabled: %t)\n", s.opts.Store.Level(), s.opts.Store.Enabled())
		return
	}

	level, err := severity.ParseLevel(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.opts.Store.SetLevel(level)
	fmt.Fprintf(s.out, "Level set to %s\n", level)
}

func (s *Shell) cmdMark(args []string, mark bool) {
	if len(args) != 1 {
		if mark {
			fmt.Fprintln(s.out, "Usage: mark <op>")
		} else {
			fmt.Fprintln(s.out, "Usage: unmark <op>")
		}
		return
	}

	if mark {
		s.opts.Registry.Mark(args[0])
		fmt.Fprintf(s.out, "Marked %s\n", args[0])
		return
	}
	s.opts.Registry.Unmark(args[0])
	fmt.Fprintf(s.out, "Unmarked %s\n", args[0])
}

func (s *Shell) cmdOps() {
	ops := s.opts.Registry.Operations()
	if len(ops) == 0 {
		fmt.Fprintln(s.out, "All operations selected")
		return
	}
	for _, op := range ops {
		fmt.Fprintf(s.out, "  %s\n", op)
	}
}

func (s *Shell) cmdHistory(args []string) {
	if s.opts.Recorder == nil {
		fmt.Fprintln(s.out, "History is only available with -sink memory")
		return
	}

	events := s.opts.Recorder.Events()
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			fmt.Fprintf(s.out, "Invalid count: %s\n", args[0])
			return
		}
		if n < len(events) {
			events = events[len(events)-n:]
		}
	}

	if len(events) == 0 {
		fmt.Fprintln(s.out, "No events recorded")
		return
	}
	for _, e := range events {
		fmt.Fprintf(s.out, "  %s %-5s %-7s %s\n", e.Timestamp.Format("15:04:05.000"), e.Level, e.Kind, e.Message)
	}
}
