package severity

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrUnknownLevel is returned when a level name cannot be parsed.
var ErrUnknownLevel = errors.New("unknown severity level")

// Level is the verbosity at which instrumentation events are emitted.
// Levels are ordered from most to least verbose.
type Level uint8

const (
	// LevelTrace is the most verbose channel.
	LevelTrace Level = iota
	// LevelDebug is the debug channel.
	LevelDebug
	// LevelInfo is the default channel.
	LevelInfo
	// LevelWarn is the warning channel.
	LevelWarn
	// LevelError is the error channel. Failure events always use it.
	LevelError

	levelCount
)

// SlogLevelTrace is the slog level used for the TRACE channel.
// slog has no trace level; this sits one step below slog.LevelDebug.
const SlogLevelTrace = slog.LevelDebug - 4

var levelNames = [levelCount]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var slogLevels = [levelCount]slog.Level{
	LevelTrace: SlogLevelTrace,
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// Levels returns all levels in order of increasing severity.
func Levels() []Level {
	return []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}
}

// Valid reports whether l is one of the five known levels.
func (l Level) Valid() bool {
	return l < levelCount
}

// String returns the level name.
func (l Level) String() string {
	if !l.Valid() {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// SlogLevel maps the level to the slog level of its emission channel.
// Unknown levels map to slog.LevelInfo.
func (l Level) SlogLevel() slog.Level {
	if !l.Valid() {
		return slog.LevelInfo
	}
	return slogLevels[l]
}

// ParseLevel parses a level name, case-insensitively.
// "WARNING" is accepted as an alias for WARN.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LevelWarn, nil
	}
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
