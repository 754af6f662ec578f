// Package config resolves the logstarter configuration namespace.
//
// Configuration is read once at startup (Load) and published through a
// Store, which the interceptor and gate read on every call. A Watcher can
// swap the Store's snapshot atomically when the file changes.
//
// A configuration file looks like:
//
//	version: "1.1"
//	logstarter:
//	  enabled: true
//	  level: DEBUG
//	  operations:
//	    - inventory.Lookup
//	    - inventory.Reserve
//
// Environment variables override the file:
//
//	LOGSTARTER_ENABLED=false
//	LOGSTARTER_LEVEL=trace
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/logstarter/logstarter-go/pkg/severity"
	"github.com/logstarter/logstarter-go/pkg/version"
)

// Namespace is the top-level key of the configuration file.
const Namespace = "logstarter"

// Environment variables read by Load.
const (
	EnvConfigFile = "LOGSTARTER_CONFIG_FILE"
	EnvEnabled    = "LOGSTARTER_ENABLED"
	EnvLevel      = "LOGSTARTER_LEVEL"
)

var (
	// ErrIncompatibleVersion is returned for a file written for a schema
	// this build cannot read.
	ErrIncompatibleVersion = errors.New("incompatible configuration version")

	// ErrUnknownKey is returned for a logstarter key the file's schema does
	// not define.
	ErrUnknownKey = errors.New("unknown configuration key")
)

// Config is the resolved logstarter configuration.
type Config struct {
	// Enabled is the global instrumentation flag. When false no operation
	// is intercepted.
	Enabled bool `yaml:"enabled"`

	// Level is the channel used for entry, success and timing events.
	Level severity.Level `yaml:"level"`

	// Operations lists the operations marked for instrumentation.
	// Empty means every operation routed to the interceptor is selected.
	Operations []string `yaml:"operations,omitempty"`
}

// document is the on-disk layout. The logstarter section is kept as a node
// so its keys can be checked against the declared schema before decoding.
type document struct {
	Version    string    `yaml:"version,omitempty"`
	LogStarter yaml.Node `yaml:"logstarter"`
}

// Default returns the configuration used when nothing is set:
// enabled at INFO level with every operation selected.
func Default() Config {
	return Config{
		Enabled: true,
		Level:   severity.LevelInfo,
	}
}

// Validate checks that cfg can be used by an interceptor.
func (c Config) Validate() error {
	if !c.Level.Valid() {
		return fmt.Errorf("%w: %d", severity.ErrUnknownLevel, uint8(c.Level))
	}
	for _, op := range c.Operations {
		if strings.TrimSpace(op) == "" {
			return errors.New("operations: empty operation name")
		}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.Operations = slices.Clone(c.Operations)
	return c
}

// Parse decodes a YAML document on top of Default.
// Keys missing from the document keep their default values.
//
// The document's version selects the schema its logstarter keys are
// checked against; without a version the newest supported schema applies.
// Files written for another major schema or a newer minor schema are
// rejected with ErrIncompatibleVersion, unknown keys with ErrUnknownKey.
func Parse(data []byte) (Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
	}

	schema := version.Current()
	if doc.Version != "" {
		v, err := version.Parse(doc.Version)
		if err != nil {
			return Config{}, &LoadError{Message: "invalid version", Cause: err}
		}
		schema = v
	}

	keys, err := sectionKeys(&doc.LogStarter)
	if err != nil {
		return Config{}, err
	}
	result := version.CheckKeys(schema, keys)

	if err := version.Supported(schema); err != nil {
		msg := "unsupported schema " + schema.String()
		if !result.Valid() {
			msg += " (" + result.String() + ")"
		}
		return Config{}, &LoadError{Message: msg, Cause: fmt.Errorf("%w: %w", ErrIncompatibleVersion, err)}
	}
	if !result.Valid() {
		return Config{}, &LoadError{
			Message: "invalid " + Namespace + " section for schema " + schema.String() + ": " + result.String(),
			Cause:   ErrUnknownKey,
		}
	}

	cfg := Default()
	if doc.LogStarter.Kind == yaml.MappingNode {
		if err := doc.LogStarter.Decode(&cfg); err != nil {
			return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &LoadError{Message: "invalid " + Namespace + " section", Cause: err}
	}
	return cfg, nil
}

// sectionKeys returns the keys of the logstarter section. An absent or
// empty section has none.
func sectionKeys(n *yaml.Node) ([]string, error) {
	switch {
	case n.Kind == 0:
		return nil, nil
	case n.Kind == yaml.ScalarNode && n.Tag == "!!null":
		return nil, nil
	case n.Kind != yaml.MappingNode:
		return nil, &LoadError{Message: fmt.Sprintf("%s section must be a mapping (line %d)", Namespace, n.Line)}
	}

	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys, nil
}

// LoadFile reads and parses the configuration file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return Config{}, le
		}
		return Config{}, &LoadError{File: path, Message: err.Error()}
	}
	return cfg, nil
}

// Load resolves the configuration in layers: defaults, then the file at
// path when path is not empty, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Path returns the configuration file named by LOGSTARTER_CONFIG_FILE, or
// fallback when it is unset.
func Path(lookup func(string) (string, bool), fallback string) string {
	if p, ok := lookup(EnvConfigFile); ok && p != "" {
		return p
	}
	return fallback
}

// ApplyEnv overrides cfg from environment variables found with lookup.
// Nothing is applied unless every override is valid.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	next := *cfg
	if v, ok := lookup(EnvEnabled); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return &LoadError{Message: EnvEnabled, Cause: err}
		}
		next.Enabled = enabled
	}
	if v, ok := lookup(EnvLevel); ok && v != "" {
		level, err := severity.ParseLevel(v)
		if err != nil {
			return &LoadError{Message: EnvLevel, Cause: err}
		}
		next.Level = level
	}
	*cfg = next
	return nil
}

// LoadError describes a configuration that could not be resolved.
// Callers treat it as fatal at startup.
type LoadError struct {
	// File is the path to the file that failed to load (empty for
	// environment or in-memory sources).
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
