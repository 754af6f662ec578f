package config

import (
	"sync/atomic"

	"github.com/logstarter/logstarter-go/pkg/severity"
)

// Store publishes the current configuration snapshot.
// Reads are lock-free and always observe a complete snapshot; writers
// replace the whole snapshot.
type Store struct {
	cur atomic.Pointer[Config]
}

// NewStore creates a Store holding cfg.
func NewStore(cfg Config) *Store {
	s := &Store{}
	s.Swap(cfg)
	return s
}

// Load returns a copy of the current snapshot.
func (s *Store) Load() Config {
	return s.cur.Load().Clone()
}

// Swap replaces the snapshot and returns the previous one.
func (s *Store) Swap(cfg Config) Config {
	next := cfg.Clone()
	prev := s.cur.Swap(&next)
	if prev == nil {
		return Config{}
	}
	return *prev
}

// Enabled reports the global instrumentation flag.
func (s *Store) Enabled() bool {
	return s.cur.Load().Enabled
}

// Level returns the configured emission level.
func (s *Store) Level() severity.Level {
	return s.cur.Load().Level
}

// SetEnabled replaces the snapshot with one whose Enabled flag is set to on.
func (s *Store) SetEnabled(on bool) {
	s.update(func(c *Config) { c.Enabled = on })
}

// SetLevel replaces the snapshot with one at the given level.
func (s *Store) SetLevel(level severity.Level) {
	s.update(func(c *Config) { c.Level = level })
}

func (s *Store) update(fn func(*Config)) {
	for {
		old := s.cur.Load()
		next := old.Clone()
		fn(&next)
		if s.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}
