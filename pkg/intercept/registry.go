package intercept

import (
	"maps"
	"slices"
	"sync"
)

// Registry is an explicit table of operations marked for instrumentation.
// It is safe for concurrent use. Create it with NewRegistry.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]struct{}
}

// NewRegistry creates a Registry with the given operations marked.
func NewRegistry(ops ...string) *Registry {
	r := &Registry{ops: make(map[string]struct{}, len(ops))}
	r.Mark(ops...)
	return r
}

// Mark selects the given operations.
func (r *Registry) Mark(ops ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range ops {
		r.ops[op] = struct{}{}
	}
}

// Unmark deselects the given operations.
func (r *Registry) Unmark(ops ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range ops {
		delete(r.ops, op)
	}
}

// Replace swaps the whole selection for ops.
func (r *Registry) Replace(ops []string) {
	next := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		next[op] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = next
}

// Selected reports whether op is marked.
func (r *Registry) Selected(op string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ops[op]
	return ok
}

// Len returns the number of marked operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}

// OrAll returns a Selector that selects every operation while r is empty
// and behaves like r otherwise.
func (r *Registry) OrAll() Selector {
	return SelectorFunc(func(op string) bool {
		r.mu.RLock()
		defer r.mu.RUnlock()
		if len(r.ops) == 0 {
			return true
		}
		_, ok := r.ops[op]
		return ok
	})
}

// Operations returns the marked operations in sorted order.
func (r *Registry) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.ops))
}

// Compile-time interface satisfaction check.
var _ Selector = (*Registry)(nil)
