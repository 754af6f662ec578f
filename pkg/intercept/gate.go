package intercept

// EnabledSource supplies the global instrumentation flag.
type EnabledSource interface {
	Enabled() bool
}

// Static is an EnabledSource that never changes.
type Static bool

// Enabled returns s.
func (s Static) Enabled() bool {
	return bool(s)
}

// Selector decides whether an operation is marked for instrumentation.
type Selector interface {
	Selected(op string) bool
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(op string) bool

// Selected calls f(op).
func (f SelectorFunc) Selected(op string) bool {
	return f(op)
}

// SelectAll selects every operation.
var SelectAll Selector = SelectorFunc(func(string) bool { return true })

// Gate decides per call site whether wrapping is active.
// It has no side effects and is safe for concurrent use when its sources are.
type Gate struct {
	enabled  EnabledSource
	selector Selector
}

// NewGate creates a Gate. A nil enabled source is treated as always on,
// a nil selector as SelectAll.
func NewGate(enabled EnabledSource, selector Selector) *Gate {
	if enabled == nil {
		enabled = Static(true)
	}
	if selector == nil {
		selector = SelectAll
	}
	return &Gate{enabled: enabled, selector: selector}
}

// Route reports whether op goes through the interceptor. When the global
// flag is off nothing is routed, whatever the selector says. A nil Gate
// routes everything.
func (g *Gate) Route(op string) bool {
	if g == nil {
		return true
	}
	if !g.enabled.Enabled() {
		return false
	}
	return g.selector.Selected(op)
}
