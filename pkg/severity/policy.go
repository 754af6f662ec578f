package severity

import (
	"context"
	"log/slog"
)

// Emitter writes one message to a single emission channel.
type Emitter func(ctx context.Context, msg string, attrs ...slog.Attr)

// Policy maps each Level to exactly one Emitter.
//
// It is a direct mapping, not a filter: Emit never drops a message because
// of its level. Any minimum-level gating belongs to the slog handler behind
// the logger.
type Policy struct {
	emitters [levelCount]Emitter
}

// NewPolicy builds a Policy whose channels write to logger at the slog level
// returned by Level.SlogLevel. A nil logger uses slog.Default().
func NewPolicy(logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Policy{}
	for _, l := range Levels() {
		p.emitters[l] = slogEmitter(logger, l.SlogLevel())
	}
	return p
}

// NewPolicyFromEmitters builds a Policy from an explicit channel table.
// Levels without an entry get an emitter that discards messages.
func NewPolicyFromEmitters(emitters map[Level]Emitter) *Policy {
	p := &Policy{}
	for _, l := range Levels() {
		if e, ok := emitters[l]; ok && e != nil {
			p.emitters[l] = e
			continue
		}
		p.emitters[l] = func(context.Context, string, ...slog.Attr) {}
	}
	return p
}

// Emit dispatches msg to the channel for level.
// Levels outside the known five are routed to the INFO channel.
func (p *Policy) Emit(ctx context.Context, level Level, msg string, attrs ...slog.Attr) {
	if !level.Valid() {
		level = LevelInfo
	}
	p.emitters[level](ctx, msg, attrs...)
}

func slogEmitter(logger *slog.Logger, level slog.Level) Emitter {
	return func(ctx context.Context, msg string, attrs ...slog.Attr) {
		logger.LogAttrs(ctx, level, msg, attrs...)
	}
}
