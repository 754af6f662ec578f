// Package severity defines the five instrumentation levels and the policy
// that routes a message to the emission channel of a level.
//
// The configured level selects a channel; it is not a threshold. Every level
// has exactly one channel, and adding a level is a compile-time change:
//
//	policy := severity.NewPolicy(slog.Default())
//	policy.Emit(ctx, severity.LevelDebug, "Before method: lookup with args [42]")
//
// TRACE has no slog counterpart and is emitted at SlogLevelTrace
// (slog.LevelDebug-4). Handlers must be configured at or below that level
// for TRACE messages to appear.
package severity
