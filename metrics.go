package bystander

import "sync/atomic"

// simulatorMetrics holds the atomic counters backing [Simulator.Stats],
// gated entirely by [WithMetrics] — when disabled, Run never touches these
// fields, so there's no atomic-increment cost to opt out of.
type simulatorMetrics struct {
	fastPathCompletions atomic.Uint64
	slowPathEscalations atomic.Uint64
	helpRounds           atomic.Uint64
	queueDepth           atomic.Int64
}

// Stats is a point-in-time snapshot of a [Simulator]'s activity, returned
// by [Simulator.Stats]. All fields are cumulative counters except
// QueueDepth, which is instantaneous.
type Stats struct {
	// FastPathCompletions counts Run calls that returned without ever
	// publishing an OperationRecordBox to the help queue.
	FastPathCompletions uint64
	// SlowPathEscalations counts Run calls that left the fast path
	// without an output (retry budget exhausted, or contention over
	// threshold) and escalated.
	SlowPathEscalations uint64
	// HelpRounds counts total help_op invocations performed across every
	// Run call's slow-path loop, including help performed on behalf of
	// other goroutines' operations.
	HelpRounds uint64
	// QueueDepth is the help queue's approximate current length. It is a
	// snapshot, not a linearizable count — the queue has no O(1) length
	// operation, by design (spec §4.4 never requires one), so this is
	// derived from the difference between issued and retired tickets and
	// may be stale by the time it's read.
	QueueDepth int64
}
