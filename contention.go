package bystander

// DefaultContentionThreshold is the number of detected contention events,
// within a single fast-path attempt, after which the caller abandons the
// fast path and escalates to the help queue. Kept deliberately small (spec
// §4.1): the fast path's worst-case step count must stay O(1), which is the
// precondition the wait-freedom proof of [Simulator.Run] relies on.
const DefaultContentionThreshold = 2

// DefaultRetryThreshold bounds how many generator→execute→wrap-up passes
// the fast-path loop in [Simulator.Run] makes in total before escalating,
// independent of the contention counter. Set to 0 via [WithRetryThreshold]
// to force every call through the slow path — useful for stress-testing the
// help queue in isolation.
const DefaultRetryThreshold = 2

// ContentionMeasure is a per-attempt, thread-local counter of observed
// interference: a failed CAS, or a read that noticed a competing operation.
// It is never shared between goroutines and must never be stored in an
// OperationRecord — each phase of help_op constructs a fresh one.
type ContentionMeasure struct {
	count int
}

// Detected records one unit of observed contention. Called by the CAS
// executor on every failed descriptor, and may also be called directly by a
// [NormalizedLockFree] implementation's Generator or WrapUp when it
// observes interference that isn't itself a failed Cas (e.g. a concurrent
// operation's descriptor parked in the shared location it's about to read).
func (c *ContentionMeasure) Detected() {
	c.count++
}

// Count returns the number of contention events recorded so far.
func (c *ContentionMeasure) Count() int {
	return c.count
}

// UseSlowPath reports whether the accumulated contention exceeds threshold,
// meaning the caller should abandon the fast path and escalate to the help
// queue rather than retry.
func (c *ContentionMeasure) UseSlowPath(threshold int) bool {
	return c.count > threshold
}
