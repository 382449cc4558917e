package bystander

// Cas is a single-slot conditional write: an opaque, idempotent unit of
// atomic conditional mutation. Execute must return true iff the underlying
// location's observed value still equals the expected value encoded in the
// descriptor — and in that case atomically install the new value; false
// otherwise, leaving the location unchanged.
//
// Implementations must be idempotent: a second call to Execute, by any
// goroutine, after the first has already resolved the location (whether it
// succeeded or failed), must return the same outcome as the first call. The
// simulator relies on this to let any helper re-run a [CasList] from index
// 0 and still observe a consistent, single resolution per descriptor. The
// usual realization is a marker installed into the shared location, then
// resolved by whichever goroutine (the owner or a helper) gets there first;
// a second Execute observes the already-resolved marker and returns the
// same result without re-deciding anything.
//
// Two goroutines calling Execute on the same descriptor concurrently must
// both observe a consistent result — this is what makes a [Cas] safe to
// hand to a helper that didn't generate it.
type Cas interface {
	Execute() bool
}

// CasList is an ordered, finite, indexable sequence of [Cas] values,
// produced by a [NormalizedLockFree] implementation's Generator for one
// input. It is immutable once produced.
//
// CasList is a plain slice rather than an opaque interface: a Go slice's
// header is exactly the "cheap, shared-ownership clone" the descriptor list
// needs as it travels from the originating goroutine, through the help
// queue, to whichever goroutine eventually helps it to completion — copying
// the slice header shares the same backing array, and nothing in this
// package mutates a CasList after Generator returns it.
//
// Order is significant and must be preserved by every caller: the
// algorithm's Generator is free to embed a dependency between positions (e.g. position i
// may reference a value installed by position i-1), and every descriptor
// must be attempted even if the shared state already appears to match —
// the Execute call itself is the linearization point, not a pre-check.
type CasList []Cas

// Outcome is the result of driving a [CasList] through the executor: either
// every descriptor succeeded, or the first failure occurred at Index.
type Outcome struct {
	// Ok is true iff every descriptor in the list executed successfully.
	Ok bool
	// Index is the position of the first failed descriptor. Only
	// meaningful when Ok is false.
	Index int
}
