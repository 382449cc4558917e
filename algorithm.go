package bystander

// NormalizedLockFree is the abstraction every candidate algorithm must
// present to be simulated. It is parameterized over the operation's Input
// and Output types; the descriptor type itself is erased behind [Cas] and
// [CasList], since the simulator never inspects descriptor internals.
//
// Generator and WrapUp must both be pure over (input, currently visible
// shared state): no side effects outside the [Cas] values Generator
// constructs. Both must be deterministic given their inputs and the shared
// state visible at the time they're called — callers may invoke either one
// repeatedly, from any goroutine, including during helping, where the
// shared state observed is whatever is current at help time, not whatever
// was current when the operation was originally published.
type NormalizedLockFree[Input any, Output any] interface {
	// Generator produces, from an input and the current contention
	// counter, the CAS sequence that — if executed in order and all
	// succeed — realizes the operation linearizably. Called with a fresh
	// contention measure on every attempt, including every help_op
	// iteration; implementations must tolerate the counter being reset
	// across attempts (see spec §9's "Generator determinism" note).
	Generator(input Input, contention *ContentionMeasure) CasList

	// WrapUp is given the outcome of executing the list Generator
	// produced, and decides the caller-visible output or that a fresh
	// Generator pass is required. retry==true means: discard output and
	// re-enter at PreCas with the same input.
	WrapUp(outcome Outcome, list CasList, contention *ContentionMeasure) (output Output, retry bool)
}
