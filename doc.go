// Package bystander turns any normalized lock-free algorithm into a
// wait-free one, by combining an optimistic fast path with a cooperative
// helping queue.
//
// # Architecture
//
// Callers supply an algorithm satisfying [NormalizedLockFree]: a pure
// generator that turns an input into a [CasList], and a wrap-up function
// that turns the result of executing that list into an output or a retry
// request. [Simulator.Run] drives that algorithm through four cooperating
// pieces:
//
//   - [ContentionMeasure]: a per-attempt, thread-local counter.
//   - the CAS executor ([Simulator.Run] calling into each [Cas] in order).
//   - [OperationRecordBox]: the shared state machine a stalled operation is
//     published as, so any other caller can complete it on its behalf.
//   - the help queue: a wait-free MPMC FIFO of pending
//     [*OperationRecordBox] values.
//
// A caller that keeps losing the race on its own fast path (bounded by
// [Option] WithRetryThreshold) escalates: it publishes its operation to the
// help queue and spins, helping the queue's front (possibly its own
// operation, possibly someone else's) until its own record reaches
// Completed. Every other caller, on entry to Run, helps the front of the
// queue once before trying its own fast path — this is what amortizes
// helping so a long queue never stalls a late arrival.
//
// # Thread Safety
//
//   - [Simulator.Run] is safe to call from any goroutine, concurrently.
//   - [OperationRecordBox] is mutated only via CAS on its record pointer;
//     loads use acquire ordering, successful installs use release.
//   - The help queue's Enqueue/Peek/TryRemoveFront are each wait-free in a
//     bounded number of the caller's own steps (see [WithHelperSlots]).
//
// # Usage
//
//	sim, err := bystander.New[Increment, uint64](counterAlgorithm{counter: c})
//	if err != nil {
//		// only reachable via a misconfigured Option
//	}
//	old := sim.Run(Increment{})
//
// # Error Types
//
// Per spec, there are no fatal errors once a [Simulator] is constructed —
// every Run call produces an output. The only error surface is
// configuration validation at construction time: see [New] and the
// [Option] constructors.
package bystander
