package bystander

import "sync/atomic"

// DefaultHelperSlots is the size of the help queue's fixed announcement
// table (see queue.go doc comment). Override via [WithHelperSlots].
const DefaultHelperSlots = 1024

// announceSlot publishes one pending enqueue request. Cache-line padded:
// under sustained contention every concurrent Run call touches some slot on
// every iteration of its escalation loop, so false sharing between
// neighbouring slots would be a real throughput cost.
type announceSlot[Input any, Output any] struct {
	_   [sizeOfCacheLine]byte
	req atomic.Pointer[OperationRecordBox[Input, Output]]
	_   [sizeOfCacheLine - sizeOfAtomicUint64]byte
}

// queueNode is the Michael-Scott list's own link cell, deliberately kept
// separate from [OperationRecordBox]: a box is a pooled, reusable value
// (see [Simulator.acquireBox]/[Simulator.releaseBox]), while a node's
// identity belongs entirely to the queue and is never recycled by hand —
// once unlinked, it's ordinary garbage for the collector. TryRemoveFront's
// MS-queue discipline turns the just-dequeued node into the new sentinel,
// so if boxes doubled as their own nodes, a dequeued-and-then-pooled box
// would still be linked in as q.head while a concurrent acquireBox
// overwrote its fields out from under any peek() still reading it. Wrapping
// the box in its own node keeps sentinel-hood and box-reuse from ever
// aliasing the same memory.
type queueNode[Input any, Output any] struct {
	next atomic.Pointer[queueNode[Input, Output]]
	box  *OperationRecordBox[Input, Output]
}

// helpQueue is the wait-free MPMC FIFO of pending [*OperationRecordBox]
// values spec §4.4 specifies at the contract level without prescribing an
// implementation. This one is a Michael-Scott-shaped singly linked list of
// [queueNode] cells (CAS-linked tail, sentinel head) combined with a
// fixed-size announcement table in the manner of Kogan & Petrank's
// wait-free queue:
//
//   - Peek is two atomic loads and TryRemoveFront a single CAS on the list
//     itself (each trivially wait-free: a fixed number of atomic steps, and
//     a failed CAS is a benign failure that means someone else already made
//     the same progress).
//   - Enqueue is where the wait-freedom argument actually lives. A naive
//     Michael-Scott enqueue (spin a CAS loop against whatever the current
//     tail happens to be) is only lock-free: the *system* always makes
//     progress, but a single unlucky goroutine could in principle keep
//     losing that CAS forever under an adversarial scheduler. To bound an
//     individual Enqueue call, the request is first published into
//     ticket%HelperSlots, and the calling goroutine then loops "try to
//     link my own slot, then help one other slot" — structurally the same
//     spin-and-help idiom [Simulator.Run] itself uses at the top level
//     (spec §4.5), applied recursively one layer down. Every iteration
//     either completes this goroutine's own request, or performs a unit of
//     provable progress on someone else's — so across any bounded number
//     of concurrently published requests (HelperSlots of them), every
//     request is resolved within a bounded number of total helping rounds.
//
// HelperSlots is a fixed, configured bound on concurrently outstanding
// escalations, matching the bounded-process-count assumption standard to
// this family of wait-free algorithms (Kogan & Petrank's own construction
// assumes a fixed N too) — see DESIGN.md "Open Questions" item 1.
type helpQueue[Input any, Output any] struct {
	head atomic.Pointer[queueNode[Input, Output]]
	tail atomic.Pointer[queueNode[Input, Output]]

	slots      []announceSlot[Input, Output]
	ticket     atomic.Uint64
	helpCursor atomic.Uint64
}

// nextPowerOfTwo rounds n up to the nearest power of 2, minimum 1. Mirrors
// the masking idiom catrate's ring buffer requires of its callers
// (newRingBuffer panics on a non-power-of-2 size); here the queue does the
// rounding itself so any positive HelperSlots value is accepted.
func nextPowerOfTwo(n int) uint64 {
	if n <= 1 {
		return 1
	}
	p := uint64(1)
	for p < uint64(n) {
		p <<= 1
	}
	return p
}

func newHelpQueue[Input any, Output any](helperSlots int) *helpQueue[Input, Output] {
	sentinel := &queueNode[Input, Output]{}
	q := &helpQueue[Input, Output]{
		slots: make([]announceSlot[Input, Output], nextPowerOfTwo(helperSlots)),
	}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// mask returns val modulo len(q.slots), exploiting that the slot count is
// always a power of 2 (see nextPowerOfTwo) the same way catrate's
// ringBuffer.mask does for its backing slice.
func (q *helpQueue[Input, Output]) mask(val uint64) uint64 {
	return val & (uint64(len(q.slots)) - 1)
}

// enqueue publishes box and does not return until box is linked into the
// shared list and therefore observable via peek. Safe to call from any
// goroutine, concurrently.
//
// Slots are reused across tickets (HelperSlots is typically far smaller
// than the number of concurrently calling goroutines, unlike Kogan &
// Petrank's original one-slot-per-process table), so claiming a slot is
// itself a CAS against nil, not an unconditional publish: a ticket whose
// slot is still occupied by a prior, unresolved request first helps that
// resident (the same helpSlot call that would otherwise just help a
// stranger's request) until it clears, then claims the now-empty slot.
func (q *helpQueue[Input, Output]) enqueue(box *OperationRecordBox[Input, Output]) {
	ticket := q.ticket.Add(1) - 1
	slot := &q.slots[q.mask(ticket)]

	for !slot.req.CompareAndSwap(nil, box) {
		q.helpSlot(slot)
		q.helpOther(slot)
	}

	for slot.req.Load() == box {
		q.helpSlot(slot)
		q.helpOther(slot)
	}
}

// helpOther performs one round-robin unit of help on a slot other than
// exclude, so that publishing a slow neighbour's request never depends
// entirely on its own owner making progress.
func (q *helpQueue[Input, Output]) helpOther(exclude *announceSlot[Input, Output]) {
	other := &q.slots[q.mask(q.helpCursor.Add(1)-1)]
	if other != exclude {
		q.helpSlot(other)
	}
}

// helpSlot performs at most one unit of linking work on behalf of
// whichever request s currently holds, if any. Never blocks, never loops
// internally — a single failed CAS here just means some other goroutine
// made the equivalent progress, and the caller's own enclosing loop (in
// enqueue) will observe that on its next iteration.
func (q *helpQueue[Input, Output]) helpSlot(s *announceSlot[Input, Output]) {
	box := s.req.Load()
	if box == nil {
		return
	}

	tail := q.tail.Load()
	next := tail.next.Load()
	if next != nil {
		// tail is lagging a node that's already linked; swing it forward
		// for whoever left it behind, then let the next round re-examine
		// the (now-current) tail.
		q.tail.CompareAndSwap(tail, next)
		return
	}
	if s.req.Load() != box {
		return // resolved by a concurrent helper since we loaded box
	}
	node := &queueNode[Input, Output]{box: box}
	if tail.next.CompareAndSwap(nil, node) {
		q.tail.CompareAndSwap(tail, node)
		s.req.CompareAndSwap(box, nil)
	}
}

// peek returns the current logical front, or nil if the queue is empty.
// Two concurrent peekers may observe the same front — that's correct,
// because help_op is idempotent with respect to any box it's handed.
func (q *helpQueue[Input, Output]) peek() *OperationRecordBox[Input, Output] {
	first := q.head.Load().next.Load()
	if first == nil {
		return nil
	}
	return first.box
}

// tryRemoveFront succeeds only if box is still the front; failure means
// another helper already removed it, or the front advanced past it. Never
// removes a non-front entry: the CAS target is always the sentinel
// immediately preceding box's node, so a mismatch (box no longer
// head.next.box) is a guaranteed, safe no-op. The node that held box
// becomes the new sentinel — an ordinary node with a dangling box
// reference, never reused as a value itself — so box is free to be pooled
// and reinitialized the instant this call succeeds.
func (q *helpQueue[Input, Output]) tryRemoveFront(box *OperationRecordBox[Input, Output]) bool {
	head := q.head.Load()
	first := head.next.Load()
	if first == nil || first.box != box {
		return false
	}
	return q.head.CompareAndSwap(head, first)
}
