package bystander

import (
	"sync"
	"sync/atomic"
)

// Reclaimer is the pluggable memory-reclamation collaborator spec §5/§9
// requires: a pin/unpin bracket around helpOp, and a hook to retire an
// object once it's no longer reachable from the shared graph.
//
// Unlike the unmanaged-language setting the spec's design notes are written
// for, Go's garbage collector already rules out use-after-free for historic
// [operationRecord] snapshots and retired queue nodes — nothing in this
// package ever dereferences freed memory regardless of Reclaimer. What a
// Reclaimer still guards against is a subtler bug: recycling a *pointer
// value* (handing a pooled struct back into circulation as part of a new
// operation) while a concurrent helper might still be mid-dereference of
// the old generation. That's the contract implemented here: Retire defers
// the pooled free until every currently Pinned epoch is known to have
// started after the retirement.
type Reclaimer interface {
	// Pin marks the calling goroutine as actively dereferencing shared
	// state, for the duration of one helpOp bracket. Must be paired with
	// Unpin using the returned token.
	Pin() PinToken
	// Unpin ends the bracket started by the matching Pin call.
	Unpin(PinToken)
	// Retire defers free until it's safe to run — i.e. until no
	// goroutine could still be holding a reference predating the
	// retirement.
	Retire(free func())
}

// PinToken is an opaque handle returned by Reclaimer.Pin and consumed by
// the matching Unpin call.
type PinToken interface{}

// pin brackets fn with Pin/Unpin, mirroring spec §9's "pin/unpin bracket
// around help_op".
func pin(r Reclaimer, fn func()) {
	t := r.Pin()
	defer r.Unpin(t)
	fn()
}

// EpochReclaimer is the default [Reclaimer]: a small epoch-based scheme.
// Every Retire call advances a global epoch and stashes the free behind the
// epoch that was current just before advancing; a stashed free only runs
// once every currently pinned epoch is newer than that — i.e. every
// goroutine that might have been looking at the pre-retirement generation
// has since re-pinned (or never pinned at all).
//
// There is no fixed-N assumption here (unlike the help queue's announcement
// table): active pins are tracked in a sync.Map keyed by token, so any
// number of concurrent goroutines may pin/unpin freely.
type EpochReclaimer struct {
	global atomic.Uint64
	active sync.Map // *pinRecord -> struct{}

	mu      sync.Mutex
	retired []retiredFree
}

type pinRecord struct {
	epoch uint64
}

type retiredFree struct {
	epoch uint64
	free  func()
}

// NewEpochReclaimer constructs a ready-to-use [EpochReclaimer].
func NewEpochReclaimer() *EpochReclaimer {
	return &EpochReclaimer{}
}

func (r *EpochReclaimer) Pin() PinToken {
	rec := &pinRecord{epoch: r.global.Load()}
	r.active.Store(rec, struct{}{})
	return rec
}

func (r *EpochReclaimer) Unpin(t PinToken) {
	r.active.Delete(t)
}

func (r *EpochReclaimer) Retire(free func()) {
	epoch := r.global.Add(1) - 1
	r.mu.Lock()
	r.retired = append(r.retired, retiredFree{epoch: epoch, free: free})
	r.mu.Unlock()
	r.sweep()
}

// sweep frees everything retired strictly before the oldest currently
// pinned epoch. Called opportunistically from Retire; never required for
// correctness (a bounded backlog of unswept frees is harmless under Go's
// GC — it only delays pool reuse, it never causes a safety violation).
func (r *EpochReclaimer) sweep() {
	min := r.global.Load()
	r.active.Range(func(key, _ any) bool {
		if e := key.(*pinRecord).epoch; e < min {
			min = e
		}
		return true
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.retired[:0]
	for _, item := range r.retired {
		if item.epoch < min {
			item.free()
		} else {
			kept = append(kept, item)
		}
	}
	r.retired = kept
}
