// Package counterlf is a minimal normalized lock-free algorithm — a
// single-word counter — used to exercise [bystander.Simulator] end to end
// in tests.
package counterlf

import (
	"sync/atomic"

	"github.com/dmqi/bystander"
)

// Increment is the input to Counter's algorithm: add Delta to the counter.
// The zero value adds 1.
type Increment struct {
	Delta uint64
}

func delta(in Increment) uint64 {
	if in.Delta == 0 {
		return 1
	}
	return in.Delta
}

// Counter is a [bystander.NormalizedLockFree] realizing a wait-free counter
// out of a single atomic word: Generator snapshots the current value and
// proposes old+Delta, WrapUp returns the pre-increment value on success and
// asks for a retry otherwise.
type Counter struct {
	value atomic.Uint64
}

// New returns a Counter starting at zero.
func New() *Counter {
	return &Counter{}
}

// Load returns the counter's current value.
func (c *Counter) Load() uint64 {
	return c.value.Load()
}

func (c *Counter) Generator(in Increment, _ *bystander.ContentionMeasure) bystander.CasList {
	old := c.value.Load()
	return bystander.CasList{&incrementCas{
		addr: &c.value,
		old:  old,
		new:  old + delta(in),
	}}
}

func (c *Counter) WrapUp(outcome bystander.Outcome, list bystander.CasList, contention *bystander.ContentionMeasure) (uint64, bool) {
	if !outcome.Ok {
		contention.Detected()
		return 0, true
	}
	op := list[0].(*incrementCas)
	return op.old, false
}

// incrementCas is the single descriptor Generator produces. Execute is
// idempotent: once the word has moved from old to new (by this descriptor
// or — impossible here, since the word is single-writer-per-value, but
// required by the general [bystander.Cas] contract — some equivalent
// resolution) every subsequent call observes new and returns true; if the
// word has moved to neither old nor new, the attempt has been overtaken by
// someone else's increment and Execute consistently reports failure.
type incrementCas struct {
	addr     *atomic.Uint64
	old, new uint64
}

func (d *incrementCas) Execute() bool {
	for {
		cur := d.addr.Load()
		switch cur {
		case d.new:
			return true
		case d.old:
			if d.addr.CompareAndSwap(d.old, d.new) {
				return true
			}
			// lost the race to another goroutine resolving this exact
			// transition; reload and re-classify.
		default:
			return false
		}
	}
}
