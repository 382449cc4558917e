package bystander

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochReclaimer_RetireRunsOnceUnpinned(t *testing.T) {
	r := NewEpochReclaimer()

	freed := false
	r.Retire(func() { freed = true })

	assert.True(t, freed, "nothing pinned, so retire should free immediately")
}

func TestEpochReclaimer_RetireDeferredWhilePinned(t *testing.T) {
	r := NewEpochReclaimer()

	token := r.Pin()

	freed := false
	r.Retire(func() { freed = true })
	assert.False(t, freed, "a pin predating the retirement must block the free")

	r.Unpin(token)

	// a later Retire call triggers the sweep that frees the earlier one.
	r.Retire(func() {})
	assert.True(t, freed)
}

func TestEpochReclaimer_PinAfterRetireDoesNotBlockIt(t *testing.T) {
	r := NewEpochReclaimer()

	freed := false
	r.Retire(func() { freed = true })
	require.True(t, freed)

	// a pin that starts after the retirement must not prevent it (it
	// already ran) and must not retroactively unfree anything.
	token := r.Pin()
	defer r.Unpin(token)
	assert.True(t, freed)
}

func TestEpochReclaimer_ConcurrentPinUnpinRetire(t *testing.T) {
	r := NewEpochReclaimer()

	const n = 100
	var wg sync.WaitGroup
	var freedCount int
	var mu sync.Mutex

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := r.Pin()
			defer r.Unpin(token)
			r.Retire(func() {
				mu.Lock()
				freedCount++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	// drain anything still pending now that everything is unpinned.
	r.Retire(func() {})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, n, freedCount, "every retired free must eventually run exactly once")
}

func TestPin_BracketsCallWithPinUnpin(t *testing.T) {
	r := NewEpochReclaimer()

	ran := false
	pin(r, func() {
		ran = true
		assert.Equal(t, 1, countActive(r), "fn must run with its own pin active")
	})
	assert.True(t, ran)
	assert.Equal(t, 0, countActive(r), "Unpin must run even though fn completed normally")
}

func countActive(r *EpochReclaimer) int {
	n := 0
	r.active.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
