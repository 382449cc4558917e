package bystander

// Cache-line sizing for the padded structs in this package
// (ContentionMeasure is deliberately not padded — it's thread-local and
// never shared — but announceSlot is, since slots are hammered by every
// concurrent helper; the queue's head and tail pointers are not padded).
//
// 128 bytes satisfies both common x86-64 (64B lines, sometimes prefetched
// in adjacent pairs) and Apple Silicon/ARM64 (128B lines) layouts; verified
// indirectly via the allocation-size assertions in layout_test.go.
const (
	sizeOfCacheLine    = 128
	sizeOfAtomicUint64 = 8
)
