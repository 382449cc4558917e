package bystander

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestAnnounceSlot_PaddedToCacheLine(t *testing.T) {
	var s announceSlot[int, int]
	assert.GreaterOrEqual(t, unsafe.Sizeof(s), uintptr(sizeOfCacheLine),
		"announceSlot must span at least one full cache line to avoid false sharing between neighbours")
}

func TestAnnounceSlot_ConsecutiveSlotsDoNotShareACacheLine(t *testing.T) {
	slots := make([]announceSlot[int, int], 2)
	first := uintptr(unsafe.Pointer(&slots[0]))
	second := uintptr(unsafe.Pointer(&slots[1]))
	assert.GreaterOrEqual(t, second-first, uintptr(sizeOfCacheLine))
}
