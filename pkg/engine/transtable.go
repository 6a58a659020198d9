package engine

import (
	"sync/atomic"

	"github.com/spoturno/hpc/pkg/common"
)

const (
	boundLower = 1 + iota
	boundUpper
	boundExact
)

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

// transEntry is two words, 16 bytes. The key word is stored XOR the data
// word, so a torn read reconstructs to a key that cannot match the probe and
// is discarded as a miss. No locks anywhere.
type transEntry struct {
	xkey atomic.Uint64
	data atomic.Uint64
}

// data layout: move(21) | depth(7) | bound(2) | score(16)
func packEntry(move common.Move, depth, bound, score int) uint64 {
	return uint64(uint32(move)&0x1fffff) |
		uint64(depth&0x7f)<<21 |
		uint64(bound&3)<<28 |
		uint64(uint16(int16(score)))<<30
}

func unpackEntry(data uint64) (move common.Move, depth, bound, score int) {
	move = common.Move(data & 0x1fffff)
	depth = int((data >> 21) & 0x7f)
	bound = int((data >> 28) & 3)
	score = int(int16(uint16(data >> 30)))
	return
}

type transTable struct {
	megabytes int
	entries   []transEntry
	mask      uint64
}

func newTransTable(megabytes int) *transTable {
	var size = roundPowerOfTwo(1024 * 1024 * megabytes / 16)
	return &transTable{
		megabytes: megabytes,
		entries:   make([]transEntry, size),
		mask:      uint64(size - 1),
	}
}

func (tt *transTable) Size() int {
	return tt.megabytes
}

func (tt *transTable) Clear() {
	for i := range tt.entries {
		tt.entries[i].xkey.Store(0)
		tt.entries[i].data.Store(0)
	}
}

// Read probes the slot for key. The caller gets ok only when the
// reconstructed key matches, which also rejects torn entries.
func (tt *transTable) Read(key uint64) (depth, score, bound int, move common.Move, ok bool) {
	var entry = &tt.entries[key&tt.mask]
	var data = entry.data.Load()
	if entry.xkey.Load()^data != key {
		return
	}
	move, depth, bound, score = unpackEntry(data)
	ok = true
	return
}

// Update writes the slot for key. Depth-preferred: a different position
// always evicts, the same position only for an equal or deeper search or an
// exact bound.
func (tt *transTable) Update(key uint64, depth, score, bound int, move common.Move) {
	var entry = &tt.entries[key&tt.mask]
	var oldData = entry.data.Load()
	if entry.xkey.Load()^oldData == key {
		var _, oldDepth, _, _ = unpackEntry(oldData)
		if depth < oldDepth && bound != boundExact {
			return
		}
	}
	var data = packEntry(move, depth, bound, score)
	entry.xkey.Store(key ^ data)
	entry.data.Store(data)
}
