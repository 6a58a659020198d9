package engine

import (
	"testing"

	"github.com/spoturno/hpc/pkg/common"
)

func TestTransTableRoundTrip(t *testing.T) {
	var tt = newTransTable(1)
	const key = uint64(0xDEADBEEFCAFEBABE)
	var stored = common.Move(0x1234)
	tt.Update(key, 7, 42, boundExact, stored)

	var depth, score, bound, m, ok = tt.Read(key)
	if !ok {
		t.Fatal("probe missed a fresh store")
	}
	if depth != 7 || score != 42 || bound != boundExact || m != stored {
		t.Errorf("got depth=%d score=%d bound=%d move=%v", depth, score, bound, m)
	}
}

func TestTransTableKeyMismatchIsMiss(t *testing.T) {
	var tt = newTransTable(1)
	tt.Update(100, 5, 10, boundLower, common.Move(1))
	if _, _, _, _, ok := tt.Read(101); ok {
		t.Error("probe of a different key must miss")
	}
}

func TestTransTableNegativeScores(t *testing.T) {
	var tt = newTransTable(1)
	tt.Update(7, 3, -29995, boundUpper, common.MoveEmpty)
	var _, score, _, _, ok = tt.Read(7)
	if !ok || score != -29995 {
		t.Errorf("negative score round trip: ok=%v score=%d", ok, score)
	}
}

func TestTransTableDepthPreferred(t *testing.T) {
	var tt = newTransTable(1)
	const key = uint64(42)
	tt.Update(key, 9, 1, boundLower, common.Move(1))
	// shallower non-exact store for the same key must not evict
	tt.Update(key, 2, 2, boundLower, common.Move(2))
	var depth, score, _, _, ok = tt.Read(key)
	if !ok || depth != 9 || score != 1 {
		t.Errorf("shallow store evicted deeper entry: depth=%d score=%d", depth, score)
	}
	// a different position always evicts
	var other = key + uint64(len(tt.entries))
	tt.Update(other, 1, 3, boundUpper, common.Move(3))
	if _, _, _, _, ok := tt.Read(key); ok {
		t.Error("expected eviction by colliding key")
	}
}

func TestTransTableClear(t *testing.T) {
	var tt = newTransTable(1)
	tt.Update(9, 4, 50, boundExact, common.Move(5))
	tt.Clear()
	if _, _, _, _, ok := tt.Read(9); ok {
		t.Error("entry survived Clear")
	}
}
