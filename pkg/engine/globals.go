package engine

import (
	"sync/atomic"
	"time"

	"github.com/spoturno/hpc/pkg/common"
)

// SearchGlobals is the state every search branch shares: the cooperative
// stop flag and the node counter, plus root-side snapshots. It is safe for
// concurrent use by any number of goroutines and cluster worker loops.
type SearchGlobals struct {
	stopFlag  atomic.Bool
	nodes     atomic.Int64
	whiteMove bool
	start     time.Time
	limits    common.LimitsType
}

func NewSearchGlobals() *SearchGlobals {
	return &SearchGlobals{}
}

// Reset prepares the globals for a new search rooted at p.
func (sg *SearchGlobals) Reset(p *common.Position, limits common.LimitsType) {
	sg.stopFlag.Store(false)
	sg.nodes.Store(0)
	sg.whiteMove = p.WhiteMove
	sg.start = time.Now()
	sg.limits = limits
}

func (sg *SearchGlobals) Stop() bool {
	return sg.stopFlag.Load()
}

func (sg *SearchGlobals) SetStop() {
	sg.stopFlag.Store(true)
}

func (sg *SearchGlobals) IncNodes() {
	sg.nodes.Add(1)
}

// AddNodes folds a remote worker's node delta into the aggregate in a single
// fetch-add.
func (sg *SearchGlobals) AddNodes(delta int64) {
	sg.nodes.Add(delta)
}

func (sg *SearchGlobals) Nodes() int64 {
	return sg.nodes.Load()
}

// SideToMove is the snapshot of the root mover taken at Reset.
func (sg *SearchGlobals) SideToMove() bool {
	return sg.whiteMove
}

func (sg *SearchGlobals) Elapsed() time.Duration {
	return time.Since(sg.start)
}

func (sg *SearchGlobals) Limits() common.LimitsType {
	return sg.limits
}
