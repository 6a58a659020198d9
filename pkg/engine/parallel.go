package engine

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/spoturno/hpc/pkg/common"
)

// searchRoot runs a depth-deep search of pos, splitting the sorted legal
// root moves across the engine's worker goroutines one move at a time. Each
// worker owns a private position copy and stack; only alpha, the best
// result and the cutoff flag are shared. baseHeight is 0 on the machine that
// owns the real root and 1 on cluster workers, which search a child the
// master has already pushed, so mate distances stay rooted correctly.
func (e *Engine) searchRoot(pos *common.Position, depth, baseHeight int) (int, []common.Move) {
	var buffer [common.MaxMoves]common.OrderedMove
	var ml = pos.GenerateMoves(buffer[:])
	var trial common.Position
	var legal = 0
	for i := range ml {
		if pos.MakeMove(ml[i].Move, &trial) {
			ml[legal] = ml[i]
			legal++
		}
	}
	ml = ml[:legal]

	if len(ml) == 0 {
		if pos.IsCheck() {
			return lossIn(baseHeight), nil
		}
		return valueDraw, nil
	}

	if depth <= 0 {
		var t = &e.threads[0]
		t.stack[baseHeight].position = *pos
		return t.qsearchNode(-valueInfinity, valueInfinity, baseHeight), nil
	}

	var _, _, _, ttMove, _ = e.transTable.Read(pos.Key)
	orderMoves(pos, ml, ttMove)

	var (
		mu          sync.Mutex
		bestScore   = -valueInfinity
		bestPV      []common.Move
		sharedAlpha atomic.Int32
		cutoff      atomic.Bool
		nextIndex   atomic.Int64
	)
	sharedAlpha.Store(-valueInfinity)
	const beta = valueInfinity

	var g errgroup.Group
	var workers = common.Min(common.Max(e.Threads, 1), len(ml))
	for w := 0; w < workers; w++ {
		var t = &e.threads[w]
		g.Go(func() error {
			t.stack[baseHeight].position = *pos
			var parent = &t.stack[baseHeight].position
			var child = &t.stack[baseHeight+1].position
			for {
				// relaxed check; a stale read only costs one extra move
				if cutoff.Load() || e.sg.Stop() {
					return nil
				}
				var i = int(nextIndex.Add(1)) - 1
				if i >= len(ml) {
					return nil
				}
				var move = ml[i].Move
				parent.MakeMove(move, child)

				var alpha = int(sharedAlpha.Load())
				var score int
				if i == 0 {
					score = -t.searchNode(-beta, -alpha, depth-1, baseHeight+1)
				} else {
					score = -t.searchNode(-(alpha + 1), -alpha, depth-1, baseHeight+1)
					if score > alpha && !cutoff.Load() {
						score = -t.searchNode(-beta, -alpha, depth-1, baseHeight+1)
					}
				}
				if e.sg.Stop() {
					// sentinel result, the driver discards this iteration
					return nil
				}

				mu.Lock()
				if score > bestScore {
					bestScore = score
					bestPV = append([]common.Move{move}, t.stack[baseHeight+1].pv.toSlice()...)
					if score > int(sharedAlpha.Load()) {
						sharedAlpha.Store(int32(score))
					}
					if bestScore >= beta {
						cutoff.Store(true)
					}
				}
				mu.Unlock()
			}
		})
	}
	g.Wait()

	return bestScore, bestPV
}

// SearchWorkItem serves one cluster dispatch: a depth-plies search of the
// child position the master already made the root move on. The returned
// node count is this item's delta only.
func (e *Engine) SearchWorkItem(p *common.Position, depth int) (score int, pv []common.Move, nodes int64) {
	e.Prepare()
	var before = e.sg.Nodes()
	score, pv = e.searchRoot(p, depth, 1)
	return score, pv, e.sg.Nodes() - before
}
