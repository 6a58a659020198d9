// Package engine implements the parallel iterative-deepening alpha-beta
// search: a principal-variation negamax with quiescence, a shared lock-free
// transposition table, root splitting across goroutines and an optional
// hook for distributing root moves across cluster processes.
package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/spoturno/hpc/pkg/common"
)

type Engine struct {
	Hash             int
	Threads          int
	ProgressMinNodes int
	Options          Options
	evaluator        IEvaluator
	transTable       *transTable
	sg               *SearchGlobals
	threads          []thread
	scheduler        RootScheduler
	historyKeys      map[uint64]int
	progress         func(common.SearchInfo)
	mainLine         mainLine
}

// Options toggle the optional pruning schemes. Both default on; switching
// them off gives the plain PVS variant.
type Options struct {
	NullMovePruning    bool
	LateMoveReductions bool
}

type IEvaluator interface {
	Evaluate(p *common.Position) int
}

// RootScheduler distributes the root moves of one depth iteration. The
// cluster master implements it; without one the engine splits the root
// across local threads.
type RootScheduler interface {
	SearchRoot(pos *common.Position, depth int, sg *SearchGlobals) (score int, pv []common.Move, err error)
}

type thread struct {
	engine *Engine
	stack  [stackSize]struct {
		position common.Position
		moveList [common.MaxMoves]common.OrderedMove
		pv       pv
	}
}

type pv struct {
	items [stackSize]common.Move
	size  int
}

type mainLine struct {
	moves []common.Move
	score int
	depth int
}

func NewEngine(evaluator IEvaluator) *Engine {
	return &Engine{
		Hash:             32,
		Threads:          1,
		ProgressMinNodes: 0,
		Options: Options{
			NullMovePruning:    true,
			LateMoveReductions: true,
		},
		evaluator: evaluator,
		sg:        NewSearchGlobals(),
	}
}

func (e *Engine) Prepare() {
	if e.Threads < 1 {
		e.Threads = 1
	}
	if e.transTable == nil || e.transTable.Size() != e.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = newTransTable(e.Hash)
	}
	if len(e.threads) != e.Threads {
		e.threads = make([]thread, e.Threads)
		for i := range e.threads {
			e.threads[i].engine = e
		}
	}
}

func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
}

// SetRootScheduler attaches a cluster scheduler. Pass nil to return to
// single-process search.
func (e *Engine) SetRootScheduler(s RootScheduler) {
	e.scheduler = s
}

func (e *Engine) Globals() *SearchGlobals {
	return e.sg
}

// Search runs iterative deepening to the requested depth and returns the
// deepest completed iteration. Cancelling ctx sets the stop flag; the
// in-progress iteration is discarded.
func (e *Engine) Search(ctx context.Context, params common.SearchParams) common.SearchInfo {
	e.Prepare()
	var p = &params.Positions[len(params.Positions)-1]
	e.sg.Reset(p, params.Limits)
	e.transTable.Clear()
	e.historyKeys = getHistoryKeys(params.Positions)
	e.progress = params.Progress
	e.mainLine = mainLine{}

	var done = make(chan struct{})
	defer close(done)
	go watchdog(ctx, e.sg, params.Limits, done)

	var maxDepth = params.Limits.Depth
	if maxDepth <= 0 || maxDepth > maxHeight {
		maxDepth = maxHeight
	}

	// a root already drawn by rule never starts an iteration
	if p.Rule50 >= 100 || e.historyKeys[p.Key] >= 3 {
		return e.currentSearchResult()
	}

	for depth := 1; depth <= maxDepth; depth++ {
		var score int
		var pvMoves []common.Move
		if e.scheduler != nil {
			var err error
			score, pvMoves, err = e.scheduler.SearchRoot(p, depth, e.sg)
			if err != nil {
				break
			}
		} else {
			score, pvMoves = e.searchRoot(p, depth, 0)
		}
		if depth > 1 && e.sg.Stop() {
			break
		}
		if len(pvMoves) == 0 {
			break
		}
		e.mainLine = mainLine{depth: depth, score: score, moves: pvMoves}
		if e.progress != nil && e.sg.Nodes() >= int64(e.ProgressMinNodes) {
			e.progress(e.currentSearchResult())
		}
	}
	return e.currentSearchResult()
}

// watchdog drives time-based cancellation: it only ever sets the stop flag.
func watchdog(ctx context.Context, sg *SearchGlobals, limits common.LimitsType, done <-chan struct{}) {
	var timeout <-chan time.Time
	if limits.MoveTime > 0 && !limits.Infinite {
		var timer = time.NewTimer(time.Duration(limits.MoveTime) * time.Millisecond)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-ctx.Done():
		sg.SetStop()
	case <-timeout:
		sg.SetStop()
	case <-done:
	}
}

func getHistoryKeys(positions []common.Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if p.Rule50 == 0 {
			break
		}
	}
	return result
}

func (e *Engine) currentSearchResult() common.SearchInfo {
	return common.SearchInfo{
		Depth:    e.mainLine.depth,
		MainLine: e.mainLine.moves,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.sg.Nodes(),
		Time:     e.sg.Elapsed(),
	}
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m common.Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []common.Move {
	var result = make([]common.Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}

func (t *thread) assignPV(height int, move common.Move) {
	t.stack[height].pv.assign(move, &t.stack[height+1].pv)
}
