package engine

import (
	"github.com/spoturno/hpc/pkg/common"
)

// searchNode is the negamax core. It returns a score for the position at
// t.stack[height] inside the window [alpha, beta). The principal variation,
// when the node is a PV node and alpha improved, is left in
// t.stack[height].pv. A stop observed at height > 0 returns the sentinel 0,
// which callers above the root discard.
func (t *thread) searchNode(alpha, beta, depth, height int) int {
	if depth <= 0 {
		return t.qsearchNode(alpha, beta, height)
	}

	var sg = t.engine.sg
	t.stack[height].pv.clear()
	var position = &t.stack[height].position
	var isCheck = position.IsCheck()

	if height > 0 {
		if sg.Stop() {
			return valueDraw
		}
		if position.Rule50 >= 100 || t.isRepeat(height) {
			return valueDraw
		}
		if height >= maxHeight {
			return t.engine.evaluator.Evaluate(position)
		}
		// mate distance pruning
		alpha = common.Max(alpha, lossIn(height))
		beta = common.Min(beta, winIn(height))
		if alpha >= beta {
			return alpha
		}
	}

	var pvNode = beta != alpha+1

	var ttDepth, ttScore, ttBound, ttMove, ttHit = t.engine.transTable.Read(position.Key)
	if ttHit {
		ttScore = scoreFromTT(ttScore, height)
		if !pvNode && ttDepth >= depth {
			if ttBound == boundExact ||
				(ttBound == boundLower && ttScore >= beta) ||
				(ttBound == boundUpper && ttScore <= alpha) {
				return ttScore
			}
		}
	}

	sg.IncNodes()

	var child = &t.stack[height+1].position
	var ml = position.GenerateMoves(t.stack[height].moveList[:])
	var legal = 0
	for i := range ml {
		if position.MakeMove(ml[i].Move, child) {
			ml[legal] = ml[i]
			legal++
		}
	}
	ml = ml[:legal]

	if len(ml) == 0 {
		if isCheck {
			return lossIn(height)
		}
		return valueDraw
	}

	// null-move pruning: hand the opponent a free move; still failing high
	// means this node almost surely would too.
	if t.engine.Options.NullMovePruning &&
		!pvNode && !isCheck && depth >= 3 && height > 0 &&
		t.engine.evaluator.Evaluate(position) >= beta {
		const nullReduction = 3
		position.MakeNullMove(child)
		var score = -t.searchNode(-beta, -beta+1, depth-nullReduction-1, height+1)
		if score >= beta {
			return beta
		}
	}

	orderMoves(position, ml, ttMove)

	var best = -valueInfinity
	var bestMove = common.MoveEmpty
	var oldAlpha = alpha

	for i := range ml {
		var move = ml[i].Move
		position.MakeMove(move, child)

		var newDepth = depth - 1
		var reduced = false
		// late-move reduction for quiet moves sorted far down the list
		if t.engine.Options.LateMoveReductions &&
			i >= 3 && depth > 2 && !child.IsCheck() &&
			!isCaptureOrPromotion(move) {
			newDepth = common.Max(1, depth-2)
			reduced = true
		}

		var score int
		if i == 0 {
			score = -t.searchNode(-beta, -alpha, newDepth, height+1)
		} else {
			score = -t.searchNode(-(alpha + 1), -alpha, newDepth, height+1)
			if score > alpha && reduced {
				score = -t.searchNode(-(alpha + 1), -alpha, depth-1, height+1)
			}
			if score > alpha {
				score = -t.searchNode(-beta, -alpha, depth-1, height+1)
			}
		}

		if height > 0 && sg.Stop() {
			return valueDraw
		}

		if score > best {
			best = score
			bestMove = move
		}
		if best > alpha {
			alpha = best
			if pvNode {
				t.assignPV(height, move)
			}
			if alpha >= beta {
				break
			}
		}
	}

	var bound int
	switch {
	case best >= beta:
		bound = boundLower
	case best <= oldAlpha:
		bound = boundUpper
	default:
		bound = boundExact
	}
	t.engine.transTable.Update(position.Key, depth, scoreToTT(best, height), bound, bestMove)

	return best
}

// qsearchNode extends the horizon over forcing moves only: captures,
// promotions, and every evasion while in check.
func (t *thread) qsearchNode(alpha, beta, height int) int {
	t.stack[height].pv.clear()
	var sg = t.engine.sg
	if sg.Stop() {
		return valueDraw
	}
	sg.IncNodes()

	var position = &t.stack[height].position
	if height >= maxHeight {
		return t.engine.evaluator.Evaluate(position)
	}

	var isCheck = position.IsCheck()

	// stand pat
	var staticEval = t.engine.evaluator.Evaluate(position)
	if staticEval >= beta {
		return beta
	}
	if staticEval > alpha {
		alpha = staticEval
	}

	var ml []common.OrderedMove
	if isCheck {
		ml = position.GenerateMoves(t.stack[height].moveList[:])
	} else {
		ml = position.GenerateForcing(t.stack[height].moveList[:])
	}
	orderMoves(position, ml, common.MoveEmpty)

	var child = &t.stack[height+1].position
	var hasLegalMove = false
	for i := range ml {
		if !position.MakeMove(ml[i].Move, child) {
			continue
		}
		hasLegalMove = true
		var score = -t.qsearchNode(-beta, -alpha, height+1)
		if score > alpha {
			alpha = score
			if alpha >= beta {
				break
			}
		}
	}

	if isCheck && !hasLegalMove {
		return lossIn(height)
	}
	return alpha
}

// isRepeat walks the positions below height on this thread's stack, then the
// game history the driver snapshots, looking for a key match.
func (t *thread) isRepeat(height int) bool {
	var p = &t.stack[height].position
	if p.Rule50 == 0 || p.LastMove == common.MoveEmpty {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var prev = &t.stack[i].position
		if prev.Key == p.Key {
			return true
		}
		if prev.Rule50 == 0 || prev.LastMove == common.MoveEmpty {
			return false
		}
	}
	return t.engine.historyKeys[p.Key] >= 2
}
