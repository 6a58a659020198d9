package engine

import (
	"github.com/spoturno/hpc/pkg/common"
	"github.com/spoturno/hpc/pkg/eval"
)

// orderMoves keys ml for the in-place sort: hash move first, then en-passant
// captures and captures whose gain (victim minus attacker value) is at least
// half a pawn, then the remaining captures, each tier by descending gain,
// then quiets in generation order.
func orderMoves(p *common.Position, ml []common.OrderedMove, ttMove common.Move) {
	var equalityBound = pawnValue - 50
	for i := range ml {
		var m = ml[i].Move
		var score int
		if m == ttMove && ttMove != common.MoveEmpty {
			score = 20000
		} else if p.IsEnPassant(m) {
			score = 10000 + pawnValue + 20
		} else if m.CapturedPiece() != common.Empty {
			var gain = eval.Material[m.CapturedPiece()].Mg - eval.Material[m.MovingPiece()].Mg
			if gain >= equalityBound {
				score = 10000 + gain
			} else {
				score = 5000 + gain
			}
		}
		ml[i].Key = int32(score)
	}
	sortMoves(ml)
}

// OrderRootMoves sorts a root move list for dispatch, with no hash move
// available. The cluster master uses it before seeding workers.
func OrderRootMoves(p *common.Position, ml []common.OrderedMove) {
	orderMoves(p, ml, common.MoveEmpty)
}

func sortMoves(moves []common.OrderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}
