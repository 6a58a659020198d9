package engine

import (
	"github.com/spoturno/hpc/pkg/common"
	"github.com/spoturno/hpc/pkg/eval"
)

const (
	stackSize     = 128
	maxHeight     = stackSize - 1
	valueDraw     = 0
	valueMate     = 30000
	valueInfinity = valueMate + 1
	valueWin      = valueMate - stackSize
	valueLoss     = -valueWin
)

func winIn(height int) int {
	return valueMate - height
}

func lossIn(height int) int {
	return -valueMate + height
}

// Mate scores are stored relative to the probing node, not the root, so the
// same entry stays valid at any ply.
func scoreToTT(v, height int) int {
	if v >= valueWin {
		return v + height
	}
	if v <= valueLoss {
		return v - height
	}
	return v
}

func scoreFromTT(v, height int) int {
	if v >= valueWin {
		return v - height
	}
	if v <= valueLoss {
		return v + height
	}
	return v
}

func newUciScore(v int) common.UciScore {
	if v >= valueWin {
		return common.UciScore{Mate: (valueMate - v + 1) / 2}
	} else if v <= valueLoss {
		return common.UciScore{Mate: (-valueMate - v) / 2}
	}
	return common.UciScore{Centipawns: v}
}

func isCaptureOrPromotion(move common.Move) bool {
	return move.CapturedPiece() != common.Empty ||
		move.Promotion() != common.Empty
}

var pawnValue = eval.Material[common.Pawn].Mg
