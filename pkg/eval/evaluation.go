// Package eval provides the static evaluation service: material plus
// piece-square tables, scored from the side to move.
package eval

import (
	"github.com/spoturno/hpc/pkg/common"
)

// Score is a midgame/endgame pair, interpolated by remaining material.
type Score struct {
	Mg, Eg int
}

// Material is exported for move ordering, which prices captures from the
// midgame column.
var Material = [common.King + 1]Score{
	common.Pawn:   {100, 120},
	common.Knight: {320, 300},
	common.Bishop: {330, 320},
	common.Rook:   {500, 520},
	common.Queen:  {900, 950},
}

// https://www.chessprogramming.org/Simplified_Evaluation_Function
// Tables are written from White's point of view, rank 8 first.
var pieceSquare = [common.King + 1][64]int{
	common.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	common.Knight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	common.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	common.Rook: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	},
	common.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	common.King: {
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	},
}

var kingEndgame = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// Game phase weights, queen heavy, out of 24.
const maxPhase = 24

var phaseWeight = [common.King + 1]int{
	common.Knight: 1,
	common.Bishop: 1,
	common.Rook:   2,
	common.Queen:  4,
}

type EvaluationService struct{}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

// Evaluate returns centipawns from the point of view of the side to move.
func (e *EvaluationService) Evaluate(p *common.Position) int {
	var mg, eg, phase int

	for bb := p.White | p.Black; bb != 0; bb &= bb - 1 {
		var sq = common.FirstOne(bb)
		var piece = p.WhatPiece(sq)
		var white = (p.White & common.SquareMask[sq]) != 0

		phase += phaseWeight[piece]

		// PST tables are laid out rank 8 first, so White indexes through a
		// flip and Black directly.
		var tableSq = sq
		if white {
			tableSq = common.FlipSquare(sq)
		}
		var mgScore = Material[piece].Mg + pieceSquare[piece][tableSq]
		var egScore = Material[piece].Eg + pieceSquare[piece][tableSq]
		if piece == common.King {
			egScore = kingEndgame[tableSq]
		}
		if white {
			mg += mgScore
			eg += egScore
		} else {
			mg -= mgScore
			eg -= egScore
		}
	}

	if phase > maxPhase {
		phase = maxPhase
	}
	var result = (mg*phase + eg*(maxPhase-phase)) / maxPhase

	if !p.WhiteMove {
		result = -result
	}
	return result
}
