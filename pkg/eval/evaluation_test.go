package eval

import (
	"testing"

	"github.com/spoturno/hpc/pkg/common"
)

var symmetryFENs = []string{
	common.InitialPositionFen,
	"r3k2r/1bppqppp/p1n2n2/2b1p3/B3P3/2NP1N2/1PP2PPP/R1BQ1RK1 b kq - 2 10",
	"8/5kBp/3p3P/5pb1/8/5P2/4R2K/3r4 b - - 8 52",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"8/7k/3p4/3P4/8/3K4/8/8 w - - 0 1",
}

// Negamax requires the evaluation to be symmetric in the side to move:
// flipping the board, swapping the colours and handing the move to the
// other side must leave the score unchanged.
func TestEvaluateSymmetry(t *testing.T) {
	var e = NewEvaluationService()
	for _, fen := range symmetryFENs {
		var p, err = common.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		var mirror = common.MirrorPosition(&p)
		if got, want := e.Evaluate(&mirror), e.Evaluate(&p); got != want {
			t.Errorf("%v: mirror eval %v, want %v", fen, got, want)
		}
	}
}

func TestEvaluateStartposBalanced(t *testing.T) {
	var e = NewEvaluationService()
	var p, _ = common.ParseFEN(common.InitialPositionFen)
	if score := e.Evaluate(&p); score != 0 {
		t.Errorf("startpos eval = %v, want 0", score)
	}
}

func TestMaterialAdvantage(t *testing.T) {
	var e = NewEvaluationService()
	// White is a queen up.
	var p, err = common.ParseFEN("4k3/3q4/8/8/8/8/8/QQ2K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if score := e.Evaluate(&p); score < 500 {
		t.Errorf("queen-up eval = %v, want clearly positive", score)
	}
}
