package common

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFENRoundTrip(t *testing.T) {
	var tests = []string{
		InitialPositionFen,
		"r3k2r/1bppqppp/p1n2n2/2b1p3/B3P3/2NP1N2/1PP2PPP/R1BQ1RK1 b kq - 2 10",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"8/5kBp/3p3P/5pb1/8/5P2/4R2K/3r4 b - - 8 52",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"8/7R/5B2/5P1k/p6p/P6P/6P1/7K b - - 2 58",
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
	}
	for _, fen := range tests {
		var p, err = ParseFEN(fen)
		if err != nil {
			t.Fatalf("%v: %v", fen, err)
		}
		var back, err2 = ParseFEN(p.String())
		if err2 != nil {
			t.Fatalf("%v: reparse: %v", fen, err2)
		}
		if back.Key != p.Key {
			t.Errorf("%v: key changed across round trip", fen)
		}
		if !p.SamePosition(&back) {
			t.Errorf("%v: position changed across round trip", fen)
		}
	}
}

func TestParseFENRejectsGarbage(t *testing.T) {
	for _, fen := range []string{
		"",
		"rnbqkbnr/pppppppp/8/8",
		"8/8/8/8/8/8/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
	} {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("expected error for %q", fen)
		}
	}
}

func TestIncrementalKey(t *testing.T) {
	var p, _ = ParseFEN(InitialPositionFen)
	var line = []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "g8f6", "e1g1", "f6e4"}
	for _, lan := range line {
		var next, ok = p.MakeMoveLAN(lan)
		if !ok {
			t.Fatalf("illegal move %v", lan)
		}
		p = next
		if got, want := p.Key, p.computeKey(); got != want {
			t.Fatalf("after %v: incremental key diverged from computed key", lan)
		}
	}
}

func TestMoveWireRoundTrip(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		var p, err = ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range p.GenerateLegalMoves() {
			var got = MoveFromWire(&p, m.Wire())
			if diff := cmp.Diff(m.String(), got.String()); diff != "" {
				t.Errorf("%v: wire round trip (-want +got):\n%s", fen, diff)
			}
		}
	}
}

func TestCheckEvasions(t *testing.T) {
	// White king on e1 checked by the rook on e8; every generated move that
	// passes the MakeMove filter must resolve the check.
	var p, err = ParseFEN("4r1k1/8/8/8/8/8/3P1P2/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsCheck() {
		t.Fatal("expected check")
	}
	var child Position
	var buffer [MaxMoves]OrderedMove
	var legal = 0
	for _, om := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(om.Move, &child) {
			legal++
			var kingSq = FirstOne(child.Kings & child.White)
			if child.isAttackedBySide(kingSq, false) {
				t.Errorf("evasion %v leaves king in check", om.Move)
			}
		}
	}
	if legal == 0 {
		t.Fatal("expected at least one evasion")
	}
}
