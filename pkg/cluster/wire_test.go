package cluster

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWorkFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	const fen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	if err := writeWork(&buf, fen, 7); err != nil {
		t.Fatal(err)
	}
	var gotFen, gotDepth, kind, err = readWork(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if kind != workSearch || gotFen != fen || gotDepth != 7 {
		t.Errorf("got kind=%v fen=%q depth=%d", kind, gotFen, gotDepth)
	}
}

func TestWorkSignals(t *testing.T) {
	var buf bytes.Buffer
	if err := writeNoWork(&buf); err != nil {
		t.Fatal(err)
	}
	if err := writeTerminate(&buf); err != nil {
		t.Fatal(err)
	}
	if _, _, kind, err := readWork(&buf); err != nil || kind != workNone {
		t.Errorf("expected no-work signal, got kind=%v err=%v", kind, err)
	}
	if _, _, kind, err := readWork(&buf); err != nil || kind != workTerminate {
		t.Errorf("expected terminate signal, got kind=%v err=%v", kind, err)
	}
}

func TestResultFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	var pv = []uint16{0x0C1C, 0x0E24, 0x1234}
	if err := writeResult(&buf, -125, 987654, pv); err != nil {
		t.Fatal(err)
	}
	var score, nodes, gotPV, err = readResult(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if score != -125 || nodes != 987654 {
		t.Errorf("got score=%d nodes=%d", score, nodes)
	}
	if diff := cmp.Diff(pv, gotPV); diff != "" {
		t.Errorf("pv mismatch (-want +got):\n%s", diff)
	}
}

func TestResultFrameEmptyPV(t *testing.T) {
	var buf bytes.Buffer
	if err := writeResult(&buf, 0, 1, nil); err != nil {
		t.Fatal(err)
	}
	var _, _, pv, err = readResult(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(pv) != 0 {
		t.Errorf("expected empty pv, got %v", pv)
	}
}

func TestTagMismatchRejected(t *testing.T) {
	var buf bytes.Buffer
	if err := writeResult(&buf, 1, 1, nil); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := readWork(&buf); err == nil {
		t.Error("reading a result frame as work must fail")
	}
}
