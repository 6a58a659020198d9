package cluster

import (
	"context"
	"testing"
	"time"

	"github.com/spoturno/hpc/pkg/common"
	"github.com/spoturno/hpc/pkg/engine"
	"github.com/spoturno/hpc/pkg/eval"
)

// Spin up a master and two in-process workers over loopback TCP and check
// the distributed search agrees with the single-process one.
func TestClusterSearchMatchesLocal(t *testing.T) {
	var master, err = NewMaster("127.0.0.1:0", nil)
	if err != nil {
		t.Fatal(err)
	}

	const workers = 2
	var workerErrs = make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			var we = engine.NewEngine(eval.NewEvaluationService())
			we.Hash = 8
			we.Threads = 2
			workerErrs <- RunWorker(master.Addr(), we, nil)
		}()
	}

	var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := master.WaitForWorkers(ctx, workers); err != nil {
		t.Fatal(err)
	}

	var e = engine.NewEngine(eval.NewEvaluationService())
	e.Hash = 8
	e.Threads = 1
	e.SetRootScheduler(master)

	const fen = "7k/8/R7/1R6/8/8/8/K7 w - - 0 1"
	var p, perr = common.ParseFEN(fen)
	if perr != nil {
		t.Fatal(perr)
	}
	var si = e.Search(context.Background(), common.SearchParams{
		Positions: []common.Position{p},
		Limits:    common.LimitsType{Depth: 4},
	})

	if si.Score.Mate != 2 {
		t.Errorf("cluster search missed mate in 2: %+v (pv %v)", si.Score, si.MainLine)
	}
	if len(si.MainLine) == 0 {
		t.Fatal("cluster search returned no move")
	}

	// the PV must be a legal line from the root
	var cur = p
	for i, m := range si.MainLine {
		var next, ok = cur.MakeMoveLAN(m.String())
		if !ok {
			t.Fatalf("pv move %d (%v) illegal", i, m)
		}
		cur = next
	}

	var local = engine.NewEngine(eval.NewEvaluationService())
	local.Hash = 8
	local.Threads = 1
	var lsi = local.Search(context.Background(), common.SearchParams{
		Positions: []common.Position{p},
		Limits:    common.LimitsType{Depth: 4},
	})
	if lsi.Score != si.Score {
		t.Errorf("cluster score %+v, local score %+v", si.Score, lsi.Score)
	}

	master.Terminate()
	for i := 0; i < workers; i++ {
		select {
		case err := <-workerErrs:
			if err != nil {
				t.Errorf("worker exited with %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("worker failed to terminate")
		}
	}
}

func TestClusterCheckmateRoot(t *testing.T) {
	var master, err = NewMaster("127.0.0.1:0", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer master.Terminate()

	var p, _ = common.ParseFEN("r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4")
	var sg = engine.NewSearchGlobals()
	var score, pv, serr = master.SearchRoot(&p, 3, sg)
	if serr != nil {
		t.Fatal(serr)
	}
	if score != -30000 || pv != nil {
		t.Errorf("checkmated root: score=%d pv=%v", score, pv)
	}
}
