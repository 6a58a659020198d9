package main

import (
	"context"
	"flag"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/spoturno/hpc/pkg/cluster"
	"github.com/spoturno/hpc/pkg/engine"
	"github.com/spoturno/hpc/pkg/eval"
	"github.com/spoturno/hpc/pkg/uci"
)

const (
	name   = "hpchess"
	author = "spoturno"
)

var versionName = "dev"

var (
	flgListen  string
	flgWorker  string
	flgWorkers int
	flgThreads int
	flgHash    int
)

func main() {
	flag.StringVar(&flgListen, "listen", "", "host a cluster: address to accept workers on")
	flag.StringVar(&flgWorker, "worker", "", "join a cluster: master address to dial")
	flag.IntVar(&flgWorkers, "workers", 0, "number of workers to wait for before serving UCI")
	flag.IntVar(&flgThreads, "threads", runtime.NumCPU(), "search threads per process")
	flag.IntVar(&flgHash, "hash", 32, "transposition table size in megabytes")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags)
	logger.Println(name,
		"VersionName", versionName,
		"RuntimeVersion", runtime.Version())

	var e = engine.NewEngine(eval.NewEvaluationService())
	e.Threads = flgThreads
	e.Hash = flgHash

	if flgWorker != "" {
		// worker role: no UCI session, serve until terminated
		if err := cluster.RunWorker(flgWorker, e, logger); err != nil {
			logger.Println(err)
			os.Exit(1)
		}
		return
	}

	var protocol = uci.New(name, author, versionName, e,
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: 4, Max: 1 << 16, Value: &e.Hash},
			&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &e.Threads},
			&uci.BoolOption{Name: "NullMove", Value: &e.Options.NullMovePruning},
			&uci.BoolOption{Name: "LMR", Value: &e.Options.LateMoveReductions},
		},
	)

	if flgListen != "" {
		var master, err = cluster.NewMaster(flgListen, logger)
		if err != nil {
			logger.Println(err)
			os.Exit(1)
		}
		if flgWorkers > 0 {
			var ctx, cancel = context.WithTimeout(context.Background(), 5*time.Minute)
			err = master.WaitForWorkers(ctx, flgWorkers)
			cancel()
			if err != nil {
				logger.Println(err)
				os.Exit(1)
			}
		}
		if master.WorkerCount() > 0 {
			e.SetRootScheduler(master)
		}
		protocol.OnQuit(master.Terminate)
	}

	protocol.Run(logger)
}
