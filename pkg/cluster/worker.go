package cluster

import (
	"fmt"
	"log"
	"net"

	"github.com/spoturno/hpc/pkg/common"
	"github.com/spoturno/hpc/pkg/engine"
)

// RunWorker dials the master and serves dispatched positions until the
// terminate sentinel arrives. The master consumed one ply by making the
// root move before sending, so each item searches depth-1 from the child.
func RunWorker(addr string, e *engine.Engine, logger *log.Logger) error {
	var conn, err = net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("cluster: dial %v: %w", addr, err)
	}
	defer conn.Close()
	if logger != nil {
		logger.Printf("cluster: serving master at %v", addr)
	}

	for {
		var fen, depth, kind, err = readWork(conn)
		if err != nil {
			return fmt.Errorf("cluster: receive work: %w", err)
		}
		switch kind {
		case workTerminate:
			if logger != nil {
				logger.Printf("cluster: terminate received")
			}
			return nil
		case workNone:
			continue
		}

		var pos, perr = common.ParseFEN(fen)
		if perr != nil {
			return fmt.Errorf("cluster: bad dispatched position: %w", perr)
		}

		var score, pv, nodes = e.SearchWorkItem(&pos, depth-1)

		var wire = make([]uint16, len(pv))
		for i, m := range pv {
			wire[i] = m.Wire()
		}
		if err := writeResult(conn, score, nodes, wire); err != nil {
			return fmt.Errorf("cluster: send result: %w", err)
		}
	}
}
