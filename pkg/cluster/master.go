package cluster

import (
	"context"
	"fmt"
	"log"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/spoturno/hpc/pkg/common"
	"github.com/spoturno/hpc/pkg/engine"
)

// Master owns the search root and farms root moves out to connected
// workers. It implements engine.RootScheduler. All writes to worker
// connections happen on the goroutine calling SearchRoot, except the
// shutdown sentinel, which Terminate sends from its caller; one resident
// reader goroutine per connection forwards results into a shared channel,
// which is the whole of the threading model the transport needs.
type Master struct {
	listener net.Listener
	conns    []net.Conn
	results  chan workerResult
	done     chan struct{}
	group    *errgroup.Group
	logger   *log.Logger
}

type workerResult struct {
	worker int
	score  int
	nodes  int64
	pv     []uint16
	err    error
}

// NewMaster listens on addr for worker connections.
func NewMaster(addr string, logger *log.Logger) (*Master, error) {
	var ln, err = net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("cluster: listen %v: %w", addr, err)
	}
	return &Master{
		listener: ln,
		results:  make(chan workerResult),
		done:     make(chan struct{}),
		group:    new(errgroup.Group),
		logger:   logger,
	}, nil
}

func (m *Master) Addr() string {
	return m.listener.Addr().String()
}

// WaitForWorkers accepts exactly n worker connections and starts their
// result readers. ctx bounds the wait.
func (m *Master) WaitForWorkers(ctx context.Context, n int) error {
	if deadline, ok := ctx.Deadline(); ok {
		if tcp, isTCP := m.listener.(*net.TCPListener); isTCP {
			tcp.SetDeadline(deadline)
		}
	}
	for len(m.conns) < n {
		var conn, err = m.listener.Accept()
		if err != nil {
			return fmt.Errorf("cluster: accept: %w", err)
		}
		var worker = len(m.conns)
		m.conns = append(m.conns, conn)
		m.group.Go(func() error {
			return m.readResults(worker, conn)
		})
		if m.logger != nil {
			m.logger.Printf("cluster: worker %d connected from %v", worker+1, conn.RemoteAddr())
		}
	}
	return nil
}

func (m *Master) readResults(worker int, conn net.Conn) error {
	for {
		var score, nodes, pv, err = readResult(conn)
		select {
		case m.results <- workerResult{worker: worker, score: score, nodes: nodes, pv: pv, err: err}:
		case <-m.done:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Master) WorkerCount() int {
	return len(m.conns)
}

// SearchRoot runs one depth iteration of the root position: seed every
// worker with a root move, then hand each freed worker the next pending
// move until the list drains. Received scores are from the child's side and
// are negated here; the dispatched move is prepended to the received PV.
func (m *Master) SearchRoot(pos *common.Position, depth int, sg *engine.SearchGlobals) (int, []common.Move, error) {
	var buffer [common.MaxMoves]common.OrderedMove
	var ml = pos.GenerateMoves(buffer[:])
	var trial common.Position
	var legal = 0
	for i := range ml {
		if pos.MakeMove(ml[i].Move, &trial) {
			ml[legal] = ml[i]
			legal++
		}
	}
	ml = ml[:legal]

	if len(ml) == 0 {
		if pos.IsCheck() {
			return -valueMate, nil, nil
		}
		return 0, nil, nil
	}

	engine.OrderRootMoves(pos, ml)

	var dispatched = make([]common.Move, len(m.conns))
	var moveIndex = 0
	var completed = 0

	var sendNext = func(worker int) error {
		if moveIndex >= len(ml) {
			return writeNoWork(m.conns[worker])
		}
		var move = ml[moveIndex].Move
		var child common.Position
		pos.MakeMove(move, &child)
		if err := writeWork(m.conns[worker], child.String(), depth); err != nil {
			return err
		}
		dispatched[worker] = move
		moveIndex++
		return nil
	}

	// seed phase
	for worker := range m.conns {
		if err := sendNext(worker); err != nil {
			return 0, nil, fmt.Errorf("cluster: dispatch to worker %d: %w", worker+1, err)
		}
	}

	// steady phase
	var bestScore = -valueInfinity
	var bestPV []common.Move
	for completed < len(ml) {
		var res = <-m.results
		if res.err != nil {
			return 0, nil, fmt.Errorf("cluster: worker %d: %w", res.worker+1, res.err)
		}

		var move = dispatched[res.worker]
		sg.AddNodes(res.nodes)

		var score = -res.score
		var pv = append([]common.Move{move}, decodePV(pos, move, res.pv)...)
		if score > bestScore {
			bestScore = score
			bestPV = pv
		}
		completed++

		if err := sendNext(res.worker); err != nil {
			return 0, nil, fmt.Errorf("cluster: dispatch to worker %d: %w", res.worker+1, err)
		}
	}

	return bestScore, bestPV, nil
}

// decodePV turns wire moves back into full moves by walking them from the
// dispatched child position. A move that fails to decode truncates the PV.
func decodePV(root *common.Position, move common.Move, wire []uint16) []common.Move {
	var pv []common.Move
	var cur, next common.Position
	root.MakeMove(move, &cur)
	for _, w := range wire {
		var m = common.MoveFromWire(&cur, w)
		if m == common.MoveEmpty {
			break
		}
		pv = append(pv, m)
		cur.MakeMove(m, &next)
		cur = next
	}
	return pv
}

// Terminate sends every worker the shutdown sentinel and closes the
// transport.
func (m *Master) Terminate() {
	close(m.done)
	for _, conn := range m.conns {
		writeTerminate(conn)
	}
	if m.listener != nil {
		m.listener.Close()
	}
	// workers close their end after reading the sentinel, which unblocks
	// the readers
	m.group.Wait()
	for _, conn := range m.conns {
		conn.Close()
	}
}

// Mirrors the engine's score bounds for the empty-root sentinel.
const (
	valueMate     = 30000
	valueInfinity = valueMate + 1
)
