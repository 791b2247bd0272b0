// Package worker runs the fixed pool of goroutines that classify queued
// lines and update the shared counters.
package worker

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atikulmunna/logtally/internal/aggregator"
	"github.com/atikulmunna/logtally/internal/model"
	"github.com/atikulmunna/logtally/internal/parser"
	"github.com/atikulmunna/logtally/internal/queue"
)

// DefaultPoolSize is the number of workers used when none is configured.
const DefaultPoolSize = 4

// ErrWorkerAborted reports a worker that stopped before the queue was drained.
var ErrWorkerAborted = errors.New("worker terminated abnormally")

// Pool consumes a shared queue with a fixed number of workers.
type Pool struct {
	size     int
	queue    *queue.Queue
	counters *aggregator.Counters
	log      *zap.Logger
	group    errgroup.Group

	// process handles one line; tests replace it to simulate a crash.
	process func(model.RawLine)
}

// NewPool creates a pool of size workers. A size below 1 is raised to 1.
// A nil logger disables diagnostics.
func NewPool(size int, q *queue.Queue, c *aggregator.Counters, log *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool{
		size:     size,
		queue:    q,
		counters: c,
		log:      log,
	}
	p.process = p.record
	return p
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int { return p.size }

// Start launches every worker. It must be called once, before any line is sent.
func (p *Pool) Start() {
	for id := 1; id <= p.size; id++ {
		id := id
		p.group.Go(func() error { return p.run(id) })
	}
}

// Wait blocks until every worker has terminated. It returns the first
// abnormal termination, in which case the counters are incomplete.
func (p *Pool) Wait() error {
	return p.group.Wait()
}

// run is the worker loop: receive, classify, count, until the queue is
// closed and empty.
func (p *Pool) run(id int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: worker %d: %v", ErrWorkerAborted, id, r)
			p.log.Error("worker aborted", zap.Int("worker", id), zap.Any("panic", r))
		}
	}()

	p.log.Debug("worker started", zap.Int("worker", id))
	var handled int
	for {
		line, ok := p.queue.Recv()
		if !ok {
			break
		}
		p.process(line)
		handled++
	}
	p.log.Debug("worker stopped", zap.Int("worker", id), zap.Int("lines", handled))
	return nil
}

func (p *Pool) record(line model.RawLine) {
	p.counters.Record(parser.Classify(line.Text))
}
