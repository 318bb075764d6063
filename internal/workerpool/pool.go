// Package workerpool implements a small bounded worker pool whose workers
// are expected to never panic: if one does, the whole pool (and process)
// goes down rather than silently losing a worker, since a missed job in
// this system means a missed server update or a missed action.
package workerpool

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// MaxWorkers is the hard cap on pool size.
const MaxWorkers = 16

// Job names the class of work a submitted function performs, purely for
// logging.
type Job string

// JobRespond is the only job class submitted today: computing and sending
// this bot's action for the round in progress.
const JobRespond Job = "respond"

type task struct {
	job Job
	fn  func()
}

// Pool runs submitted functions on a fixed set of goroutines.
type Pool struct {
	logger *log.Logger
	tasks  chan task
	alive  []*atomic.Bool
	wg     sync.WaitGroup
	done   chan struct{}
}

// New starts a pool of size workers. size must be in (0, MaxWorkers].
func New(size int, logger *log.Logger) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("workerpool: size must be positive, got %d", size)
	}
	if size > MaxWorkers {
		return nil, fmt.Errorf("workerpool: size %d exceeds max %d", size, MaxWorkers)
	}

	p := &Pool{
		logger: logger,
		tasks:  make(chan task, size*4),
		alive:  make([]*atomic.Bool, size),
		done:   make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		flag := &atomic.Bool{}
		flag.Store(true)
		p.alive[i] = flag
		p.wg.Add(1)
		go p.runWorker(i, flag)
	}

	return p, nil
}

func (p *Pool) runWorker(id int, alive *atomic.Bool) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			alive.Store(false)
			p.logger.Fatalf("workerpool: worker %d panicked: %v", id, r)
		}
	}()

	for {
		select {
		case <-p.done:
			return
		case t := <-p.tasks:
			p.logger.Debug("worker received job", "worker", id, "job", t.job)
			t.fn()
		}
	}
}

// Execute enqueues fn for execution on some worker. It panics if any
// worker has already died, matching the pool-wide fail-fast contract: a
// crashed worker means the whole runtime shuts down rather than silently
// running short-handed.
func (p *Pool) Execute(job Job, fn func()) {
	for i, flag := range p.alive {
		if !flag.Load() {
			panic(fmt.Sprintf("workerpool: worker %d is dead, refusing new work", i))
		}
	}
	select {
	case p.tasks <- task{job: job, fn: fn}:
	case <-p.done:
	}
}

// Shutdown stops accepting work and waits for in-flight jobs to finish.
func (p *Pool) Shutdown() {
	close(p.done)
	p.wg.Wait()
}
