package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/aleister1102/jsminer/internal/config"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Task is a unit of work executed by the pool. It receives the pool's context.
type Task func(ctx context.Context)

// MemoryChecker reports whether the process is over its memory budget.
type MemoryChecker interface {
	CheckMemoryLimit() error
}

// Stats is a snapshot of the pool counters.
type Stats struct {
	Submitted int64
	Completed int64
	Failed    int64
	Dropped   int64
}

// Pool is a bounded pool of workers consuming a bounded queue.
// Submit blocks while the queue is full.
type Pool struct {
	ctx     context.Context
	logger  zerolog.Logger
	checker MemoryChecker
	workers int

	tasks   chan Task
	mu      sync.RWMutex
	stopped bool
	workWG  sync.WaitGroup
	pending sync.WaitGroup

	submitted *atomic.Int64
	completed *atomic.Int64
	failed    *atomic.Int64
	dropped   *atomic.Int64
}

// New starts a pool sized by cfg. checker may be nil.
func New(ctx context.Context, cfg config.WorkerPoolConfig, checker MemoryChecker, logger zerolog.Logger) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = config.DefaultWorkerPoolWorkers
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = config.DefaultWorkerPoolQueueSize
	}

	p := &Pool{
		ctx:       ctx,
		logger:    logger.With().Str("component", "WorkerPool").Logger(),
		checker:   checker,
		workers:   workers,
		tasks:     make(chan Task, queueSize),
		submitted: atomic.NewInt64(0),
		completed: atomic.NewInt64(0),
		failed:    atomic.NewInt64(0),
		dropped:   atomic.NewInt64(0),
	}

	for i := 0; i < workers; i++ {
		p.workWG.Add(1)
		go p.worker(i)
	}

	p.logger.Debug().Int("workers", workers).Int("queue_size", queueSize).Msg("Worker pool started")
	return p
}

// Submit queues a task. It blocks while the queue is full and returns false
// when the pool has been stopped.
func (p *Pool) Submit(task Task) bool {
	if task == nil {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		p.dropped.Inc()
		p.logger.Warn().Msg("Task submitted after pool stop, dropping")
		return false
	}

	if p.checker != nil {
		if err := p.checker.CheckMemoryLimit(); err != nil {
			p.logger.Warn().Err(err).Int64("queued", p.Pending()).Msg("Submitting task while over memory budget")
		}
	}

	p.pending.Add(1)
	p.submitted.Inc()
	p.tasks <- task
	return true
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Stop rejects further submissions, lets queued tasks finish and stops the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	p.workWG.Wait()
	stats := p.Stats()
	p.logger.Debug().
		Int64("submitted", stats.Submitted).
		Int64("completed", stats.Completed).
		Int64("failed", stats.Failed).
		Int64("dropped", stats.Dropped).
		Msg("Worker pool stopped")
}

// Stats returns the current counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Dropped:   p.dropped.Load(),
	}
}

// Pending returns the number of submitted tasks that have not finished yet.
func (p *Pool) Pending() int64 {
	return p.submitted.Load() - p.completed.Load() - p.failed.Load()
}

func (p *Pool) worker(id int) {
	defer p.workWG.Done()
	for task := range p.tasks {
		p.run(id, task)
	}
}

func (p *Pool) run(id int, task Task) {
	defer p.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			p.failed.Inc()
			p.logger.Error().
				Int("worker", id).
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("Task panicked")
		}
	}()

	task(p.ctx)
	p.completed.Inc()
}
