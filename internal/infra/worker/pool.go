// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNilTask is returned by Submit for a nil task.
var ErrNilTask = errors.New("nil task")

type Task func(ctx context.Context) error

// Pool runs submitted tasks on a fixed number of goroutines. Close drains the
// queue: every accepted task runs exactly once.
type Pool struct {
	wg        sync.WaitGroup
	jobs      chan Task
	n         int
	log       *zerolog.Logger
	closeOnce sync.Once
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "WorkerPool").Logger()
	return &Pool{jobs: make(chan Task, workers*4), n: workers, log: &l}
}

// Size reports the number of workers.
func (p *Pool) Size() int { return p.n }

// Start launches the workers. Tasks receive ctx and should check it themselves.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for task := range p.jobs {
				if err := task(ctx); err != nil {
					p.log.Debug().Err(err).Int("worker", id).Msg("task error")
				}
			}
		}(i)
	}
}

// Submit queues task, blocking while the queue is full. It must not be called
// after Close.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if task == nil {
		return ErrNilTask
	}
	select {
	case p.jobs <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() { close(p.jobs) })
	p.wg.Wait()
}
