package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WorkerPool runs a fixed number of workers that take jobs from the queue.
type WorkerPool struct {
	processor    JobProcessor
	workers      int
	pollInterval time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

func NewWorkerPool(processor JobProcessor, workers int, pollInterval time.Duration) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		processor:    processor,
		workers:      workers,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	slog.Info("Worker pool started", "workers", p.workers)
}

// Stop signals the workers and waits for running jobs to return.
func (p *WorkerPool) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		processed, err := p.processor.ProcessNext(ctx)
		if err != nil {
			slog.Error("Worker failed to process job", "worker", id, "error", err)
		}
		if processed {
			continue
		}

		select {
		case <-time.After(p.pollInterval):
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}
