// Package worker renders independent animation frames in parallel.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Generator renders and stores one frame. pipeline.FrameGenerator implements it.
type Generator interface {
	Generate(ctx context.Context, task Task) (path string, err error)
}

// Task is a single frame of a sequence.
type Task struct {
	Index   int
	Elapsed time.Duration // animation time the frame is posed at
}

// Result is the outcome of one frame. Path is empty when the frame went to a sink.
type Result struct {
	Task     Task
	Path     string
	Err      error
	Duration time.Duration // wall time spent rendering
}

// ProgressFunc is called after each frame finishes. Calls are serialized.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Generator  Generator
	OnProgress ProgressFunc
}

// Pool renders frame tasks on a fixed number of goroutines.
type Pool struct {
	workers    int
	generator  Generator
	onProgress ProgressFunc
}

// New creates a pool. Fewer than one worker means one.
func New(cfg Config) *Pool {
	return &Pool{
		workers:    max(cfg.Workers, 1),
		generator:  cfg.Generator,
		onProgress: cfg.OnProgress,
	}
}

// Run renders every task and returns one result per task, in task order.
// Once ctx is cancelled the remaining tasks are not started and report
// ctx.Err(). Run returns after all workers have exited.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	results := make([]Result, len(tasks))
	var (
		next      atomic.Int64
		mu        sync.Mutex
		completed int
		failed    int
		wg        sync.WaitGroup
	)

	report := func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		if r.Err != nil {
			failed++
		}
		if p.onProgress != nil {
			p.onProgress(completed, len(tasks), failed)
		}
	}

	for range min(p.workers, len(tasks)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(tasks) {
					return
				}
				results[i] = p.render(ctx, tasks[i])
				report(results[i])
			}
		}()
	}
	wg.Wait()

	return results
}

func (p *Pool) render(ctx context.Context, task Task) Result {
	if err := ctx.Err(); err != nil {
		return Result{Task: task, Err: err}
	}
	start := time.Now()
	path, err := p.generator.Generate(ctx, task)
	return Result{Task: task, Path: path, Err: err, Duration: time.Since(start)}
}
