// Package schedule drives repeating per-frame tasks from a single refresh loop,
// the way a display refresh signal drives animation callbacks.
package schedule

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval approximates a 60 Hz display.
const DefaultInterval = time.Second / 60

// Frame is passed to tasks on every refresh.
type Frame struct {
	Now     time.Time
	Elapsed time.Duration // since the scheduler was created
}

// TaskFunc runs once per refresh while its task is armed. Returning false
// disarms the task.
type TaskFunc func(f Frame) bool

// Task is a repeating handle. A task starts disarmed.
type Task struct {
	name  string
	fn    TaskFunc
	armed atomic.Bool
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Start arms the task. Starting an armed task does nothing.
func (t *Task) Start() { t.armed.Store(true) }

// Stop disarms the task.
func (t *Task) Stop() { t.armed.Store(false) }

// Armed reports whether the task runs on the next refresh.
func (t *Task) Armed() bool { return t.armed.Load() }

// Scheduler calls armed tasks in registration order on every refresh.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	start    time.Time
	logger   *slog.Logger

	mu    sync.Mutex
	tasks []*Task
	steps uint64
}

// New creates a scheduler. A nil clock uses SystemClock and a non-positive
// interval uses DefaultInterval.
func New(clock Clock, interval time.Duration, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		clock:    clock,
		interval: interval,
		start:    clock.Now(),
		logger:   logger,
	}
}

// NewTask registers a disarmed task.
func (s *Scheduler) NewTask(name string, fn TaskFunc) *Task {
	t := &Task{name: name, fn: fn}
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	return t
}

// Step performs one refresh.
func (s *Scheduler) Step() {
	s.mu.Lock()
	tasks := append([]*Task(nil), s.tasks...)
	s.steps++
	s.mu.Unlock()

	now := s.clock.Now()
	f := Frame{Now: now, Elapsed: now.Sub(s.start)}
	for _, t := range tasks {
		if !t.Armed() {
			continue
		}
		if !t.fn(f) {
			t.Stop()
			s.log().Debug("Task disarmed itself", "task", t.name)
		}
	}
}

// Steps returns the number of refreshes performed.
func (s *Scheduler) Steps() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}

// Run refreshes every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log().Debug("Scheduler started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log().Debug("Scheduler stopped", "steps", s.Steps())
			return nil
		case <-ticker.C:
			s.Step()
		}
	}
}

func (s *Scheduler) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
