package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/meshwall/internal/logger"
	"github.com/MeKo-Tech/meshwall/internal/testutil"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTask_StartStop(t *testing.T) {
	s := New(NewManualClock(epoch), 0, logger.NewTestLogger())
	calls := 0
	task := s.NewTask("render", func(Frame) bool { calls++; return true })

	assert.Equal(t, "render", task.Name())
	assert.False(t, task.Armed(), "tasks start disarmed")

	s.Step()
	assert.Zero(t, calls)

	task.Start()
	task.Start()
	s.Step()
	s.Step()
	assert.Equal(t, 2, calls)

	task.Stop()
	s.Step()
	assert.Equal(t, 2, calls)
	assert.Equal(t, uint64(4), s.Steps())
}

func TestScheduler_OrderAndElapsed(t *testing.T) {
	clk := NewManualClock(epoch)
	s := New(clk, 0, nil)

	var order []string
	var seen []time.Duration
	s.NewTask("render", func(f Frame) bool {
		order = append(order, "render")
		seen = append(seen, f.Elapsed)
		return true
	}).Start()
	s.NewTask("clock", func(f Frame) bool {
		order = append(order, "clock")
		assert.Equal(t, clk.Now(), f.Now)
		return true
	}).Start()

	s.Step()
	clk.Advance(16 * time.Millisecond)
	s.Step()

	assert.Equal(t, []string{"render", "clock", "render", "clock"}, order)
	assert.Equal(t, []time.Duration{0, 16 * time.Millisecond}, seen)
}

func TestScheduler_TaskDisarmsItself(t *testing.T) {
	s := New(NewManualClock(epoch), 0, nil)
	calls := 0
	task := s.NewTask("once", func(Frame) bool { calls++; return false })
	task.Start()

	s.Step()
	s.Step()
	assert.Equal(t, 1, calls)
	assert.False(t, task.Armed())

	task.Start()
	s.Step()
	assert.Equal(t, 2, calls)
}

func TestScheduler_Run(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	s := New(nil, time.Millisecond, logger.NewTestLogger())
	var mu sync.Mutex
	calls := 0
	s.NewTask("tick", func(Frame) bool {
		mu.Lock()
		calls++
		mu.Unlock()
		return true
	}).Start()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 3
	}, 2*time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil, -1, nil)
	assert.Equal(t, DefaultInterval, s.interval)
	assert.IsType(t, SystemClock{}, s.clock)
}
