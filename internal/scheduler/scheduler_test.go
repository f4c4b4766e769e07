package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual(t *testing.T) {
	t.Run("Runs queued tasks on tick", func(t *testing.T) {
		// Given: two scheduled tasks
		sched := NewManual()
		var calls []int
		sched.Schedule(time.Second, func() { calls = append(calls, 1) })
		sched.Schedule(2*time.Second, func() { calls = append(calls, 2) })

		require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sched.Pending())

		// When: the clock ticks
		ran := sched.Tick()

		// Then: both tasks ran in order and nothing is left
		assert.Equal(t, 2, ran)
		assert.Equal(t, []int{1, 2}, calls)
		assert.Empty(t, sched.Pending())
		assert.Zero(t, sched.Tick())
	})

	t.Run("Cancelled task never runs", func(t *testing.T) {
		// Given: a scheduled task that is cancelled
		sched := NewManual()
		var called bool
		cancel := sched.Schedule(time.Second, func() { called = true })
		cancel()
		cancel()

		// When: the clock ticks
		ran := sched.Tick()

		// Then: the task did not run
		assert.Zero(t, ran)
		assert.False(t, called)
	})

	t.Run("Tasks scheduled while ticking wait for the next tick", func(t *testing.T) {
		sched := NewManual()
		var second bool
		sched.Schedule(0, func() {
			sched.Schedule(0, func() { second = true })
		})

		assert.Equal(t, 1, sched.Tick())
		assert.False(t, second)

		assert.Equal(t, 1, sched.Tick())
		assert.True(t, second)
	})
}

func TestTimer(t *testing.T) {
	t.Run("Runs the task after the delay", func(t *testing.T) {
		sched := NewTimer()
		done := make(chan struct{})

		sched.Schedule(time.Millisecond, func() { close(done) })

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("task did not run")
		}
	})

	t.Run("Cancel stops the task", func(t *testing.T) {
		sched := NewTimer()
		var called atomic.Bool

		cancel := sched.Schedule(50*time.Millisecond, func() { called.Store(true) })
		cancel()

		time.Sleep(100 * time.Millisecond)
		assert.False(t, called.Load())
	})
}
