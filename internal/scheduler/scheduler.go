package scheduler

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled task. Calling it after the task ran, or more
// than once, does nothing.
type CancelFunc func()

// Scheduler runs a task once after a delay.
type Scheduler interface {
	Schedule(delay time.Duration, task func()) CancelFunc
}

// Timer schedules tasks on the wall clock. Tasks run on their own goroutine.
type Timer struct{}

func NewTimer() *Timer {
	return &Timer{}
}

func (that *Timer) Schedule(delay time.Duration, task func()) CancelFunc {
	timer := time.AfterFunc(delay, task)

	return func() {
		timer.Stop()
	}
}

type manualTask struct {
	delay     time.Duration
	task      func()
	cancelled bool
}

// Manual holds tasks until Tick is called. It is the clock used by tests.
type Manual struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func NewManual() *Manual {
	return &Manual{}
}

func (that *Manual) Schedule(delay time.Duration, task func()) CancelFunc {
	that.mu.Lock()
	defer that.mu.Unlock()

	scheduled := &manualTask{delay: delay, task: task}
	that.tasks = append(that.tasks, scheduled)

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		scheduled.cancelled = true
	}
}

// Tick runs every task queued so far that was not cancelled and returns how
// many ran. Tasks scheduled while ticking wait for the next Tick.
func (that *Manual) Tick() int {
	that.mu.Lock()
	tasks := that.tasks
	that.tasks = nil
	that.mu.Unlock()

	var ran int
	for _, scheduled := range tasks {
		that.mu.Lock()
		cancelled := scheduled.cancelled
		that.mu.Unlock()

		if cancelled {
			continue
		}

		scheduled.task()
		ran++
	}

	return ran
}

// Pending returns the delays of the queued tasks that are not cancelled.
func (that *Manual) Pending() []time.Duration {
	that.mu.Lock()
	defer that.mu.Unlock()

	delays := make([]time.Duration, 0, len(that.tasks))
	for _, scheduled := range that.tasks {
		if !scheduled.cancelled {
			delays = append(delays, scheduled.delay)
		}
	}

	return delays
}
