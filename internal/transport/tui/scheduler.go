package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/tictactoe-local/internal/scheduler"
)

// taskMsg tells the model that the scheduled task with id is due.
type taskMsg struct {
	id uint64
}

type queuedTask struct {
	id    uint64
	delay time.Duration
}

// teaScheduler turns scheduled tasks into tea.Tick commands so that they run
// on the program's event loop, never concurrently with Update.
type teaScheduler struct {
	mu     sync.Mutex
	nextID uint64
	tasks  map[uint64]func()
	queued []queuedTask
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{
		tasks: make(map[uint64]func()),
	}
}

func (that *teaScheduler) Schedule(delay time.Duration, task func()) scheduler.CancelFunc {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.nextID++
	id := that.nextID

	that.tasks[id] = task
	that.queued = append(that.queued, queuedTask{id: id, delay: delay})

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		delete(that.tasks, id)
	}
}

// commands returns a tick command for every task queued since the last call.
func (that *teaScheduler) commands() []tea.Cmd {
	that.mu.Lock()
	queued := that.queued
	that.queued = nil
	that.mu.Unlock()

	cmds := make([]tea.Cmd, 0, len(queued))
	for _, task := range queued {
		id := task.id
		cmds = append(cmds, tea.Tick(task.delay, func(time.Time) tea.Msg {
			return taskMsg{id: id}
		}))
	}

	return cmds
}

func (that *teaScheduler) run(id uint64) bool {
	that.mu.Lock()
	task, ok := that.tasks[id]
	delete(that.tasks, id)
	that.mu.Unlock()

	if !ok {
		return false
	}

	task()

	return true
}

func (that *teaScheduler) pending() []uint64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	ids := make([]uint64, 0, len(that.tasks))
	for id := range that.tasks {
		ids = append(ids, id)
	}

	return ids
}
