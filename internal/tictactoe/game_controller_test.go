package tictactoe

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSink struct {
	mock.Mock
}

func (that *mockSink) OnBoardChanged(cells [entity.BoardSize]entity.Mark) {
	that.Called(cells)
}

func (that *mockSink) OnTurnChanged(active entity.Player) {
	that.Called(active)
}

func (that *mockSink) OnGameEnded(message string) {
	that.Called(message)
}

// recordingSink keeps every notification in arrival order.
type recordingSink struct {
	mu       sync.Mutex
	events   []string
	board    [entity.BoardSize]entity.Mark
	messages []string
}

func (that *recordingSink) OnBoardChanged(cells [entity.BoardSize]entity.Mark) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, "board")
	that.board = cells
}

func (that *recordingSink) OnTurnChanged(active entity.Player) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, "turn:"+active.Name)
}

func (that *recordingSink) OnGameEnded(message string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, "end:"+message)
	that.messages = append(that.messages, message)
}

func (that *recordingSink) Events() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]string(nil), that.events...)
}

// leakyScheduler queues like the manual scheduler but ignores cancellation,
// so only the generation check can stop a stale task.
type leakyScheduler struct {
	*scheduler.Manual
}

func (that leakyScheduler) Schedule(delay time.Duration, task func()) scheduler.CancelFunc {
	that.Manual.Schedule(delay, task)
	return func() {}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(opts ...Option) (*GameController, *recordingSink, *scheduler.Manual) {
	sink := &recordingSink{}
	sched := scheduler.NewManual()

	return NewGameController(testLogger(), sink, sched, opts...), sink, sched
}

func playMoves(t *testing.T, controller *GameController, cells ...int) {
	t.Helper()

	for _, cell := range cells {
		require.NoError(t, controller.PlayerMove(cell))
	}
}

func TestGameController_StartGame(t *testing.T) {
	t.Run("Notifies the empty board and the first player", func(t *testing.T) {
		// Given: a controller with a mocked presentation sink
		sink := &mockSink{}
		sink.On("OnBoardChanged", [entity.BoardSize]entity.Mark{}).Return().Once()
		sink.On("OnTurnChanged", entity.Player{Name: "Gura", Mark: entity.X}).Return().Once()
		controller := NewGameController(testLogger(), sink, scheduler.NewManual())

		// When: a two player game starts
		session := controller.StartGame("Gura", "Calli", false)

		// Then: player one plays X, player two plays O, X is on turn
		sink.AssertExpectations(t)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, uint64(1), session.Generation)
		assert.Equal(t, entity.X, session.Players[0].Mark)
		assert.False(t, session.Players[0].IsComputer)
		assert.Equal(t, entity.O, session.Players[1].Mark)
		assert.False(t, session.Players[1].IsComputer)
		assert.Equal(t, "Gura", controller.CurrentPlayer().Name)
		assert.Equal(t, "Gura", controller.FirstPlayer().Name)
	})

	t.Run("Empty names fall back to defaults", func(t *testing.T) {
		controller, _, _ := newTestController()

		vsHuman := controller.StartGame("", "", false)
		assert.Equal(t, DefaultFirstName, vsHuman.Players[0].Name)
		assert.Equal(t, DefaultSecondName, vsHuman.Players[1].Name)

		vsComputer := controller.StartGame("", "", true)
		assert.Equal(t, DefaultComputerName, vsComputer.Players[1].Name)
		assert.True(t, vsComputer.Players[1].IsComputer)
	})

	t.Run("Configured default names", func(t *testing.T) {
		controller, _, _ := newTestController(WithDefaultNames("Gura", "Calli", "Bot"))

		session := controller.StartGame("", "", true)

		assert.Equal(t, "Gura", session.Players[0].Name)
		assert.Equal(t, "Bot", session.Players[1].Name)
	})

	t.Run("New game gets a new session and generation", func(t *testing.T) {
		controller, _, _ := newTestController()

		first := controller.StartGame("A", "B", false)
		playMoves(t, controller, 4)
		second := controller.StartGame("A", "B", false)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, first.Generation+1, second.Generation)
		assert.Equal(t, entity.Board{}, second.Board)
	})
}

func TestGameController_PlayerMove(t *testing.T) {
	t.Run("Switches the turn and re-renders the board", func(t *testing.T) {
		// Given: a started two player game
		controller, sink, _ := newTestController()
		controller.StartGame("Gura", "Calli", false)

		// When: X plays the center
		playMoves(t, controller, 4)

		// Then: O is on turn and the board shows X in the center
		assert.Equal(t, []string{"board", "turn:Gura", "turn:Calli", "board"}, sink.Events())
		assert.Equal(t, entity.X, sink.board[4])
		assert.Equal(t, "Calli", controller.CurrentPlayer().Name)
	})

	t.Run("Top row wins for X", func(t *testing.T) {
		// Given: a started two player game
		controller, sink, _ := newTestController()
		controller.StartGame("Gura", "Calli", false)

		// When: X@0, O@4, X@1, O@8, X@2
		playMoves(t, controller, 0, 4, 1, 8, 2)

		// Then: X wins after the fifth move
		session, ok := controller.Session()
		require.True(t, ok)
		assert.Equal(t, entity.StatusWin, session.Outcome.Status)
		assert.Equal(t, entity.X, session.Outcome.Winner.Mark)
		assert.Equal(t, []string{"Gura wins!"}, sink.messages)

		events := sink.Events()
		assert.Equal(t, []string{"board", "end:Gura wins!"}, events[len(events)-2:])
	})

	t.Run("Every win combo finishes the game", func(t *testing.T) {
		for _, combo := range entity.WinCombos {
			// Given: a started two player game
			controller, _, _ := newTestController()
			controller.StartGame("X", "O", false)

			// When: X plays the combo and O plays cells outside it
			var others []int
			for cell := 0; cell < entity.BoardSize && len(others) < 2; cell++ {
				if cell != combo[0] && cell != combo[1] && cell != combo[2] {
					others = append(others, cell)
				}
			}
			playMoves(t, controller, combo[0], others[0], combo[1], others[1], combo[2])

			// Then: X wins
			session, _ := controller.Session()
			assert.Equal(t, entity.StatusWin, session.Outcome.Status, "combo %v", combo)
			assert.Equal(t, "X", session.Outcome.Winner.Name, "combo %v", combo)
		}
	})

	t.Run("Filling the board in index order wins on the 2-4-6 diagonal", func(t *testing.T) {
		controller, sink, _ := newTestController()
		controller.StartGame("Gura", "Calli", false)

		playMoves(t, controller, 0, 1, 2, 3, 4, 5, 6)

		session, _ := controller.Session()
		assert.Equal(t, entity.StatusWin, session.Outcome.Status)
		assert.Equal(t, []string{"Gura wins!"}, sink.messages)

		// the remaining cells are ignored
		playMoves(t, controller, 7, 8)
		after, _ := controller.Session()
		assert.Equal(t, session.Board, after.Board)
	})

	t.Run("Full board without a line is a tie", func(t *testing.T) {
		// Given: a started two player game
		controller, sink, _ := newTestController()
		controller.StartGame("Gura", "Calli", false)

		// When: the board fills without three in a row
		playMoves(t, controller, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		// Then: the game is a tie
		session, _ := controller.Session()
		assert.Equal(t, entity.StatusTie, session.Outcome.Status)
		assert.Nil(t, session.Outcome.Winner)
		assert.Equal(t, []string{"It's a tie!"}, sink.messages)
	})

	t.Run("Full board with a line on the last move is a win", func(t *testing.T) {
		controller, sink, _ := newTestController()
		controller.StartGame("Gura", "Calli", false)

		playMoves(t, controller, 0, 1, 2, 4, 3, 5, 7, 8, 6)

		session, _ := controller.Session()
		assert.True(t, session.Board.IsFull())
		assert.Equal(t, entity.StatusWin, session.Outcome.Status)
		assert.Equal(t, []string{"Gura wins!"}, sink.messages)
	})

	t.Run("Same cell twice changes nothing the second time", func(t *testing.T) {
		// Given: X played cell 0
		controller, sink, _ := newTestController()
		controller.StartGame("Gura", "Calli", false)
		playMoves(t, controller, 0)

		before, _ := controller.Session()
		events := sink.Events()

		// When: cell 0 is played again
		playMoves(t, controller, 0)

		// Then: the session and the notifications are unchanged
		after, _ := controller.Session()
		assert.Equal(t, before.Board, after.Board)
		assert.Same(t, before.Current, after.Current)
		assert.Equal(t, events, sink.Events())
	})

	t.Run("Invalid cell index", func(t *testing.T) {
		controller, sink, _ := newTestController()
		controller.StartGame("Gura", "Calli", false)
		events := sink.Events()

		assert.ErrorIs(t, controller.PlayerMove(9), apperror.ErrInvalidCell)
		assert.ErrorIs(t, controller.PlayerMove(-1), apperror.ErrInvalidCell)
		assert.Equal(t, events, sink.Events())
	})

	t.Run("Move without a game is ignored", func(t *testing.T) {
		controller, sink, _ := newTestController()

		require.NoError(t, controller.PlayerMove(0))

		assert.Empty(t, sink.Events())
		assert.Nil(t, controller.CurrentPlayer())
		assert.Nil(t, controller.FirstPlayer())
	})

	t.Run("Move after the game finished is ignored", func(t *testing.T) {
		controller, sink, _ := newTestController()
		controller.StartGame("Gura", "Calli", false)
		playMoves(t, controller, 0, 4, 1, 8, 2)
		events := sink.Events()

		playMoves(t, controller, 5)

		session, _ := controller.Session()
		assert.Equal(t, entity.Empty, session.Board[5])
		assert.Equal(t, events, sink.Events())
	})
}

func TestGameController_ComputerTurn(t *testing.T) {
	t.Run("Computer replies after the delay", func(t *testing.T) {
		// Given: a game against the computer with a configured delay
		controller, sink, sched := newTestController(WithComputerDelay(250 * time.Millisecond))
		controller.StartGame("Gura", "", true)

		// When: the human plays the center
		playMoves(t, controller, 4)

		// Then: the computer's move is scheduled, not played
		assert.Equal(t, []time.Duration{250 * time.Millisecond}, sched.Pending())
		assert.True(t, controller.CurrentPlayer().IsComputer)
		assert.Equal(t, entity.Empty, sink.board[0])

		// When: the clock ticks
		require.Equal(t, 1, sched.Tick())

		// Then: the computer took a corner and the human is on turn again
		session, _ := controller.Session()
		assert.Equal(t, entity.O, session.Board[0])
		assert.Equal(t, "Gura", controller.CurrentPlayer().Name)
		assert.Equal(t, entity.O, sink.board[0])

		events := sink.Events()
		assert.Equal(t, []string{"turn:Gura", "board"}, events[len(events)-2:])
	})

	t.Run("Human input during the computer's turn is ignored", func(t *testing.T) {
		controller, _, sched := newTestController()
		controller.StartGame("Gura", "", true)
		playMoves(t, controller, 4)

		playMoves(t, controller, 8)

		session, _ := controller.Session()
		assert.Equal(t, entity.Empty, session.Board[8])
		assert.Len(t, sched.Pending(), 1)
	})

	t.Run("New game cancels the pending computer move", func(t *testing.T) {
		// Given: a computer move is pending
		controller, _, sched := newTestController()
		controller.StartGame("Gura", "", true)
		playMoves(t, controller, 4)

		// When: a new game starts before the move fires
		controller.StartGame("Gura", "", true)

		// Then: the pending move never applies
		assert.Zero(t, sched.Tick())
		session, _ := controller.Session()
		assert.Equal(t, entity.Board{}, session.Board)
		assert.Equal(t, "Gura", controller.CurrentPlayer().Name)
	})

	t.Run("Stale move is dropped even when cancellation is lost", func(t *testing.T) {
		// Given: a scheduler that ignores cancellation and a pending computer move
		sink := &recordingSink{}
		sched := leakyScheduler{Manual: scheduler.NewManual()}
		controller := NewGameController(testLogger(), sink, sched)
		controller.StartGame("Gura", "", true)
		playMoves(t, controller, 4)

		// When: the player goes back to the title, starts again and the old task fires
		controller.ResetToTitle()
		controller.StartGame("Gura", "", true)
		events := sink.Events()
		require.Equal(t, 1, sched.Tick())

		// Then: the fresh board is untouched
		session, _ := controller.Session()
		assert.Equal(t, entity.Board{}, session.Board)
		assert.Equal(t, events, sink.Events())
	})

	t.Run("Computer never loses", func(t *testing.T) {
		// Given: a human that always plays the lowest empty cell
		controller, _, sched := newTestController()
		controller.StartGame("Gura", "", true)

		// When: the game is played to the end
		for i := 0; i < entity.BoardSize; i++ {
			session, _ := controller.Session()
			if session.IsFinished() {
				break
			}

			playMoves(t, controller, session.Board.EmptyCells()[0])
			sched.Tick()
		}

		// Then: the human did not win
		session, _ := controller.Session()
		require.True(t, session.IsFinished())
		if session.Outcome.Status == entity.StatusWin {
			assert.True(t, session.Outcome.Winner.IsComputer)
		}
	})

	t.Run("Wall clock timer plays the computer move", func(t *testing.T) {
		sink := &recordingSink{}
		controller := NewGameController(testLogger(), sink, scheduler.NewTimer(), WithComputerDelay(time.Millisecond))
		controller.StartGame("Gura", "", true)

		playMoves(t, controller, 4)

		require.Eventually(t, func() bool {
			current := controller.CurrentPlayer()
			return current != nil && !current.IsComputer
		}, time.Second, 5*time.Millisecond)

		session, _ := controller.Session()
		assert.Equal(t, entity.O, session.Board[0])
	})
}

func TestGameController_ResetToTitle(t *testing.T) {
	// Given: a game in progress
	controller, _, _ := newTestController()
	controller.StartGame("Gura", "Calli", false)
	playMoves(t, controller, 0)
	generation := controller.Generation()

	// When: going back to the title
	controller.ResetToTitle()

	// Then: there is no session and the generation moved on
	_, ok := controller.Session()
	assert.False(t, ok)
	assert.Nil(t, controller.CurrentPlayer())
	assert.Equal(t, generation+1, controller.Generation())
	require.NoError(t, controller.PlayerMove(1))
}
