package tictactoe

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-local/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-local/internal/search"
)

const (
	DefaultComputerDelay = 500 * time.Millisecond

	DefaultFirstName    = "Player 1"
	DefaultSecondName   = "Player 2"
	DefaultComputerName = "AI"
)

// PresentationSink receives state changes. Notifications are delivered while
// the controller is locked, so a sink must not call back into the controller.
type PresentationSink interface {
	OnBoardChanged(cells [entity.BoardSize]entity.Mark)
	OnTurnChanged(active entity.Player)
	OnGameEnded(message string)
}

type Option func(*GameController)

// WithComputerDelay sets the pause before the computer plays.
func WithComputerDelay(delay time.Duration) Option {
	return func(that *GameController) {
		that.computerDelay = delay
	}
}

// WithDefaultNames sets the names used when a player leaves the name empty.
func WithDefaultNames(first, second, computer string) Option {
	return func(that *GameController) {
		if first != "" {
			that.firstName = first
		}
		if second != "" {
			that.secondName = second
		}
		if computer != "" {
			that.computerName = computer
		}
	}
}

// GameController owns the live game session and drives computer turns.
type GameController struct {
	logger    *slog.Logger
	sink      PresentationSink
	scheduler scheduler.Scheduler

	computerDelay time.Duration
	firstName     string
	secondName    string
	computerName  string

	mu            sync.Mutex
	session       *entity.GameSession
	generation    uint64
	cancelPending scheduler.CancelFunc
}

func NewGameController(logger *slog.Logger, sink PresentationSink, sched scheduler.Scheduler, opts ...Option) *GameController {
	controller := &GameController{
		logger:    logger.With("component", "game_controller"),
		sink:      sink,
		scheduler: sched,

		computerDelay: DefaultComputerDelay,
		firstName:     DefaultFirstName,
		secondName:    DefaultSecondName,
		computerName:  DefaultComputerName,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// StartGame replaces the current session with a new one. The first player is
// always a human playing X; the second plays O and may be the computer.
func (that *GameController) StartGame(firstName, secondName string, vsComputer bool) entity.GameSession {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelComputerTurn()
	that.generation++

	first := entity.NewHumanPlayer(orDefault(firstName, that.firstName), entity.X)

	var second *entity.Player
	if vsComputer {
		second = entity.NewComputerPlayer(orDefault(secondName, that.computerName), entity.O)
	} else {
		second = entity.NewHumanPlayer(orDefault(secondName, that.secondName), entity.O)
	}

	that.session = entity.NewGameSession(pkg.GenerateSessionID(), that.generation, first, second)

	that.logger.Info("game started",
		"sessionID", that.session.ID,
		"generation", that.generation,
		"first", first.Name,
		"second", second.Name,
		"vsComputer", vsComputer,
	)

	that.sink.OnBoardChanged(that.session.Board.Cells())
	that.sink.OnTurnChanged(*that.session.Current)

	if that.session.Current.IsComputer {
		that.scheduleComputerTurn()
	}

	return *that.session
}

// PlayerMove applies a human move. Moves during the computer's turn, after the
// game ended, without a game, or on an occupied cell are ignored.
func (that *GameController) PlayerMove(index int) error {
	if index < 0 || index >= entity.BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, index)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "PlayerMove", "cell", index)

	if that.session == nil {
		log.Debug("move ignored", "reason", apperror.ErrNoActiveGame)
		return nil
	}

	if that.session.Current.IsComputer {
		log.Debug("move ignored", "reason", apperror.ErrNotYourTurn)
		return nil
	}

	return that.applyMove(index)
}

// ResetToTitle abandons the current session and any pending computer move.
func (that *GameController) ResetToTitle() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelComputerTurn()
	that.generation++

	if that.session != nil {
		that.logger.Info("game abandoned", "sessionID", that.session.ID)
	}

	that.session = nil
}

// CurrentPlayer returns the player on turn, or nil without a game.
func (that *GameController) CurrentPlayer() *entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.session == nil {
		return nil
	}

	return that.session.Current
}

// FirstPlayer returns the X player, or nil without a game.
func (that *GameController) FirstPlayer() *entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.session == nil {
		return nil
	}

	return that.session.FirstPlayer()
}

// Session returns a snapshot of the live session.
func (that *GameController) Session() (entity.GameSession, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.session == nil {
		return entity.GameSession{}, false
	}

	return *that.session, true
}

func (that *GameController) Generation() uint64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.generation
}

// applyMove must be called with the lock held.
func (that *GameController) applyMove(index int) error {
	session := that.session
	log := that.logger.With("method", "applyMove", "sessionID", session.ID, "cell", index)

	if session.IsFinished() {
		log.Debug("move ignored", "reason", apperror.ErrGameFinished)
		return nil
	}

	mover := session.Current

	claimed, err := session.Board.Claim(index, mover.Mark)
	if err != nil {
		return fmt.Errorf("failed to claim cell: %w", err)
	}

	if !claimed {
		log.Debug("move ignored", "reason", apperror.ErrCellOccupied)
		return nil
	}

	log.Debug("move applied", "player", mover.Name, "mark", mover.Mark)

	if outcome := session.DetermineOutcome(mover); outcome.Status != entity.StatusInProgress {
		session.Outcome = outcome

		log.Info("game finished", "status", outcome.Status, "message", outcome.Message())

		that.sink.OnBoardChanged(session.Board.Cells())
		that.sink.OnGameEnded(outcome.Message())

		return nil
	}

	session.SwitchPlayer()

	that.sink.OnTurnChanged(*session.Current)
	that.sink.OnBoardChanged(session.Board.Cells())

	if session.Current.IsComputer {
		that.scheduleComputerTurn()
	}

	return nil
}

// scheduleComputerTurn must be called with the lock held.
func (that *GameController) scheduleComputerTurn() {
	generation := that.generation

	that.cancelPending = that.scheduler.Schedule(that.computerDelay, func() {
		that.playComputerTurn(generation)
	})
}

func (that *GameController) cancelComputerTurn() {
	if that.cancelPending != nil {
		that.cancelPending()
		that.cancelPending = nil
	}
}

func (that *GameController) playComputerTurn(generation uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "playComputerTurn", "generation", generation)

	if generation != that.generation || that.session == nil {
		log.Debug("stale computer turn dropped", "currentGeneration", that.generation)
		return
	}

	session := that.session
	if session.IsFinished() || !session.Current.IsComputer {
		log.Debug("computer turn dropped", "sessionID", session.ID)
		return
	}

	that.cancelPending = nil

	computer := session.Current
	searcher := search.New(session.FirstPlayer().Mark, computer.Mark)

	started := time.Now()
	result := searcher.BestMove(session.Board, computer.Mark)

	log.Debug("computer move searched",
		"sessionID", session.ID,
		"cell", result.Index,
		"score", result.Score,
		"nodes", searcher.Nodes(),
		"elapsed", time.Since(started),
	)

	if result.Index == search.NoMove {
		log.Warn("computer found no move", "sessionID", session.ID)
		return
	}

	if err := that.applyMove(result.Index); err != nil {
		log.Error("failed to apply computer move", "error", err)
	}
}

func orDefault(name, fallback string) string {
	if name == "" {
		return fallback
	}

	return name
}
