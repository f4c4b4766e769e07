package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

const maxNameLength = 16

type screen int

const (
	screenTitle screen = iota
	screenGame
)

// Model is the bubbletea model of the terminal UI. It is also the
// presentation sink of its controller, so every notification lands on the
// program's event loop.
type Model struct {
	logger     *slog.Logger
	controller *tictactoe.GameController
	scheduler  *teaScheduler

	screen screen
	names  [2]string
	focus  int
	cursor int

	board   [entity.BoardSize]entity.Mark
	active  entity.Player
	players [2]entity.Player
	popup   string
}

func New(logger *slog.Logger, opts ...tictactoe.Option) *Model {
	model := &Model{
		logger:    logger.With("component", "tui"),
		scheduler: newTeaScheduler(),
		cursor:    4,
	}

	model.controller = tictactoe.NewGameController(logger, model, model.scheduler, opts...)

	return model
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, model *Model) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			model.logger.Info("tui stopped", "reason", ctx.Err())
			return nil
		}

		return fmt.Errorf("failed to run tui: %w", err)
	}

	return nil
}

func (that *Model) OnBoardChanged(cells [entity.BoardSize]entity.Mark) {
	that.board = cells
}

func (that *Model) OnTurnChanged(active entity.Player) {
	that.active = active
}

func (that *Model) OnGameEnded(message string) {
	that.popup = message
}

func (that *Model) Init() tea.Cmd {
	return nil
}

func (that *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskMsg:
		if !that.scheduler.run(msg.id) {
			that.logger.Debug("cancelled task skipped", "task", msg.id)
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			that.controller.ResetToTitle()
			return that, tea.Quit
		}

		var cmd tea.Cmd
		if that.screen == screenTitle {
			cmd = that.updateTitle(msg)
		} else {
			cmd = that.updateGame(msg)
		}

		if cmd != nil {
			return that, cmd
		}
	}

	return that, tea.Batch(that.scheduler.commands()...)
}

func (that *Model) updateTitle(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return tea.Quit
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		that.focus = 1 - that.focus
	case tea.KeyBackspace:
		name := []rune(that.names[that.focus])
		if len(name) > 0 {
			that.names[that.focus] = string(name[:len(name)-1])
		}
	case tea.KeyEnter:
		that.startGame(false)
	case tea.KeyCtrlA:
		that.startGame(true)
	case tea.KeySpace:
		that.appendName([]rune{' '})
	case tea.KeyRunes:
		that.appendName(msg.Runes)
	}

	return nil
}

func (that *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "q", "esc":
		that.controller.ResetToTitle()
		return tea.Quit
	case "t":
		that.controller.ResetToTitle()
		that.screen = screenTitle
		that.popup = ""
	case "r":
		that.restart()
	case "up", "k":
		that.moveCursor(-3)
	case "down", "j":
		that.moveCursor(3)
	case "left", "h":
		that.moveCursor(-1)
	case "right", "l":
		that.moveCursor(1)
	case "enter", " ":
		if that.popup != "" {
			that.popup = ""
			return nil
		}

		that.play(that.cursor)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		that.cursor = int(key[0] - '1')
		that.play(that.cursor)
	}

	return nil
}

func (that *Model) startGame(vsComputer bool) {
	session := that.controller.StartGame(that.names[0], that.names[1], vsComputer)

	that.players = [2]entity.Player{*session.Players[0], *session.Players[1]}
	that.screen = screenGame
	that.popup = ""
	that.cursor = 4
}

func (that *Model) restart() {
	first, second := that.players[0], that.players[1]
	that.controller.StartGame(first.Name, second.Name, second.IsComputer)
	that.popup = ""
}

func (that *Model) play(cell int) {
	if that.popup != "" {
		return
	}

	if err := that.controller.PlayerMove(cell); err != nil {
		that.logger.Error("failed to make move", "cell", cell, "error", err)
	}
}

func (that *Model) moveCursor(step int) {
	next := that.cursor + step

	switch {
	case next < 0 || next >= entity.BoardSize:
		return
	case (step == 1 || step == -1) && next/3 != that.cursor/3:
		return
	}

	that.cursor = next
}

func (that *Model) appendName(runes []rune) {
	name := []rune(that.names[that.focus])
	if len(name)+len(runes) > maxNameLength {
		return
	}

	that.names[that.focus] = string(append(name, runes...))
}
