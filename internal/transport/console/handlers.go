package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const helpText = `commands:
  new [name1] [name2]  start a two player game
  ai [name]            play against the computer
  restart              start again with the same players
  move <0-8>           claim a cell
  title                back to the title screen
  help                 show this help
  quit                 leave
`

func (that *Server) handleNewGame(_ context.Context, msg *Message) error {
	that.controller.StartGame(arg(msg.Args, 0), arg(msg.Args, 1), false)
	return nil
}

func (that *Server) handleComputerGame(_ context.Context, msg *Message) error {
	that.controller.StartGame(arg(msg.Args, 0), "", true)
	return nil
}

func (that *Server) handleRestart(_ context.Context, _ *Message) error {
	session, ok := that.controller.Session()
	if !ok {
		that.output.Printf("%v, type new or ai\n", apperror.ErrNoActiveGame)
		return nil
	}

	first, second := session.Players[0], session.Players[1]
	that.controller.StartGame(first.Name, second.Name, second.IsComputer)

	return nil
}

func (that *Server) handleMove(_ context.Context, msg *Message) error {
	log := that.logger.With("method", "handleMove")

	if len(msg.Args) != 1 {
		that.output.Printf("usage: move <0-8>\n")
		return nil
	}

	cell, err := strconv.Atoi(msg.Args[0])
	if err != nil || cell < 0 || cell >= entity.BoardSize {
		that.output.Printf("%v: %s\n", apperror.ErrInvalidCell, msg.Args[0])
		return nil
	}

	session, ok := that.controller.Session()
	switch {
	case !ok:
		that.output.Printf("%v, type new or ai\n", apperror.ErrNoActiveGame)
		return nil
	case session.IsFinished():
		that.output.Printf("%v, type restart or title\n", apperror.ErrGameFinished)
		return nil
	case session.Current.IsComputer:
		that.output.Printf("%v, %s is thinking\n", apperror.ErrNotYourTurn, session.Current.Name)
		return nil
	case session.Board[cell] != entity.Empty:
		that.output.Printf("%v: %d\n", apperror.ErrCellOccupied, cell)
		return nil
	}

	if err = that.controller.PlayerMove(cell); err != nil {
		log.Error("failed to make move", "cell", cell, "error", err)
		return fmt.Errorf("failed to make move: %w", err)
	}

	return nil
}

func (that *Server) handleTitle(_ context.Context, _ *Message) error {
	that.controller.ResetToTitle()
	that.output.Title()

	return nil
}

func (that *Server) handleHelp(_ context.Context, _ *Message) error {
	that.output.Printf("%s", helpText)
	return nil
}

func (that *Server) handleQuit(_ context.Context, _ *Message) error {
	return errQuit
}

func arg(args []string, idx int) string {
	if idx < len(args) {
		return args[idx]
	}

	return ""
}
