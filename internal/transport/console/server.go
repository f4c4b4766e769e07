package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

var errQuit = errors.New("quit requested")

type gameController interface {
	StartGame(firstName, secondName string, vsComputer bool) entity.GameSession
	PlayerMove(index int) error
	ResetToTitle()
	Session() (entity.GameSession, bool)
}

// Message is one parsed input line: the action word and its arguments.
type Message struct {
	Action string
	Args   []string
}

type Server struct {
	logger     *slog.Logger
	controller gameController
	output     *Sink

	handlers map[string]func(ctx context.Context, message *Message) error
}

func New(logger *slog.Logger, controller gameController, output *Sink) *Server {
	server := &Server{
		logger:     logger.With("component", "console"),
		controller: controller,
		output:     output,
		handlers:   make(map[string]func(context.Context, *Message) error),
	}

	server.handlers["new"] = server.handleNewGame
	server.handlers["ai"] = server.handleComputerGame
	server.handlers["restart"] = server.handleRestart
	server.handlers["move"] = server.handleMove
	server.handlers["title"] = server.handleTitle
	server.handlers["help"] = server.handleHelp
	server.handlers["quit"] = server.handleQuit

	return server
}

// Run reads commands from input until it is exhausted, quit is typed or ctx is done.
func (that *Server) Run(ctx context.Context, input io.Reader) error {
	log := that.logger.With("method", "Run")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		readErr <- scanner.Err()
	}()

	that.output.Title()

	for {
		select {
		case <-ctx.Done():
			log.Info("console stopped", "reason", ctx.Err())
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}

				log.Info("input closed")
				return nil
			}

			if err := that.HandleLine(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					log.Info("quit requested")
					return nil
				}

				log.Error("error processing command", "line", line, "error", err)
			}
		}
	}
}

// HandleLine parses one line and dispatches it to its handler.
func (that *Server) HandleLine(ctx context.Context, line string) error {
	message, ok := parseMessage(line)
	if !ok {
		return nil
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		that.output.Printf("unknown command %q, type help\n", message.Action)
		return nil
	}

	return handler(ctx, message)
}

func parseMessage(line string) (*Message, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}

	return &Message{
		Action: strings.ToLower(fields[0]),
		Args:   fields[1:],
	}, true
}
