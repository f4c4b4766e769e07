package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-local/internal/transport/console"
	"github.com/rocketscienceinc/tictactoe-local/internal/transport/tui"
)

// RunApp - runs the application with the front end selected in conf.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := []tictactoe.Option{
		tictactoe.WithComputerDelay(conf.ComputerDelay),
		tictactoe.WithDefaultNames(conf.Players.First, conf.Players.Second, conf.Players.Computer),
	}

	log.Info("Starting tic-tac-toe", "ui", conf.UI, "computerDelay", conf.ComputerDelay)

	switch conf.UI {
	case config.UIConsole:
		sink := console.NewSink(os.Stdout)
		controller := tictactoe.NewGameController(logger, sink, scheduler.NewTimer(), opts...)
		defer controller.ResetToTitle()

		if err := console.New(logger, controller, sink).Run(ctx, os.Stdin); err != nil {
			return fmt.Errorf("console error: %w", err)
		}
	default:
		if err := tui.Run(ctx, tui.New(logger, opts...)); err != nil {
			return fmt.Errorf("tui error: %w", err)
		}
	}

	log.Info("Application stopped")

	return nil
}
