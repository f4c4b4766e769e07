package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	UITerminal = "tui"
	UIConsole  = "console"
)

var ErrUnknownUI = errors.New("unknown ui")

type Config struct {
	LogLevel      string        `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	LogFile       string        `yaml:"log-file" env:"TICTACTOE_LOG_FILE"`
	UI            string        `yaml:"ui" env:"TICTACTOE_UI" env-default:"tui"`
	ComputerDelay time.Duration `yaml:"computer-delay" env:"TICTACTOE_COMPUTER_DELAY" env-default:"500ms"`
	Players       Players       `yaml:"players"`
}

type Players struct {
	First    string `yaml:"first" env:"TICTACTOE_PLAYER_FIRST" env-default:"Player 1"`
	Second   string `yaml:"second" env:"TICTACTOE_PLAYER_SECOND" env-default:"Player 2"`
	Computer string `yaml:"computer" env:"TICTACTOE_PLAYER_COMPUTER" env-default:"AI"`
}

// MustLoad - load configuration from the yml file at path, panics on failure.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads the yml file at path. Without the file, only the environment
// and the defaults are used.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
	} else {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.UI {
	case UITerminal, UIConsole:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownUI, that.UI)
	}

	if that.ComputerDelay < 0 {
		return fmt.Errorf("computer-delay must not be negative: %s", that.ComputerDelay)
	}

	return nil
}
