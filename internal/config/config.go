// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/keshon/botkit/pkg/cmd"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken    string              `env:"DISCORD_TOKEN,required,notEmpty"`
	StoragePath     string              `env:"STORAGE_PATH" envDefault:"datastore.json"`
	CommandPrefix   string              `env:"COMMAND_PREFIX" envDefault:"!"`
	LogLevel        string              `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty       bool                `env:"LOG_PRETTY" envDefault:"false"`
	FortuneURL      string              `env:"FORTUNE_URL"`
	SotdSchedule    string              `env:"SOTD_SCHEDULE" envDefault:"0 9 * * *"`
	DuplicatePolicy cmd.DuplicatePolicy `env:"DUPLICATE_POLICY" envDefault:"first-wins"`
	ShutdownTimeout time.Duration       `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads .env files, when present, and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := loadDotenv(files); err != nil {
		return nil, err
	}
	return Parse()
}

// LoadOffline is Load for front ends that never reach Discord, so
// DISCORD_TOKEN may be absent.
func LoadOffline(files ...string) (*Config, error) {
	if err := loadDotenv(files); err != nil {
		return nil, err
	}
	vars := env.ToMap(os.Environ())
	if vars["DISCORD_TOKEN"] == "" {
		vars["DISCORD_TOKEN"] = "offline"
	}
	return parse(env.Options{Environment: vars})
}

func loadDotenv(files []string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.CommandPrefix == "" {
		return nil, errors.New("COMMAND_PREFIX must not be empty")
	}
	return &cfg, nil
}
