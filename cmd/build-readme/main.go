// cmd/build-readme regenerates README.md from README.md.tmpl and the
// commands every plugin registers.
package main

import (
	"os"
	"path/filepath"

	"github.com/keshon/botkit/internal/app"
	"github.com/keshon/botkit/internal/config"
	"github.com/keshon/botkit/internal/docs"
	"github.com/keshon/botkit/internal/logging"
	"github.com/keshon/botkit/internal/storage"

	"github.com/rs/zerolog"
)

func main() {
	logger := logging.Setup("info", true)
	if err := run(logger); err != nil {
		logger.Error().Err(err).Msg("failed to update README")
		os.Exit(1)
	}
	logger.Info().Msg("README.md updated with current commands")
}

func run(logger zerolog.Logger) error {
	cfg, err := config.LoadOffline()
	if err != nil {
		return err
	}

	// Plugins need a store to register; a throwaway one keeps the real data untouched.
	dir, err := os.MkdirTemp("", "build-readme")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	store, err := storage.Open(filepath.Join(dir, "readme.json"), zerolog.Nop())
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := app.New(cfg, store, zerolog.Nop())
	if err != nil {
		return err
	}
	return docs.UpdateReadme("README.md.tmpl", "README.md", cfg.CommandPrefix, a.Commands.List())
}
