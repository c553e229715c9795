// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/botkit/internal/app"
	"github.com/keshon/botkit/internal/config"
	"github.com/keshon/botkit/internal/discord"
	"github.com/keshon/botkit/internal/logging"
	"github.com/keshon/botkit/internal/storage"
	"github.com/keshon/botkit/internal/version"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("discord bot exited with error")
		os.Exit(1)
	}
	log.Info().Msg("discord bot exited cleanly")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogPretty)
	logger.Info().Str("version", version.String()).Str("prefix", cfg.CommandPrefix).Stringer("duplicates", cfg.DuplicatePolicy).Msg("starting bot")

	store, err := storage.Open(cfg.StoragePath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	a, err := app.New(cfg, store, logger)
	if err != nil {
		return err
	}

	b, err := discord.New(discord.Options{
		Token:           cfg.DiscordToken,
		Dispatcher:      a.Dispatcher,
		Commands:        a.Commands,
		Interactions:    a.Interactions,
		Scheduler:       a.Scheduler,
		Logger:          logger.With().Str("component", "discord").Logger(),
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return b.Run(ctx)
}
