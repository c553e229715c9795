// Package app assembles the plugin set both front ends run: the Discord
// gateway and the local console.
package app

import (
	"fmt"

	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/internal/config"
	"github.com/keshon/botkit/internal/plugin"
	"github.com/keshon/botkit/internal/plugins/faq"
	"github.com/keshon/botkit/internal/plugins/fortune"
	"github.com/keshon/botkit/internal/plugins/help"
	"github.com/keshon/botkit/internal/plugins/hilo"
	"github.com/keshon/botkit/internal/plugins/roll"
	"github.com/keshon/botkit/internal/plugins/say"
	"github.com/keshon/botkit/internal/plugins/sotd"
	"github.com/keshon/botkit/internal/storage"
	"github.com/keshon/botkit/pkg/cmd"
	"github.com/keshon/botkit/pkg/schedule"

	"github.com/rs/zerolog"
)

type App struct {
	Dispatcher   *plugin.Dispatcher
	Router       *command.Router
	Commands     *command.Registry
	Interactions *command.InteractionRegistry
	Scheduler    *schedule.Scheduler
}

// New builds every plugin, fills and seals both registries. Conflicting
// registrations fail here under the Reject policy.
func New(cfg *config.Config, store *storage.Storage, logger zerolog.Logger) (*App, error) {
	opts := []cmd.RegistryOption{
		cmd.WithDuplicatePolicy(cfg.DuplicatePolicy),
		cmd.WithLogger(logger.With().Str("component", "registry").Logger()),
	}
	commands := command.NewRegistry(opts...)
	interactions := command.NewInteractionRegistry(opts...)

	router := command.NewRouter(cfg.CommandPrefix, commands, logger.With().Str("plugin", "commands").Logger(),
		command.WithGuildOnly(),
		command.WithCommandLog(logger, store),
	)

	// The router goes first so commands win over passive handlers.
	dispatcher := plugin.NewDispatcher(logger,
		router,
		help.New(cfg.CommandPrefix, commands, logger),
		fortune.New(cfg.FortuneURL, logger),
		roll.New(),
		say.New(),
		faq.New(store),
		sotd.New(store, cfg.SotdSchedule, logger),
		hilo.New(),
	)
	if err := dispatcher.RegisterCommands(commands, interactions); err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	commands.Seal()
	interactions.Seal()

	return &App{
		Dispatcher:   dispatcher,
		Router:       router,
		Commands:     commands,
		Interactions: interactions,
		Scheduler:    schedule.New(logger.With().Str("component", "scheduler").Logger()),
	}, nil
}
