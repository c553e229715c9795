// cmd/cli/main.go runs the bot in a terminal: every line typed is a message
// in a fake guild channel.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keshon/botkit/internal/app"
	"github.com/keshon/botkit/internal/config"
	"github.com/keshon/botkit/internal/console"
	"github.com/keshon/botkit/internal/logging"
	"github.com/keshon/botkit/internal/storage"
	"github.com/keshon/botkit/internal/version"

	"github.com/spf13/cobra"
)

type options struct {
	envFile   string
	storage   string
	guildID   string
	channelID string
	userID    string
	noJobs    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:     "botkit-cli",
		Short:   "Talk to the bot from a terminal",
		Version: version.String(),
		Long: `botkit-cli feeds stdin lines to the same plugins the Discord bot runs.

Lines starting with the command prefix run commands. Extra verbs:
    /press <id>     press a button on the last bot message
    /react <emoji>  react to the last bot message
    /quit           leave`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}
	f := root.Flags()
	f.StringVar(&opts.envFile, "env", ".env", "dotenv file to load, if present")
	f.StringVar(&opts.storage, "storage", "", "storage file, overrides STORAGE_PATH")
	f.StringVar(&opts.guildID, "guild", "console", "guild id messages appear in")
	f.StringVar(&opts.channelID, "channel", "general", "channel id messages appear in")
	f.StringVar(&opts.userID, "user", "console-user", "user id messages are sent by")
	f.BoolVar(&opts.noJobs, "no-jobs", false, "do not start scheduled jobs")
	return root
}

func run(cmd *cobra.Command, opts options) error {
	cfg, err := config.LoadOffline(opts.envFile)
	if err != nil {
		return err
	}
	if opts.storage != "" {
		cfg.StoragePath = opts.storage
	}
	logger := logging.SetupWriter(cmd.ErrOrStderr(), cfg.LogLevel, true)

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

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := console.NewSession(cmd.OutOrStdout())
	a.Dispatcher.Connect(ctx, session)
	if !opts.noJobs {
		if err := a.Dispatcher.RegisterSchedulers(session, a.Scheduler); err != nil {
			return err
		}
		a.Scheduler.Start()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := a.Scheduler.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("scheduler shutdown failed")
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "botkit console, prefix %q, /quit to leave\n", cfg.CommandPrefix)
	repl := &console.REPL{
		Dispatcher:   a.Dispatcher,
		Interactions: a.Interactions,
		Session:      session,
		GuildID:      opts.guildID,
		ChannelID:    opts.channelID,
		UserID:       opts.userID,
		Logger:       logger.With().Str("component", "console").Logger(),
	}
	start := time.Now()
	err = repl.Run(ctx, cmd.InOrStdin())
	logger.Debug().Dur("session", time.Since(start)).Msg("console closed")
	return err
}
