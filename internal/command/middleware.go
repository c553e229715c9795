package command

import (
	"context"
	"time"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/storage"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/rs/zerolog"
)

// HistoryStore keeps the per-guild command history.
type HistoryStore interface {
	AppendCommandToHistory(guildID string, record storage.CommandHistoryRecord) error
}

// WithGuildOnly silently drops commands sent outside a guild.
func WithGuildOnly() Middleware {
	return func(c *Command, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, m *bot.MessageContext, args cmd.Args) error {
			if m.GuildID() == "" {
				return nil
			}
			return next(ctx, m, args)
		}
	}
}

// WithCommandLog logs every run and, when store is not nil, appends it to the
// guild's command history. History failures are logged, never returned.
func WithCommandLog(logger zerolog.Logger, store HistoryStore) Middleware {
	return func(c *Command, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, m *bot.MessageContext, args cmd.Args) error {
			start := time.Now()
			err := next(ctx, m, args)

			ev := logger.Info()
			if err != nil {
				ev = logger.Warn().Err(err)
			}
			ev.Str("command", c.FullName()).
				Str("guild_id", m.GuildID()).
				Str("user_id", m.AuthorID()).
				Dur("took", time.Since(start)).
				Msg("command run")

			if store != nil {
				record := storage.CommandHistoryRecord{
					ChannelID: m.ChannelID(),
					UserID:    m.AuthorID(),
					Command:   c.FullName(),
					Param:     args.Raw(),
					Datetime:  start.UTC(),
				}
				if m.Event.Author != nil {
					record.Username = m.Event.Author.Username
				}
				if e := store.AppendCommandToHistory(m.GuildID(), record); e != nil {
					logger.Warn().Err(e).Str("command", c.FullName()).Msg("failed to record command history")
				}
			}
			return err
		}
	}
}
