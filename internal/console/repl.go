package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/internal/plugin"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const SelfID = "console-bot"

// REPL feeds terminal lines to the dispatcher as guild messages.
//
//	/press <id>     press a button on the last bot message
//	/react <emoji>  react to the last bot message
//	/quit           leave
type REPL struct {
	Dispatcher   *plugin.Dispatcher
	Interactions *command.InteractionRegistry
	Session      *Session
	GuildID      string
	ChannelID    string
	UserID       string
	Logger       zerolog.Logger

	seq int
}

// Run reads in until EOF, /quit or ctx is done.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if r.Handle(ctx, line) {
				return nil
			}
		}
	}
}

// Handle processes one line and reports whether the user asked to quit.
func (r *REPL) Handle(ctx context.Context, line string) (quit bool) {
	line = strings.TrimSpace(line)
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch verb {
	case "":
		return false
	case "/quit", "/exit":
		return true
	case "/press":
		r.press(ctx, rest)
	case "/react":
		r.react(ctx, rest)
	default:
		r.seq++
		ev := &discordgo.MessageCreate{Message: &discordgo.Message{
			ID:        fmt.Sprintf("in%d", r.seq),
			GuildID:   r.GuildID,
			ChannelID: r.ChannelID,
			Content:   line,
			Author:    &discordgo.User{ID: r.UserID, Username: r.UserID},
		}}
		out := r.Dispatcher.DispatchMessage(ctx, &bot.MessageContext{Session: r.Session, Event: ev, SelfID: SelfID})
		r.Logger.Debug().Stringer("state", out.State).Str("plugin", out.Plugin).Msg("message dispatched")
	}
	return false
}

func (r *REPL) press(ctx context.Context, id string) {
	last := r.Session.Last()
	if last == nil || !slices.Contains(buttonIDs(last.Components), id) {
		r.Logger.Warn().Str("id", id).Msg("no such button on the last message")
		return
	}
	ic := &bot.InteractionContext{
		Session: r.Session,
		SelfID:  SelfID,
		Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionMessageComponent,
			GuildID:   r.GuildID,
			ChannelID: r.ChannelID,
			Message:   last,
			Member:    &discordgo.Member{User: &discordgo.User{ID: r.UserID, Username: r.UserID}},
			Data:      discordgo.MessageComponentInteractionData{CustomID: id, ComponentType: discordgo.ButtonComponent},
		}},
	}
	if err := r.Interactions.Dispatch(ctx, id, ic); err != nil {
		r.Logger.Error().Err(err).Str("id", id).Msg("interaction failed")
	}
}

func (r *REPL) react(ctx context.Context, emoji string) {
	last := r.Session.Last()
	if last == nil || emoji == "" {
		r.Logger.Warn().Msg("nothing to react to")
		return
	}
	out := r.Dispatcher.DispatchReactionAdd(ctx, &bot.ReactionContext{
		Session: r.Session,
		SelfID:  SelfID,
		Reaction: &discordgo.MessageReaction{
			UserID:    r.UserID,
			MessageID: last.ID,
			ChannelID: last.ChannelID,
			GuildID:   r.GuildID,
			Emoji:     discordgo.Emoji{Name: emoji},
		},
	})
	r.Logger.Debug().Stringer("state", out.State).Str("plugin", out.Plugin).Msg("reaction dispatched")
}
