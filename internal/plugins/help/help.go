// Package help lists the registered commands. Long lists are paged with
// reactions; the current page lives in the embed footer of the help message.
package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/internal/plugin"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	listTitle = "Commands"
	perPage   = 8
)

type Plugin struct {
	prefix   string
	registry *command.Registry
	log      zerolog.Logger
}

func New(prefix string, registry *command.Registry, logger zerolog.Logger) *Plugin {
	return &Plugin{prefix: prefix, registry: registry, log: logger.With().Str("plugin", "help").Logger()}
}

func (p *Plugin) Name() string { return "help" }

func (p *Plugin) RegisterCommands(r *command.Registry) error {
	return cmd.RegisterAll(r, p, []cmd.Declaration[*Plugin, *bot.MessageContext]{
		{
			Path: "help",
			Options: cmd.Options{
				Emoji:         "📖",
				Title:         "Help",
				Description:   "List commands, or show how to use one",
				Args:          []cmd.Arg{{Name: "command", Example: "faq add"}},
				LastArgIsText: true,
			},
			Method: (*Plugin).help,
		},
	})
}

func (p *Plugin) help(_ context.Context, m *bot.MessageContext, args cmd.Args) error {
	if path, ok := args.Get("command"); ok {
		return p.describe(m, strings.Fields(strings.TrimPrefix(path, p.prefix)))
	}

	embed, total := p.listPage(1)
	msg, err := m.ReplyEmbed(embed)
	if err != nil || total < 2 {
		return err
	}
	for _, emoji := range []string{bot.PrevPageEmoji, bot.NextPageEmoji} {
		if err := m.Session.MessageReactionAdd(msg.ChannelID, msg.ID, emoji); err != nil {
			return fmt.Errorf("add %s reaction: %w", emoji, err)
		}
	}
	return nil
}

func (p *Plugin) describe(m *bot.MessageContext, path []string) error {
	c := p.registry.Find(path...)
	if c == nil {
		return m.Reply(fmt.Sprintf("Unknown command `%s%s`.", p.prefix, strings.Join(path, " ")))
	}

	title := c.FullName()
	if c.Title() != "" {
		title = c.Title()
	}
	if c.Emoji() != "" {
		title = c.Emoji() + " " + title
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: c.Description(),
		Color:       bot.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Usage", Value: fmt.Sprintf("`%s%s`", p.prefix, c.Usage())},
		},
	}
	if ex := c.Example(); ex != "" && !c.IsRouter() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Example", Value: fmt.Sprintf("`%s%s`", p.prefix, ex)})
	}
	if subs := c.Subcommands(); len(subs) > 0 {
		lines := make([]string, 0, len(subs))
		for _, s := range subs {
			lines = append(lines, fmt.Sprintf("`%s%s`", p.prefix, s.Usage()))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Subcommands", Value: strings.Join(lines, "\n")})
	}
	_, err := m.ReplyEmbed(embed)
	return err
}

// listPage renders one page of root commands and returns the page count.
func (p *Plugin) listPage(page int) (*discordgo.MessageEmbed, int) {
	all := p.registry.List()
	total := bot.PageCount(len(all), perPage)
	items, page := bot.Page(all, page, perPage)

	embed := &discordgo.MessageEmbed{
		Title:       listTitle,
		Description: fmt.Sprintf("Use `%shelp <command>` for details.", p.prefix),
		Color:       bot.EmbedColor,
		Footer:      bot.PageFooter(page, total),
	}
	for _, c := range items {
		name := p.prefix + c.Usage()
		if c.Emoji() != "" {
			name = c.Emoji() + " " + name
		}
		value := c.Description()
		if value == "" {
			value = c.Title()
		}
		if value == "" {
			value = "No description."
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value})
	}
	return embed, total
}

// OnMessageReactionAdd turns the page of a help message.
func (p *Plugin) OnMessageReactionAdd(_ context.Context, r *bot.ReactionContext) (plugin.Result, error) {
	delta := 0
	switch {
	case r.EmojiIs(bot.PrevPageEmoji):
		delta = -1
	case r.EmojiIs(bot.NextPageEmoji):
		delta = 1
	default:
		return plugin.PassThrough, nil
	}

	msg, err := r.Session.ChannelMessage(r.ChannelID(), r.MessageID())
	if err != nil {
		return plugin.PassThrough, fmt.Errorf("fetch message %s: %w", r.MessageID(), err)
	}
	if len(msg.Embeds) == 0 || msg.Embeds[0].Title != listTitle {
		return plugin.PassThrough, nil
	}
	if msg.Author != nil && msg.Author.ID != r.SelfID {
		return plugin.PassThrough, nil
	}
	page, total, ok := bot.ParsePage(msg.Embeds[0])
	if !ok {
		return plugin.PassThrough, nil
	}

	embed, _ := p.listPage(bot.Step(page, total, delta))
	if err := bot.EditEmbed(r.Session, r.ChannelID(), r.MessageID(), embed); err != nil {
		return plugin.Handled, fmt.Errorf("edit help page: %w", err)
	}
	// lets the user press the same arrow again
	if err := r.Session.MessageReactionRemove(r.ChannelID(), r.MessageID(), r.Reaction.Emoji.APIName(), r.UserID()); err != nil {
		p.log.Debug().Err(err).Str("message_id", r.MessageID()).Msg("failed to remove page reaction")
	}
	return plugin.Handled, nil
}
