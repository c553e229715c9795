// Package faq keeps per-guild answers to frequently asked questions.
//
//	!faq add <name> <content...>
//	!faq get <name>    (or just !faq <name>)
//	!faq list
//	!faq remove <name>
package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/internal/storage"
	"github.com/keshon/botkit/pkg/cmd"
)

// Store is the part of storage the plugin needs.
type Store interface {
	PutFAQ(guildID string, entry storage.FAQEntry) error
	GetFAQ(guildID, name string) (storage.FAQEntry, error)
	ListFAQ(guildID string) ([]string, error)
	RemoveFAQ(guildID, name string) error
}

type Plugin struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Plugin {
	return &Plugin{store: store, now: time.Now}
}

func (p *Plugin) Name() string { return "faq" }

func (p *Plugin) RegisterCommands(r *command.Registry) error {
	return cmd.RegisterAll(r, p, []cmd.Declaration[*Plugin, *bot.MessageContext]{
		{
			Path: "faq add",
			Options: cmd.Options{
				Description:   "Add or replace an answer",
				Args:          []cmd.Arg{{Name: "name", Required: true, Example: "rules"}, {Name: "content", Required: true, Example: "Be nice."}},
				LastArgIsText: true,
			},
			Method: (*Plugin).add,
		},
		{
			Path: "faq get",
			Options: cmd.Options{
				Description: "Show an answer",
				Args:        []cmd.Arg{{Name: "name", Required: true, Example: "rules"}},
			},
			Method: (*Plugin).get,
		},
		{
			Path:    "faq list",
			Options: cmd.Options{Description: "List every answer"},
			Method:  (*Plugin).list,
		},
		{
			Path: "faq remove",
			Options: cmd.Options{
				Description: "Delete an answer",
				Args:        []cmd.Arg{{Name: "name", Required: true, Example: "rules"}},
			},
			Method: (*Plugin).remove,
		},
		{
			Path: "faq",
			Options: cmd.Options{
				Emoji:       "❓",
				Title:       "FAQ",
				Description: "Frequently asked questions of this server",
				Args:        []cmd.Arg{{Name: "name", Example: "rules"}},
			},
			Method: (*Plugin).getOrList,
		},
	})
}

func (p *Plugin) add(_ context.Context, m *bot.MessageContext, args cmd.Args) error {
	name := args.String("name")
	err := p.store.PutFAQ(m.GuildID(), storage.FAQEntry{
		Name:      name,
		Content:   args.String("content"),
		AuthorID:  m.AuthorID(),
		UpdatedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("save faq %q: %w", name, err)
	}
	return m.Reply(fmt.Sprintf("Saved `%s`.", name))
}

func (p *Plugin) get(_ context.Context, m *bot.MessageContext, args cmd.Args) error {
	name := args.String("name")
	entry, err := p.store.GetFAQ(m.GuildID(), name)
	if errors.Is(err, storage.ErrNotFound) {
		return m.Reply(fmt.Sprintf("No FAQ named `%s`.", name))
	}
	if err != nil {
		return err
	}
	return m.Reply(fmt.Sprintf("**%s**\n%s", entry.Name, entry.Content))
}

func (p *Plugin) list(_ context.Context, m *bot.MessageContext, _ cmd.Args) error {
	names, err := p.store.ListFAQ(m.GuildID())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return m.Reply("No FAQ entries yet.")
	}
	return m.Reply("FAQ: " + strings.Join(names, ", "))
}

func (p *Plugin) remove(_ context.Context, m *bot.MessageContext, args cmd.Args) error {
	name := args.String("name")
	err := p.store.RemoveFAQ(m.GuildID(), name)
	if errors.Is(err, storage.ErrNotFound) {
		return m.Reply(fmt.Sprintf("No FAQ named `%s`.", name))
	}
	if err != nil {
		return err
	}
	return m.Reply(fmt.Sprintf("Removed `%s`.", name))
}

func (p *Plugin) getOrList(ctx context.Context, m *bot.MessageContext, args cmd.Args) error {
	if args.Has("name") {
		return p.get(ctx, m, args)
	}
	return p.list(ctx, m, args)
}
