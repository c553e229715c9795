// Package say echoes text back: "!say hello" and "!shout [lang] hello".
package say

import (
	"context"
	"fmt"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/pkg/cmd"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return "say" }

func (p *Plugin) RegisterCommands(r *command.Registry) error {
	return cmd.RegisterAll(r, p, []cmd.Declaration[*Plugin, *bot.MessageContext]{
		{
			Path: "say",
			Options: cmd.Options{
				Emoji:       "💬",
				Title:       "Say",
				Description: "Repeat the text as is",
				Separator:   cmd.NoSplit,
				Args:        []cmd.Arg{{Name: "text", Required: true, Example: "hello there"}},
			},
			Method: (*Plugin).say,
		},
		{
			Path: "shout",
			Options: cmd.Options{
				Emoji:         "📢",
				Title:         "Shout",
				Description:   "Repeat the text in capitals, using the casing rules of lang",
				Args:          []cmd.Arg{{Name: "lang", Example: "tr"}, {Name: "text", Example: "istanbul"}},
				LastArgIsText: true,
			},
			Method: (*Plugin).shout,
		},
	})
}

func (p *Plugin) say(_ context.Context, m *bot.MessageContext, args cmd.Args) error {
	return m.Reply(args.String("text"))
}

func (p *Plugin) shout(_ context.Context, m *bot.MessageContext, args cmd.Args) error {
	lang, text := args.String("lang"), args.String("text")
	tag := language.English
	switch {
	case lang == "":
		return cmd.ErrUsage
	case text == "":
		// a single word is always the text
		text = lang
	default:
		if parsed, known := parseLang(lang); known {
			tag = parsed
		} else {
			text = lang + " " + text
		}
	}
	base, _ := tag.Base()
	return m.Reply(fmt.Sprintf("[%s] %s!", cases.Upper(language.English).String(base.String()), cases.Upper(tag).String(text)))
}

// parseLang accepts two or three letter language codes only.
func parseLang(s string) (language.Tag, bool) {
	if len(s) < 2 || len(s) > 3 {
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	if _, conf := tag.Base(); conf == language.No {
		return language.Und, false
	}
	return tag, true
}
