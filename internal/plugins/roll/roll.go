// Package roll is the dice roller plugin: "!roll 2d6+1d4*2-3".
package roll

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x00cc99

type Plugin struct {
	roll Roller
}

func New() *Plugin {
	return &Plugin{roll: func(sides int) int { return rand.Intn(sides) + 1 }}
}

// NewWithRoller uses roll instead of random dice.
func NewWithRoller(roll Roller) *Plugin {
	return &Plugin{roll: roll}
}

func (p *Plugin) Name() string { return "roll" }

func (p *Plugin) RegisterCommands(r *command.Registry) error {
	return cmd.RegisterAll(r, p, []cmd.Declaration[*Plugin, *bot.MessageContext]{
		{
			Path: "roll",
			Options: cmd.Options{
				Emoji:       "🎲",
				Title:       "Dice Roll",
				Description: "Roll dice with formulas like `2d6+1d4*2-3`",
				Separator:   cmd.NoSplit,
				Args:        []cmd.Arg{{Name: "formula", Required: true, Example: "2d6+3"}},
			},
			Method: (*Plugin).rollDice,
		},
	})
}

func (p *Plugin) rollDice(_ context.Context, m *bot.MessageContext, args cmd.Args) error {
	res, err := Evaluate(args.String("formula"), p.roll)
	if err != nil {
		return m.Reply(fmt.Sprintf("Can't roll that: %v. Try something like `2d6+1d4*2-3`.", err))
	}
	_, err = m.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "🎲 Dice Roll",
		Description: fmt.Sprintf("**Input**: `%s`\n**Calculation**: %s\n**Result**: **%d**", res.Formula, res.Calculation, res.Total),
		Color:       embedColor,
	})
	return err
}
