// Package hilo is a higher-or-lower guessing game played with buttons.
// The game keeps no state: the current number and streak live in the
// message text and are read back on every press.
package hilo

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

const (
	hiID = "hilo.hi"
	loID = "hilo.lo"

	maxNumber = 100

	numberLabel = "Current number: **"
	streakLabel = "Streak: "
)

type Plugin struct {
	// draw returns a number in [1, maxNumber].
	draw func() int
}

func New() *Plugin {
	return &Plugin{draw: func() int { return rand.Intn(maxNumber) + 1 }}
}

func (p *Plugin) Name() string { return "hilo" }

func (p *Plugin) RegisterCommands(r *command.Registry) error {
	return cmd.RegisterAll(r, p, []cmd.Declaration[*Plugin, *bot.MessageContext]{{
		Path: "hilo",
		Options: cmd.Options{
			Emoji:       "🔢",
			Title:       "Higher or lower",
			Description: fmt.Sprintf("Guess whether the next number (1-%d) is higher or lower", maxNumber),
		},
		Method: (*Plugin).start,
	}})
}

func (p *Plugin) RegisterInteractions(r *command.InteractionRegistry) error {
	return cmd.RegisterInteractions(r, p, []cmd.InteractionDeclaration[*Plugin, *bot.InteractionContext]{
		{ID: hiID, Method: (*Plugin).guess},
		{ID: loID, Method: (*Plugin).guess},
	})
}

func (p *Plugin) start(_ context.Context, m *bot.MessageContext, _ cmd.Args) error {
	_, err := m.ReplyComplex(&discordgo.MessageSend{
		Content:    render("", p.draw(), 0),
		Components: buttons(),
	})
	return err
}

func (p *Plugin) guess(_ context.Context, ic *bot.InteractionContext) error {
	if ic.Event.Message == nil {
		return ic.RespondEphemeral("This game is over.")
	}
	current, streak, ok := parse(ic.Event.Message.Content)
	if !ok {
		return ic.RespondEphemeral("This game is over.")
	}

	next := p.draw()
	higher := ic.ID() == hiID
	var verdict string
	switch {
	case next == current:
		verdict = fmt.Sprintf("%d again, <@%s>. Nobody wins that one.", next, ic.UserID())
	case (next > current) == higher:
		streak++
		verdict = fmt.Sprintf("%d → %d. Right, <@%s>!", current, next, ic.UserID())
	default:
		streak = 0
		verdict = fmt.Sprintf("%d → %d. Wrong, <@%s>, streak reset.", current, next, ic.UserID())
	}

	return ic.Update(&discordgo.InteractionResponseData{
		Content:    render(verdict, next, streak),
		Components: buttons(),
	})
}

func render(verdict string, number, streak int) string {
	var b strings.Builder
	if verdict != "" {
		b.WriteString(verdict)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s%d**\n%s%d", numberLabel, number, streakLabel, streak)
	return b.String()
}

// parse reads the number and streak back from a message written by render.
func parse(content string) (number, streak int, ok bool) {
	var haveNumber, haveStreak bool
	for _, line := range strings.Split(content, "\n") {
		if rest, found := strings.CutPrefix(line, numberLabel); found {
			n, err := strconv.Atoi(strings.TrimSuffix(rest, "**"))
			if err != nil || n < 1 || n > maxNumber {
				return 0, 0, false
			}
			number, haveNumber = n, true
		}
		if rest, found := strings.CutPrefix(line, streakLabel); found {
			n, err := strconv.Atoi(rest)
			if err != nil || n < 0 {
				return 0, 0, false
			}
			streak, haveStreak = n, true
		}
	}
	return number, streak, haveNumber && haveStreak
}

func buttons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Higher", Style: discordgo.SuccessButton, CustomID: hiID},
			discordgo.Button{Label: "Lower", Style: discordgo.DangerButton, CustomID: loID},
		}},
	}
}
