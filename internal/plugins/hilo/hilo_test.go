package hilo

import (
	"context"
	"testing"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/bot/bottest"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns a draw func yielding nums in order.
func sequence(nums ...int) func() int {
	i := 0
	return func() int {
		n := nums[i]
		i++
		return n
	}
}

func press(t *testing.T, ir *command.InteractionRegistry, s *bottest.Session, id, content string) string {
	t.Helper()
	ic := &bot.InteractionContext{Session: s, Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		Message: &discordgo.Message{Content: content},
		Member:  &discordgo.Member{User: &discordgo.User{ID: "u1"}},
		Data:    discordgo.MessageComponentInteractionData{CustomID: id},
	}}}
	require.NoError(t, ir.Dispatch(context.Background(), id, ic))
	resp := s.Responses[len(s.Responses)-1]
	return resp.Data.Content
}

func TestHiloRound(t *testing.T) {
	p := New()
	p.draw = sequence(50, 70, 20, 20, 90)

	r := command.NewRegistry(cmd.WithLogger(zerolog.Nop()))
	ir := command.NewInteractionRegistry()
	require.NoError(t, p.RegisterCommands(r))
	require.NoError(t, p.RegisterInteractions(ir))
	r.Seal()
	ir.Seal()
	router := command.NewRouter("!", r, zerolog.Nop())
	s := bottest.New()

	_, err := router.OnMessage(context.Background(), &bot.MessageContext{Session: s, Event: bottest.MessageCreate("g1", "c1", "u1", "!hilo")})
	require.NoError(t, err)
	require.Len(t, s.Sent, 1)
	content := s.Sent[0].Content
	assert.Equal(t, "Current number: **50**\nStreak: 0", content)
	assert.Len(t, s.Sent[0].Components, 1)

	steps := []struct {
		description string
		id          string
		expected    string
	}{
		{
			description: "correct higher guess extends the streak",
			id:          hiID,
			expected:    "50 → 70. Right, <@u1>!\nCurrent number: **70**\nStreak: 1",
		},
		{
			description: "correct lower guess extends the streak",
			id:          loID,
			expected:    "70 → 20. Right, <@u1>!\nCurrent number: **20**\nStreak: 2",
		},
		{
			description: "a repeated number keeps the streak",
			id:          hiID,
			expected:    "20 again, <@u1>. Nobody wins that one.\nCurrent number: **20**\nStreak: 2",
		},
		{
			description: "a wrong guess resets the streak",
			id:          loID,
			expected:    "20 → 90. Wrong, <@u1>, streak reset.\nCurrent number: **90**\nStreak: 0",
		},
	}
	for _, step := range steps {
		content = press(t, ir, s, step.id, content)
		assert.Equal(t, step.expected, content, step.description)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		description string
		content     string
		number      int
		streak      int
		ok          bool
	}{
		{description: "fresh game", content: "Current number: **7**\nStreak: 0", number: 7, ok: true},
		{description: "with verdict line", content: "1 → 7. Right!\nCurrent number: **7**\nStreak: 3", number: 7, streak: 3, ok: true},
		{description: "missing streak", content: "Current number: **7**"},
		{description: "out of range", content: "Current number: **700**\nStreak: 0"},
		{description: "foreign message", content: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			number, streak, ok := parse(tt.content)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.number, number)
				assert.Equal(t, tt.streak, streak)
			}
		})
	}
}

func TestGuessOnForeignMessage(t *testing.T) {
	p := New()
	ir := command.NewInteractionRegistry()
	require.NoError(t, p.RegisterInteractions(ir))
	s := bottest.New()

	press(t, ir, s, hiID, "not a game")

	resp := s.Responses[0]
	assert.Equal(t, "This game is over.", resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
}
