package say

import (
	"context"
	"testing"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/bot/bottest"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSayAndShout(t *testing.T) {
	type TestCase struct {
		description string
		content     string
		reply       string
	}

	testCases := []TestCase{
		{description: "say keeps the whole text", content: "!say hello   there friend", reply: "hello there friend"},
		{description: "shout with language", content: "!shout tr istanbul is big", reply: "[TR] İSTANBUL İS BİG!"},
		{description: "shout without language", content: "!shout hello world", reply: "[EN] HELLO WORLD!"},
		{description: "shout a single word", content: "!shout hello", reply: "[EN] HELLO!"},
		{description: "shout a single word that is also a language code", content: "!shout hi", reply: "[EN] HI!"},
		{description: "shout with language and one word", content: "!shout tr istanbul", reply: "[TR] İSTANBUL!"},
		{description: "shout without text", content: "!shout", reply: "Usage: `!shout [lang] [text...]`\nExample: `!shout tr istanbul`"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			r := command.NewRegistry(cmd.WithLogger(zerolog.Nop()))
			require.NoError(t, New().RegisterCommands(r))
			s := bottest.New()
			m := &bot.MessageContext{Session: s, Event: bottest.MessageCreate("g1", "c1", "u1", testCase.content)}

			_, err := command.NewRouter("!", r, zerolog.Nop()).OnMessage(context.Background(), m)

			require.NoError(t, err)
			assert.Equal(t, []string{testCase.reply}, s.Contents())
		})
	}
}
