package roll

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

func maxRoller(sides int) int { return sides }

func TestEvaluate(t *testing.T) {
	type TestCase struct {
		description string
		formula     string
		total       int
		calculation string
	}

	testCases := []TestCase{
		{description: "single die", formula: "d20", total: 20, calculation: "`d20` [20]"},
		{description: "precedence", formula: "2d6+1d4*2-3", total: 17, calculation: "`2d6` [6, 6] + `1d4` [4] * 2 - 3"},
		{description: "spaces are ignored", formula: "1 + 2 * 3", total: 7, calculation: "1 + 2 * 3"},
		{description: "integer division", formula: "7/2", total: 3, calculation: "7 / 2"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			res, err := Evaluate(testCase.formula, maxRoller)

			require.NoError(t, err)
			assert.Equal(t, testCase.total, res.Total)
			assert.Equal(t, testCase.calculation, res.Calculation)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	type TestCase struct {
		description string
		formula     string
	}

	testCases := []TestCase{
		{description: "empty", formula: "   "},
		{description: "leading operator", formula: "*2"},
		{description: "trailing operator", formula: "2+"},
		{description: "division by zero", formula: "4/0"},
		{description: "too many dice", formula: "101d6"},
		{description: "one-sided die", formula: "2d1"},
		{description: "junk", formula: "2d6+x"},
		{description: "literal too big", formula: "1000000001"},
		{description: "literal beyond int", formula: "99999999999999999999999"},
		{description: "product overflows", formula: "999999999*999999999*999999999"},
		{description: "sum too big", formula: "1000000000+1000000000"},
		{description: "difference too small", formula: "0-1000000000-1000000000"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			_, err := Evaluate(testCase.formula, maxRoller)
			assert.Error(t, err)
		})
	}
}

func TestEvaluateStaysInRange(t *testing.T) {
	res, err := Evaluate("1000000000/1000*1000", maxRoller)
	require.NoError(t, err)
	assert.Equal(t, 1_000_000_000, res.Total)

	_, err = Evaluate("999999999*999999999*999999999", maxRoller)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestRollCommandKeepsFormulaWhole(t *testing.T) {
	r := command.NewRegistry(cmd.WithLogger(zerolog.Nop()))
	require.NoError(t, NewWithRoller(maxRoller).RegisterCommands(r))
	s := bottest.New()
	router := command.NewRouter("!", r, zerolog.Nop())
	m := &bot.MessageContext{Session: s, Event: bottest.MessageCreate("g1", "c1", "u1", "!roll 2d6 + 3"), SelfID: "self"}

	_, err := router.OnMessage(context.Background(), m)

	require.NoError(t, err)
	embed := s.LastEmbed()
	require.NotNil(t, embed)
	assert.Contains(t, embed.Description, "**Result**: **15**")
}

func TestRollCommandWithoutFormulaShowsUsage(t *testing.T) {
	r := command.NewRegistry(cmd.WithLogger(zerolog.Nop()))
	require.NoError(t, New().RegisterCommands(r))
	s := bottest.New()
	router := command.NewRouter("!", r, zerolog.Nop())
	m := &bot.MessageContext{Session: s, Event: bottest.MessageCreate("g1", "c1", "u1", "!roll"), SelfID: "self"}

	_, err := router.OnMessage(context.Background(), m)

	require.NoError(t, err)
	assert.Equal(t, []string{"Usage: `!roll <formula>`\nExample: `!roll 2d6+3`"}, s.Contents())
}
