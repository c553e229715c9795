package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	type TestCase struct {
		description   string
		text          string
		sep           Separator
		lastArgIsText bool
		argCount      int
		want          []string
	}

	testCases := []TestCase{
		{
			description: "whitespace splits on runs of spaces",
			text:        "  a   b\tc ",
			sep:         Whitespace,
			argCount:    3,
			want:        []string{"a", "b", "c"},
		},
		{
			description: "empty text yields no tokens",
			text:        "   ",
			sep:         Whitespace,
			argCount:    2,
			want:        nil,
		},
		{
			description: "no split keeps the whole text",
			text:        "hello there friend",
			sep:         NoSplit,
			argCount:    1,
			want:        []string{"hello there friend"},
		},
		{
			description: "no split on empty text yields nothing",
			text:        "",
			sep:         NoSplit,
			argCount:    1,
			want:        nil,
		},
		{
			description:   "last arg is text keeps the remainder",
			text:          "en hello world",
			sep:           Whitespace,
			lastArgIsText: true,
			argCount:      2,
			want:          []string{"en", "hello world"},
		},
		{
			description: "without last arg is text every piece is a token",
			text:        "en hello world",
			sep:         Whitespace,
			argCount:    2,
			want:        []string{"en", "hello", "world"},
		},
		{
			description:   "literal separator is re-inserted into the last slot",
			text:          "a,b,c,d",
			sep:           Literal(","),
			lastArgIsText: true,
			argCount:      2,
			want:          []string{"a", "b,c,d"},
		},
		{
			description: "literal separator keeps empty pieces in position",
			text:        "a,,c",
			sep:         Literal(","),
			argCount:    3,
			want:        []string{"a", "", "c"},
		},
		{
			description:   "pattern separator preserves the original separator text",
			text:          "x | y || z",
			sep:           Pattern(`\s*\|+\s*`),
			lastArgIsText: true,
			argCount:      2,
			want:          []string{"x", "y || z"},
		},
		{
			description: "shell separator keeps quoted words together",
			text:        `add "house rules" be nice`,
			sep:         Shell,
			argCount:    4,
			want:        []string{"add", "house rules", "be", "nice"},
		},
		{
			description:   "shell separator joins the tail",
			text:          `rules "be nice" or else`,
			sep:           Shell,
			lastArgIsText: true,
			argCount:      2,
			want:          []string{"rules", "be nice or else"},
		},
		{
			description: "shell separator falls back on unbalanced quotes",
			text:        `say "oops`,
			sep:         Shell,
			argCount:    2,
			want:        []string{"say", `"oops`},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got := Tokenize(testCase.text, testCase.sep, testCase.lastArgIsText, testCase.argCount)

			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestLiteralEmptyIsNoSplit(t *testing.T) {
	assert.Equal(t, NoSplit, Literal(""))
}

func TestSeparatorString(t *testing.T) {
	assert.Equal(t, "whitespace", Separator{}.String())
	assert.Equal(t, "none", NoSplit.String())
	assert.Equal(t, "literal(;)", Literal(";").String())
	assert.Equal(t, "shell", Shell.String())
}
