package console_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keshon/botkit/internal/app"
	"github.com/keshon/botkit/internal/config"
	"github.com/keshon/botkit/internal/console"
	"github.com/keshon/botkit/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newREPL(t *testing.T, out *bytes.Buffer) *console.REPL {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "console.json"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	a, err := app.New(&config.Config{CommandPrefix: "!", SotdSchedule: "@daily"}, store, zerolog.Nop())
	require.NoError(t, err)

	return &console.REPL{
		Dispatcher:   a.Dispatcher,
		Interactions: a.Interactions,
		Session:      console.NewSession(out),
		GuildID:      "console",
		ChannelID:    "general",
		UserID:       "you",
		Logger:       zerolog.Nop(),
	}
}

func TestConsoleSession(t *testing.T) {
	var out bytes.Buffer
	r := newREPL(t, &out)

	in := strings.Join([]string{
		"!say hello there",
		"just chatting",
		"!hilo",
		"/press hilo.hi",
		"/quit",
		"!say never read",
	}, "\n")
	require.NoError(t, r.Run(context.Background(), strings.NewReader(in)))

	got := out.String()
	assert.Contains(t, got, "[m1] hello there\n")
	assert.Contains(t, got, "[m2] Current number: **")
	assert.Contains(t, got, "buttons: hilo.hi, hilo.lo")
	assert.Contains(t, got, "[m2 (updated)]")
	assert.NotContains(t, got, "never read")
}

func TestReactionReachesHelp(t *testing.T) {
	var out bytes.Buffer
	r := newREPL(t, &out)
	ctx := context.Background()

	r.Handle(ctx, "!help")
	require.Contains(t, out.String(), "== Commands ==")
	r.Handle(ctx, "/react ⏭")

	assert.Contains(t, out.String(), "[m1 (edited)]")
	assert.Contains(t, out.String(), "-- Page 1/1")
	assert.Contains(t, out.String(), "[m1] -⏭ by you")
}

func TestPressUnknownButtonIsIgnored(t *testing.T) {
	var out bytes.Buffer
	r := newREPL(t, &out)

	quit := r.Handle(context.Background(), "/press hilo.hi")

	assert.False(t, quit)
	assert.Empty(t, out.String())
}
