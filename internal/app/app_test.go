package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/bot/bottest"
	"github.com/keshon/botkit/internal/config"
	"github.com/keshon/botkit/internal/plugin"
	"github.com/keshon/botkit/internal/storage"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) (*App, *storage.Storage) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "app.json"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		CommandPrefix:   "!",
		SotdSchedule:    "0 9 * * *",
		DuplicatePolicy: cmd.Reject,
	}
	a, err := New(cfg, store, zerolog.Nop())
	require.NoError(t, err)
	return a, store
}

func TestEveryPluginRegistersWithoutConflict(t *testing.T) {
	a, _ := newApp(t)

	var roots []string
	for _, c := range a.Commands.List() {
		roots = append(roots, c.Name())
	}
	assert.ElementsMatch(t, []string{"faq", "fortune", "help", "hilo", "roll", "say", "shout", "sotd"}, roots)
	assert.Equal(t, []string{"hilo.hi", "hilo.lo", "sotd.history.next", "sotd.history.prev"}, a.Interactions.IDs())
	assert.True(t, a.Commands.Sealed())
	assert.True(t, a.Interactions.Sealed())
}

func TestCommandRunIsRecorded(t *testing.T) {
	a, store := newApp(t)
	s := bottest.New()

	tests := []struct {
		description string
		content     string
		state       plugin.State
		plugin      string
	}{
		{description: "command handled by the router", content: "!say hello there", state: plugin.Completed, plugin: "commands"},
		{description: "unknown command passes every plugin", content: "!nope", state: plugin.Completed},
		{description: "plain chat passes every plugin", content: "good morning", state: plugin.Completed},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			out := a.Dispatcher.DispatchMessage(context.Background(), &bot.MessageContext{
				Session: s,
				Event:   bottest.MessageCreate("g1", "c1", "u1", tt.content),
				SelfID:  "self",
			})
			assert.Equal(t, tt.state, out.State)
			assert.Equal(t, tt.plugin, out.Plugin)
		})
	}

	assert.Equal(t, []string{"hello there"}, s.Contents())
	history, err := store.CommandsHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "say", history[0].Command)
	assert.Equal(t, "hello there", history[0].Param)
}

func TestMissingFortuneURLIsReported(t *testing.T) {
	a, _ := newApp(t)
	s := bottest.New()

	a.Dispatcher.DispatchMessage(context.Background(), &bot.MessageContext{
		Session: s,
		Event:   bottest.MessageCreate("g1", "c1", "u1", "!fortune"),
	})

	assert.Equal(t, []string{"This command is not correctly configured, please contact an admin."}, s.Contents())
}
