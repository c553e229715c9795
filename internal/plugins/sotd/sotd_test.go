package sotd

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/keshon/botkit/datastore"
	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/bot/bottest"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/internal/storage"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	plugin       *Plugin
	store        *storage.Storage
	router       *command.Router
	interactions *command.InteractionRegistry
	session      *bottest.Session
}

func setup(t *testing.T) *fixture {
	t.Helper()
	cfg := datastore.DefaultConfig(filepath.Join(t.TempDir(), "sotd.json"))
	cfg.AutoSaveInterval = 0
	ds, err := datastore.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })
	store := storage.New(ds)

	p := New(store, "0 9 * * *", zerolog.Nop())
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }

	r := command.NewRegistry(cmd.WithLogger(zerolog.Nop()))
	ir := command.NewInteractionRegistry(cmd.WithLogger(zerolog.Nop()))
	require.NoError(t, p.RegisterCommands(r))
	require.NoError(t, p.RegisterInteractions(ir))
	r.Seal()
	ir.Seal()

	return &fixture{
		plugin:       p,
		store:        store,
		router:       command.NewRouter("!", r, zerolog.Nop()),
		interactions: ir,
		session:      bottest.New(),
	}
}

func (f *fixture) say(t *testing.T, channelID, content string) {
	t.Helper()
	ev := bottest.MessageCreate("g1", channelID, "u1", content)
	_, err := f.router.OnMessage(context.Background(), &bot.MessageContext{Session: f.session, Event: ev})
	require.NoError(t, err)
}

func (f *fixture) press(t *testing.T, id string, msg *discordgo.Message) {
	t.Helper()
	ic := &bot.InteractionContext{Session: f.session, Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		GuildID: "g1",
		Message: msg,
		Data:    discordgo.MessageComponentInteractionData{CustomID: id},
	}}}
	require.NoError(t, f.interactions.Dispatch(context.Background(), ic.ID(), ic))
}

type fakeScheduler struct {
	spec string
	job  func(context.Context) error
}

func (f *fakeScheduler) Add(spec string, job func(context.Context) error) error {
	f.spec, f.job = spec, job
	return nil
}

func TestAddAndDailyPost(t *testing.T) {
	f := setup(t)
	sched := &fakeScheduler{}
	require.NoError(t, f.plugin.RegisterScheduler(f.session, sched))
	assert.Equal(t, "0 9 * * *", sched.spec)

	f.say(t, "music", "!sotd add https://example.com/song")
	f.say(t, "music", "!sotd add not-a-link")
	assert.Equal(t, map[string]string{"g1": "music"}, f.plugin.Channels())

	require.NoError(t, sched.job(context.Background()))
	require.NoError(t, sched.job(context.Background()))

	assert.Equal(t, []string{
		"Queued, it will be posted here.",
		"`not-a-link` does not look like a link.",
		"🎵 **Song of the day**, picked by <@u1>\nhttps://example.com/song",
	}, f.session.Contents())
	assert.Equal(t, "music", f.session.Sent[2].ChannelID)
}

func TestOnConnectRestoresChannels(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.store.AddSong("g7", "radio", storage.Song{URL: "https://x"}))

	require.NoError(t, f.plugin.OnConnect(context.Background(), f.session))

	assert.Equal(t, "radio", f.plugin.Channels()["g7"])
}

func TestHistoryButtons(t *testing.T) {
	f := setup(t)
	for i := 0; i < 7; i++ {
		require.NoError(t, f.store.AddSong("g1", "music", storage.Song{URL: fmt.Sprintf("https://example.com/%d", i), AddedBy: "u1"}))
	}

	f.say(t, "music", "!sotd history")
	require.Len(t, f.session.Sent, 1)
	sent := f.session.Sent[0]
	require.Len(t, sent.Components, 1)
	assert.Equal(t, "Page 1/2", sent.Embeds[0].Footer.Text)
	assert.Contains(t, sent.Embeds[0].Description, "1. https://example.com/6")

	msg := &discordgo.Message{Embeds: sent.Embeds}
	f.press(t, nextID, msg)
	require.Len(t, f.session.Responses, 1)
	resp := f.session.Responses[0]
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	assert.Equal(t, "Page 2/2", resp.Data.Embeds[0].Footer.Text)
	assert.Contains(t, resp.Data.Embeds[0].Description, "6. https://example.com/1")

	f.press(t, prevID, &discordgo.Message{Embeds: resp.Data.Embeds})
	assert.Equal(t, "Page 1/2", f.session.Responses[1].Data.Embeds[0].Footer.Text)
}

func TestSotdWithoutSubcommandShowsUsage(t *testing.T) {
	f := setup(t)

	f.say(t, "music", "!sotd")

	assert.Equal(t, []string{"Usage: `!sotd <add|history>`"}, f.session.Contents())
}

// fullStore is a guild whose queue has no room left.
type fullStore struct {
	*storage.Storage
}

func (fullStore) AddSong(string, string, storage.Song) error { return storage.ErrQueueFull }

func TestAddToFullQueue(t *testing.T) {
	f := setup(t)
	f.plugin.store = fullStore{f.store}

	f.say(t, "c1", "!sotd add https://example.com/song")

	assert.Equal(t, []string{"The queue is full, add more once a few songs have been posted."}, f.session.Contents())
	assert.Empty(t, f.plugin.Channels())
}
