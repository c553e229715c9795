// Package sotd runs a per-guild song of the day: members queue links and a
// daily job posts the oldest queued one to the channel the last link came from.
package sotd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/internal/plugin"
	"github.com/keshon/botkit/internal/storage"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	historyTitle   = "Song of the day history"
	historyPerPage = 5

	prevID = "sotd.history.prev"
	nextID = "sotd.history.next"
)

type Store interface {
	AddSong(guildID, channelID string, song storage.Song) error
	Songs(guildID string) ([]storage.Song, error)
	SotdChannel(guildID string) (string, error)
	NextSong(guildID string, now time.Time) (storage.Song, error)
	Guilds() []string
}

type Plugin struct {
	store    Store
	schedule string
	log      zerolog.Logger
	now      func() time.Time

	// channels maps guild id to announce channel; shared by the daily job
	// and the add command
	mu       sync.Mutex
	channels map[string]string
	session  bot.Session
}

func New(store Store, schedule string, logger zerolog.Logger) *Plugin {
	return &Plugin{
		store:    store,
		schedule: schedule,
		log:      logger.With().Str("plugin", "sotd").Logger(),
		now:      time.Now,
		channels: make(map[string]string),
	}
}

func (p *Plugin) Name() string { return "sotd" }

func (p *Plugin) RegisterCommands(r *command.Registry) error {
	return cmd.RegisterAll(r, p, []cmd.Declaration[*Plugin, *bot.MessageContext]{
		{
			Path: "sotd add",
			Options: cmd.Options{
				Emoji:       "🎵",
				Description: "Queue a song link for a future song of the day",
				Args:        []cmd.Arg{{Name: "url", Required: true, Example: "https://youtu.be/dQw4w9WgXcQ"}},
			},
			Method: (*Plugin).add,
		},
		{
			Path:    "sotd history",
			Options: cmd.Options{Description: "Show queued and posted songs"},
			Method:  (*Plugin).history,
		},
	})
}

func (p *Plugin) RegisterInteractions(r *command.InteractionRegistry) error {
	return cmd.RegisterInteractions(r, p, []cmd.InteractionDeclaration[*Plugin, *bot.InteractionContext]{
		{ID: prevID, Method: (*Plugin).turnPage},
		{ID: nextID, Method: (*Plugin).turnPage},
	})
}

// OnConnect loads the announce channels saved before the restart.
func (p *Plugin) OnConnect(_ context.Context, _ bot.Session) error {
	var errs []error
	for _, guildID := range p.store.Guilds() {
		channelID, err := p.store.SotdChannel(guildID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if channelID != "" {
			p.setChannel(guildID, channelID)
		}
	}
	return errors.Join(errs...)
}

func (p *Plugin) RegisterScheduler(s bot.Session, sched plugin.Scheduler) error {
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
	return sched.Add(p.schedule, p.PostDaily)
}

func (p *Plugin) setChannel(guildID, channelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels[guildID] = channelID
}

// Channels returns a snapshot of the announce channels.
func (p *Plugin) Channels() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]string, len(p.channels))
	for g, c := range p.channels {
		out[g] = c
	}
	return out
}

func (p *Plugin) add(_ context.Context, m *bot.MessageContext, args cmd.Args) error {
	link := args.String("url")
	if !validURL(link) {
		return m.Reply(fmt.Sprintf("`%s` does not look like a link.", link))
	}
	song := storage.Song{URL: link, AddedBy: m.AuthorID(), AddedAt: p.now().UTC()}
	err := p.store.AddSong(m.GuildID(), m.ChannelID(), song)
	if errors.Is(err, storage.ErrQueueFull) {
		return m.Reply("The queue is full, add more once a few songs have been posted.")
	}
	if err != nil {
		return fmt.Errorf("queue song: %w", err)
	}
	p.setChannel(m.GuildID(), m.ChannelID())
	return m.Reply("Queued, it will be posted here.")
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (p *Plugin) history(_ context.Context, m *bot.MessageContext, _ cmd.Args) error {
	data, err := p.historyPage(m.GuildID(), 1)
	if err != nil {
		return err
	}
	_, err = m.ReplyComplex(&discordgo.MessageSend{Embeds: data.Embeds, Components: data.Components})
	return err
}

// turnPage handles both history buttons; the id says which way.
func (p *Plugin) turnPage(_ context.Context, ic *bot.InteractionContext) error {
	msg := ic.Event.Message
	if msg == nil || len(msg.Embeds) == 0 {
		return ic.RespondEphemeral("This history is no longer available.")
	}
	page, total, ok := bot.ParsePage(msg.Embeds[0])
	if !ok {
		return ic.RespondEphemeral("This history is no longer available.")
	}
	delta := 1
	if ic.ID() == prevID {
		delta = -1
	}
	data, err := p.historyPage(ic.GuildID(), bot.Step(page, total, delta))
	if err != nil {
		return err
	}
	return ic.Update(data)
}

func (p *Plugin) historyPage(guildID string, page int) (*discordgo.InteractionResponseData, error) {
	songs, err := p.store.Songs(guildID)
	if err != nil {
		return nil, fmt.Errorf("load songs: %w", err)
	}
	total := bot.PageCount(len(songs), historyPerPage)
	items, page := bot.Page(songs, page, historyPerPage)

	lines := make([]string, 0, len(items))
	for i, s := range items {
		state := "queued"
		if s.Posted() {
			state = "posted " + s.PostedAt.Format(time.DateOnly)
		}
		lines = append(lines, fmt.Sprintf("%d. %s by <@%s> (%s)", (page-1)*historyPerPage+i+1, s.URL, s.AddedBy, state))
	}
	if len(lines) == 0 {
		lines = append(lines, "Nothing yet. Queue a song with `sotd add <url>`.")
	}

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       historyTitle,
			Description: strings.Join(lines, "\n"),
			Color:       bot.EmbedColor,
			Footer:      bot.PageFooter(page, total),
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: bot.PrevPageEmoji + " Newer", Style: discordgo.SecondaryButton, CustomID: prevID, Disabled: total < 2},
				discordgo.Button{Label: "Older " + bot.NextPageEmoji, Style: discordgo.SecondaryButton, CustomID: nextID, Disabled: total < 2},
			}},
		},
	}, nil
}

// PostDaily posts the next queued song in every guild with an announce channel.
func (p *Plugin) PostDaily(ctx context.Context) error {
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()
	if s == nil {
		return errors.New("sotd: no session yet")
	}

	channels := p.Channels()
	guilds := make([]string, 0, len(channels))
	for g := range channels {
		guilds = append(guilds, g)
	}
	sort.Strings(guilds)

	var errs []error
	for _, guildID := range guilds {
		if err := ctx.Err(); err != nil {
			return err
		}
		song, err := p.store.NextSong(guildID, p.now().UTC())
		if errors.Is(err, storage.ErrNotFound) {
			p.log.Debug().Str("guild_id", guildID).Msg("no song queued")
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("guild %s: %w", guildID, err))
			continue
		}
		content := fmt.Sprintf("🎵 **Song of the day**, picked by <@%s>\n%s", song.AddedBy, song.URL)
		if err := bot.Message(s, channels[guildID], content); err != nil {
			errs = append(errs, fmt.Errorf("guild %s: post: %w", guildID, err))
		}
	}
	return errors.Join(errs...)
}
