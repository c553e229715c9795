// Package discord connects the plugin dispatcher to a Discord gateway session.
package discord

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/internal/plugin"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const interactionErrorReply = "Something went wrong, please try again."

// Scheduler is what the bot needs from pkg/schedule.
type Scheduler interface {
	plugin.Scheduler
	Start()
	Shutdown(ctx context.Context) error
}

type Options struct {
	Token           string
	Dispatcher      *plugin.Dispatcher
	Commands        *command.Registry
	Interactions    *command.InteractionRegistry
	Scheduler       Scheduler
	Logger          zerolog.Logger
	ShutdownTimeout time.Duration
}

// Bot is a Discord bot
type Bot struct {
	dg           *discordgo.Session
	dispatcher   *plugin.Dispatcher
	commands     *command.Registry
	interactions *command.InteractionRegistry
	scheduler    Scheduler
	log          zerolog.Logger
	timeout      time.Duration

	// ctx is handed to every event handler and cancelled on shutdown
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup

	schedOnce sync.Once
}

func New(opts Options) (*Bot, error) {
	if opts.Dispatcher == nil || opts.Commands == nil || opts.Interactions == nil || opts.Scheduler == nil {
		return nil, errors.New("discord: dispatcher, registries and scheduler are required")
	}
	dg, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	b := newBot(opts)
	b.dg = dg
	return b, nil
}

func newBot(opts Options) *Bot {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		dispatcher:   opts.Dispatcher,
		commands:     opts.Commands,
		interactions: opts.Interactions,
		scheduler:    opts.Scheduler,
		log:          opts.Logger,
		timeout:      opts.ShutdownTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Run opens the gateway and blocks until ctx is done, then shuts down.
func (b *Bot) Run(ctx context.Context) error {
	b.commands.Seal()
	b.interactions.Seal()

	b.dg.Identify.Intents = discordgo.IntentsAll
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)
	b.dg.AddHandler(b.onMessageReactionAdd)
	b.dg.AddHandler(b.onMessageReactionRemove)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		b.cancel()
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, cleaning up")
	return b.shutdown()
}

// shutdown stops event intake, drains in-flight handlers, stops the
// scheduler and closes the gateway, in that order.
func (b *Bot) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	var errs []error
	if err := b.stopEvents(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := b.scheduler.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("scheduler: %w", err))
	}
	if b.dg != nil {
		if err := b.dg.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session: %w", err))
		}
	}
	for _, err := range errs {
		b.log.Error().Err(err).Msg("shutdown step failed")
	}
	return errors.Join(errs...)
}

func (b *Bot) stopEvents(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.cancel()

	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for event handlers: %w", ctx.Err())
	}
}

// enter reports whether an event may still be handled. Callers that get true
// must call b.inflight.Done.
func (b *Bot) enter() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}
	b.inflight.Add(1)
	return true
}

func selfID(s *discordgo.Session) string {
	if s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord bot is running")
	b.handleReady(s)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.handleMessage(s, selfID(s), m)
}

func (b *Bot) onMessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	b.handleReaction(s, selfID(s), r.MessageReaction, r.Member, false)
}

func (b *Bot) onMessageReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	b.handleReaction(s, selfID(s), r.MessageReaction, nil, true)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(s, selfID(s), i)
}

// handleReady runs on every (re)connect. Jobs are registered and the
// scheduler started only the first time.
func (b *Bot) handleReady(s bot.Session) {
	if !b.enter() {
		return
	}
	defer b.inflight.Done()

	b.dispatcher.Connect(b.ctx, s)
	b.schedOnce.Do(func() {
		if err := b.dispatcher.RegisterSchedulers(s, b.scheduler); err != nil {
			b.log.Error().Err(err).Msg("failed to register scheduled jobs")
		}
		b.scheduler.Start()
	})
}

func (b *Bot) handleMessage(s bot.Session, self string, m *discordgo.MessageCreate) {
	if !b.enter() {
		return
	}
	defer b.inflight.Done()

	out := b.dispatcher.DispatchMessage(b.ctx, &bot.MessageContext{Session: s, Event: m, SelfID: self})
	b.logOutcome("message", out)
}

func (b *Bot) handleReaction(s bot.Session, self string, r *discordgo.MessageReaction, member *discordgo.Member, removed bool) {
	if !b.enter() {
		return
	}
	defer b.inflight.Done()

	rc := &bot.ReactionContext{Session: s, Reaction: r, Member: member, Removed: removed, SelfID: self}
	if removed {
		b.logOutcome("reaction_remove", b.dispatcher.DispatchReactionRemove(b.ctx, rc))
		return
	}
	b.logOutcome("reaction_add", b.dispatcher.DispatchReactionAdd(b.ctx, rc))
}

// handleInteraction routes button presses by custom id. Unlike messages,
// presses outside a guild are routed too.
func (b *Bot) handleInteraction(s bot.Session, self string, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		b.log.Debug().Int("type", int(i.Type)).Msg("ignoring interaction type")
		return
	}
	if !b.enter() {
		return
	}
	defer b.inflight.Done()

	ic := &bot.InteractionContext{Session: s, Event: i, SelfID: self}
	log := b.log.With().Str("interaction", ic.ID()).Str("guild_id", i.GuildID).Logger()

	err := b.dispatchInteraction(ic)
	switch {
	case err == nil:
		return
	case errors.Is(err, cmd.ErrUnknownInteraction):
		log.Warn().Msg("no handler for interaction")
	default:
		plugin.LogError(log.Error(), err).Msg("interaction failed")
	}
	if err := ic.RespondEphemeral(interactionErrorReply); err != nil {
		log.Warn().Err(err).Msg("failed to answer interaction")
	}
}

func (b *Bot) dispatchInteraction(ic *bot.InteractionContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &plugin.PanicError{Plugin: ic.ID(), Value: r, Stack: debug.Stack()}
		}
	}()
	return b.interactions.Dispatch(b.ctx, ic.ID(), ic)
}

func (b *Bot) logOutcome(event string, out plugin.Outcome) {
	if out.State == plugin.Filtered {
		return
	}
	b.log.Debug().Str("event", event).Stringer("state", out.State).Str("plugin", out.Plugin).Msg("event dispatched")
}
