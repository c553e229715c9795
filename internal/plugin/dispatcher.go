package plugin

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// State is where a dispatched event ended up.
type State int

const (
	// Filtered: the event failed the event type's filter predicate.
	Filtered State = iota
	// Dropped: no plugin handles this event type.
	Dropped
	// Completed: a plugin handled the event, or every plugin passed it on.
	Completed
	// Aborted: a plugin returned an error or panicked.
	Aborted
)

func (s State) String() string {
	switch s {
	case Filtered:
		return "filtered"
	case Dropped:
		return "dropped"
	case Completed:
		return "completed"
	default:
		return "aborted"
	}
}

// Outcome describes one finished chain.
type Outcome struct {
	State State
	// Plugin is the plugin that handled or aborted the event, if any.
	Plugin string
	Err    error
}

type link[E any] struct {
	name string
	run  func(context.Context, E) (Result, error)
}

// Dispatcher routes events through plugins in registration order. The plugin
// lists are fixed at construction, so one Dispatcher serves concurrent events;
// each event walks its own chain strictly sequentially.
type Dispatcher struct {
	plugins       []Plugin
	onMessage     []link[*bot.MessageContext]
	onReactAdd    []link[*bot.ReactionContext]
	onReactRemove []link[*bot.ReactionContext]
	log           zerolog.Logger
}

// NewDispatcher builds the per-event chains from plugins, keeping their order.
func NewDispatcher(logger zerolog.Logger, plugins ...Plugin) *Dispatcher {
	d := &Dispatcher{plugins: plugins, log: logger}
	for _, p := range plugins {
		if h, ok := p.(MessageHandler); ok {
			d.onMessage = append(d.onMessage, link[*bot.MessageContext]{p.Name(), h.OnMessage})
		}
		if h, ok := p.(ReactionAddHandler); ok {
			d.onReactAdd = append(d.onReactAdd, link[*bot.ReactionContext]{p.Name(), h.OnMessageReactionAdd})
		}
		if h, ok := p.(ReactionRemoveHandler); ok {
			d.onReactRemove = append(d.onReactRemove, link[*bot.ReactionContext]{p.Name(), h.OnMessageReactionRemove})
		}
	}
	return d
}

// Plugins returns the plugins in registration order.
func (d *Dispatcher) Plugins() []Plugin {
	return d.plugins
}

// DispatchMessage runs the message chain. Messages from bots and messages
// outside a guild are filtered.
func (d *Dispatcher) DispatchMessage(ctx context.Context, m *bot.MessageContext) Outcome {
	if !acceptMessage(m) {
		return Outcome{State: Filtered}
	}
	return runChain(ctx, d.log.With().Str("event", "message").Str("message_id", m.Event.ID).Logger(), d.onMessage, m)
}

// DispatchReactionAdd runs the reaction-add chain.
func (d *Dispatcher) DispatchReactionAdd(ctx context.Context, r *bot.ReactionContext) Outcome {
	if !acceptReaction(r) {
		return Outcome{State: Filtered}
	}
	return runChain(ctx, d.log.With().Str("event", "reaction_add").Str("message_id", r.MessageID()).Logger(), d.onReactAdd, r)
}

// DispatchReactionRemove runs the reaction-remove chain.
func (d *Dispatcher) DispatchReactionRemove(ctx context.Context, r *bot.ReactionContext) Outcome {
	if !acceptReaction(r) {
		return Outcome{State: Filtered}
	}
	return runChain(ctx, d.log.With().Str("event", "reaction_remove").Str("message_id", r.MessageID()).Logger(), d.onReactRemove, r)
}

func acceptMessage(m *bot.MessageContext) bool {
	if m == nil || m.Event == nil || m.Event.Message == nil {
		return false
	}
	if m.Event.Author == nil || m.Event.Author.Bot || m.Event.Author.ID == m.SelfID {
		return false
	}
	return m.Event.GuildID != ""
}

func acceptReaction(r *bot.ReactionContext) bool {
	if r == nil || r.Reaction == nil {
		return false
	}
	if r.Reaction.UserID == r.SelfID {
		return false
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return false
	}
	return r.Reaction.GuildID != ""
}

func runChain[E any](ctx context.Context, log zerolog.Logger, chain []link[E], event E) Outcome {
	if len(chain) == 0 {
		return Outcome{State: Dropped}
	}
	for _, l := range chain {
		res, err := invoke(ctx, l, event)
		if err != nil {
			LogError(log.Error(), err).Str("plugin", l.name).Msg("plugin failed, chain aborted")
			return Outcome{State: Aborted, Plugin: l.name, Err: err}
		}
		if res == Handled {
			log.Debug().Str("plugin", l.name).Msg("event handled")
			return Outcome{State: Completed, Plugin: l.name}
		}
	}
	return Outcome{State: Completed}
}

// invoke runs one plugin, turning a panic into an error so it stays inside
// this event's chain.
func invoke[E any](ctx context.Context, l link[E], event E) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Plugin: l.name, Value: r, Stack: debug.Stack()}
		}
	}()
	return l.run(ctx, event)
}

// PanicError is a recovered plugin panic.
type PanicError struct {
	Plugin string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("plugin %s panicked: %v", e.Plugin, e.Value)
}

// LogError adds err to ev, plus the goroutine stack when err is a recovered panic.
func LogError(ev *zerolog.Event, err error) *zerolog.Event {
	var pe *PanicError
	if errors.As(err, &pe) {
		ev = ev.Bytes("stack", pe.Stack)
	}
	return ev.Err(err)
}

// Connect calls OnConnect on every Connector concurrently and waits for them.
// Failures are logged; they never stop the bot.
func (d *Dispatcher) Connect(ctx context.Context, s bot.Session) {
	var g errgroup.Group
	for _, p := range d.plugins {
		c, ok := p.(Connector)
		if !ok {
			continue
		}
		name := p.Name()
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Plugin: name, Value: r, Stack: debug.Stack()}
				}
				if err != nil {
					LogError(d.log.Error(), err).Str("plugin", name).Msg("plugin connect failed")
				}
			}()
			return c.OnConnect(ctx, s)
		})
	}
	if err := g.Wait(); err != nil {
		d.log.Warn().Msg("some plugins failed to connect")
	}
}

// RegisterSchedulers lets every SchedulerRegistrar add its jobs.
func (d *Dispatcher) RegisterSchedulers(s bot.Session, sched Scheduler) error {
	var errs []error
	for _, p := range d.plugins {
		if r, ok := p.(SchedulerRegistrar); ok {
			if err := r.RegisterScheduler(s, sched); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// RegisterCommands lets every registrar fill the command and interaction registries.
func (d *Dispatcher) RegisterCommands(commands *cmd.Registry[*bot.MessageContext], interactions *cmd.InteractionRegistry[*bot.InteractionContext]) error {
	var errs []error
	for _, p := range d.plugins {
		if r, ok := p.(CommandRegistrar); ok {
			if err := r.RegisterCommands(commands); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			}
		}
		if r, ok := p.(InteractionRegistrar); ok {
			if err := r.RegisterInteractions(interactions); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
