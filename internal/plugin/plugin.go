// Package plugin defines the capabilities a bot plugin may implement and the
// dispatcher that routes platform events through them.
//
// A plugin implements Plugin plus any subset of the capability interfaces
// below; each capability is discovered independently with a type assertion.
package plugin

import (
	"context"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/pkg/cmd"
)

// Result tells the dispatcher what to do after a plugin handled an event.
// A non-nil error returned alongside it aborts the chain whatever the Result.
type Result int

const (
	// Handled stops the chain: the event was consumed.
	Handled Result = iota
	// PassThrough hands the event to the next plugin.
	PassThrough
)

func (r Result) String() string {
	if r == PassThrough {
		return "pass-through"
	}
	return "handled"
}

// Plugin is the only method every plugin must have.
type Plugin interface {
	Name() string
}

// Connector is notified once per successful login.
type Connector interface {
	OnConnect(ctx context.Context, s bot.Session) error
}

// MessageHandler takes part in the chain for new guild messages.
type MessageHandler interface {
	OnMessage(ctx context.Context, m *bot.MessageContext) (Result, error)
}

// ReactionAddHandler takes part in the chain for added reactions.
type ReactionAddHandler interface {
	OnMessageReactionAdd(ctx context.Context, r *bot.ReactionContext) (Result, error)
}

// ReactionRemoveHandler takes part in the chain for removed reactions.
type ReactionRemoveHandler interface {
	OnMessageReactionRemove(ctx context.Context, r *bot.ReactionContext) (Result, error)
}

// Scheduler runs jobs on cron expressions.
type Scheduler interface {
	Add(spec string, job func(ctx context.Context) error) error
}

// SchedulerRegistrar registers periodic jobs once, after the first connect.
type SchedulerRegistrar interface {
	RegisterScheduler(s bot.Session, sched Scheduler) error
}

// CommandRegistrar adds its commands during startup, before the registry is sealed.
type CommandRegistrar interface {
	RegisterCommands(r *cmd.Registry[*bot.MessageContext]) error
}

// InteractionRegistrar adds its interactions during startup.
type InteractionRegistrar interface {
	RegisterInteractions(r *cmd.InteractionRegistry[*bot.InteractionContext]) error
}
