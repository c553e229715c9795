package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/plugin"
	"github.com/keshon/botkit/pkg/cmd"

	"github.com/rs/zerolog"
)

const (
	configErrorReply  = "This command is not correctly configured, please contact an admin."
	genericErrorReply = "Something went wrong while running `%s%s`."
)

// Router is the plugin that turns prefixed messages into command runs.
// Messages without the prefix, or naming no known command, pass through.
type Router struct {
	prefix     string
	registry   *Registry
	middleware []Middleware
	log        zerolog.Logger
}

func NewRouter(prefix string, registry *Registry, logger zerolog.Logger, mws ...Middleware) *Router {
	return &Router{prefix: prefix, registry: registry, middleware: mws, log: logger}
}

func (r *Router) Name() string { return "commands" }

func (r *Router) Prefix() string { return r.prefix }

func (r *Router) Registry() *Registry { return r.registry }

func (r *Router) OnMessage(ctx context.Context, m *bot.MessageContext) (plugin.Result, error) {
	text, ok := strings.CutPrefix(m.Content(), r.prefix)
	if !ok {
		return plugin.PassThrough, nil
	}

	res, err := r.registry.Resolve(text)
	if errors.Is(err, cmd.ErrUnknownCommand) {
		return plugin.PassThrough, nil
	}
	if err == nil {
		err = res.Invoke(ctx, m, r.middleware...)
	}
	if err == nil {
		return plugin.Handled, nil
	}
	return plugin.Handled, r.replyError(m, res, err)
}

// replyError tells the user what went wrong. Only a failed reply is returned.
func (r *Router) replyError(m *bot.MessageContext, res *cmd.Resolution[*bot.MessageContext], err error) error {
	var (
		usage  *cmd.UsageError
		config *cmd.ConfigurationError
		reply  string
	)
	switch {
	case errors.As(err, &usage):
		reply = r.UsageText(usage)
	case errors.As(err, &config):
		r.log.Error().Err(err).Str("dependency", config.Dependency).Msg("command misconfigured")
		reply = configErrorReply
	default:
		name := ""
		if res != nil {
			name = res.Command.FullName()
		}
		r.log.Error().Err(err).Str("command", name).Msg("command failed")
		reply = fmt.Sprintf(genericErrorReply, r.prefix, name)
	}
	if sendErr := m.Reply(reply); sendErr != nil {
		return fmt.Errorf("reply to %s: %w", m.Event.ID, sendErr)
	}
	return nil
}

// UsageText renders a usage error the way users see it.
func (r *Router) UsageText(u *cmd.UsageError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: `%s%s`", r.prefix, u.Usage)
	if u.Example != "" {
		fmt.Fprintf(&b, "\nExample: `%s%s`", r.prefix, u.Example)
	}
	return b.String()
}
