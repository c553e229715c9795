// Package command instantiates the generic command core for Discord messages
// and provides the plugin that routes prefixed messages to it.
package command

import (
	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/pkg/cmd"
)

type (
	Registry            = cmd.Registry[*bot.MessageContext]
	Command             = cmd.Command[*bot.MessageContext]
	Builder             = cmd.CommandBuilder[*bot.MessageContext]
	HandlerFunc         = cmd.HandlerFunc[*bot.MessageContext]
	Middleware          = cmd.Middleware[*bot.MessageContext]
	InteractionRegistry = cmd.InteractionRegistry[*bot.InteractionContext]
	InteractionHandler  = cmd.InteractionHandler[*bot.InteractionContext]
)

func NewRegistry(opts ...cmd.RegistryOption) *Registry {
	return cmd.NewRegistry[*bot.MessageContext](opts...)
}

func NewInteractionRegistry(opts ...cmd.RegistryOption) *InteractionRegistry {
	return cmd.NewInteractionRegistry[*bot.InteractionContext](opts...)
}

// New starts a command definition.
func New() *Builder {
	return cmd.NewCommand[*bot.MessageContext]()
}
