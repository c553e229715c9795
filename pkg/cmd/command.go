// Package cmd is a transport-agnostic command core. A command is a named node
// with an argument spec and an optional handler, possibly holding subcommands.
// How messages reach it (Discord, a console, tests) is decided by adapters that
// instantiate the package for their own message type M.
package cmd

import (
	"context"
	"sort"
	"strings"
)

// HandlerFunc runs a resolved command for msg with its bound arguments.
type HandlerFunc[M any] func(ctx context.Context, msg M, args Args) error

// Command is a node of the command tree. It is immutable once its registry is sealed.
type Command[M any] struct {
	name          string
	emoji         string
	title         string
	description   string
	separator     Separator
	args          []Arg
	lastArgIsText bool
	handler       HandlerFunc[M]

	subcommands map[string]*Command[M]
	// synthetic marks a router node created on demand for a longer path; an
	// explicit registration under the same name takes it over.
	synthetic bool
	// parent is a back-reference used for naming only; the parent's subcommands
	// map (or the registry root) owns the node.
	parent *Command[M]
}

func (c *Command[M]) Name() string            { return c.name }
func (c *Command[M]) Emoji() string           { return c.emoji }
func (c *Command[M]) Title() string           { return c.title }
func (c *Command[M]) Description() string     { return c.description }
func (c *Command[M]) Separator() Separator    { return c.separator }
func (c *Command[M]) LastArgIsText() bool     { return c.lastArgIsText }
func (c *Command[M]) Parent() *Command[M]     { return c.parent }
func (c *Command[M]) Handler() HandlerFunc[M] { return c.handler }
func (c *Command[M]) IsRouter() bool          { return c.handler == nil }
func (c *Command[M]) HasSubcommands() bool    { return len(c.subcommands) > 0 }

// Args returns a copy of the argument spec in binding order.
func (c *Command[M]) Args() []Arg {
	out := make([]Arg, len(c.args))
	copy(out, c.args)
	return out
}

// FullName joins the names from the root down to c with single spaces.
func (c *Command[M]) FullName() string {
	var names []string
	for n := c; n != nil; n = n.parent {
		names = append(names, n.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " ")
}

// Subcommand returns the child registered under token, or nil.
func (c *Command[M]) Subcommand(token string) *Command[M] {
	return c.subcommands[strings.ToLower(token)]
}

// Subcommands returns the children sorted by name.
func (c *Command[M]) Subcommands() []*Command[M] {
	list := make([]*Command[M], 0, len(c.subcommands))
	for _, s := range c.subcommands {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].name < list[j].name
	})
	return list
}

// Usage renders the canonical usage string, e.g. "faq add <name> <content...>".
// Router-only commands list their subcommands instead: "sotd <add|history>".
func (c *Command[M]) Usage() string {
	usage := c.FullName()
	if c.handler == nil && len(c.subcommands) > 0 {
		names := make([]string, 0, len(c.subcommands))
		for _, s := range c.Subcommands() {
			names = append(names, s.name)
		}
		return usage + " <" + strings.Join(names, "|") + ">"
	}
	if args := formatArgs(c.args, c.lastArgIsText); args != "" {
		usage += " " + args
	}
	return usage
}

// Example renders an invocation built from the argument examples, or "" when the
// required arguments do not all carry one. Routers have no example.
func (c *Command[M]) Example() string {
	if c.handler == nil {
		return ""
	}
	parts := []string{c.FullName()}
	for _, a := range c.args {
		if a.Example == "" {
			if a.Required {
				return ""
			}
			break
		}
		parts = append(parts, a.Example)
	}
	if len(parts) == 1 && len(c.args) > 0 {
		return ""
	}
	return strings.Join(parts, " ")
}

// Bind tokenizes residual with the command's separator policy and binds the
// result to its argument spec.
func (c *Command[M]) Bind(residual string) (Args, error) {
	tokens := Tokenize(residual, c.separator, c.lastArgIsText, len(c.args))
	args, missing := bindArgs(c.args, tokens)
	if missing != "" {
		return Args{}, c.usageError(missing)
	}
	args.raw = residual
	return args, nil
}

func (c *Command[M]) usageError(missing string) *UsageError {
	return &UsageError{
		Command: c.FullName(),
		Usage:   c.Usage(),
		Example: c.Example(),
		Missing: missing,
	}
}

// addChild attaches child under its name. It reports false when the slot is taken.
func (c *Command[M]) addChild(child *Command[M]) bool {
	if c.subcommands == nil {
		c.subcommands = make(map[string]*Command[M])
	}
	if _, ok := c.subcommands[child.name]; ok {
		return false
	}
	child.parent = c
	c.subcommands[child.name] = child
	return true
}

// absorb lets an explicit registration take over a synthetic router node,
// keeping the children already attached to it.
func (c *Command[M]) absorb(src *Command[M]) bool {
	if !c.synthetic {
		return false
	}
	for name := range src.subcommands {
		if _, ok := c.subcommands[name]; ok {
			return false
		}
	}
	c.emoji = src.emoji
	c.title = src.title
	c.description = src.description
	c.separator = src.separator
	c.args = src.args
	c.lastArgIsText = src.lastArgIsText
	c.handler = src.handler
	c.synthetic = false
	for _, sub := range src.subcommands {
		sub.parent = nil
		c.addChild(sub)
	}
	return true
}
