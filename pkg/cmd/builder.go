package cmd

import (
	"fmt"
	"strings"

	"github.com/keshon/botkit/pkg/build"
)

// Options is the metadata a command carries besides its name and handler.
// It is what declarative registration supplies for every declared path.
type Options struct {
	Emoji         string
	Title         string
	Description   string
	Separator     Separator
	Args          []Arg
	LastArgIsText bool
}

// CommandBuilder constructs a Command fluently. Build fails until Name was called.
type CommandBuilder[M any] struct {
	b    *build.Builder[Command[M]]
	subs []*Command[M]
}

// NewCommand starts a command builder.
func NewCommand[M any]() *CommandBuilder[M] {
	return &CommandBuilder[M]{b: build.New[Command[M]]("name")}
}

func (cb *CommandBuilder[M]) Name(name string) *CommandBuilder[M] {
	cb.b.Set("name", func(c *Command[M]) { c.name = strings.ToLower(name) })
	return cb
}

func (cb *CommandBuilder[M]) Emoji(emoji string) *CommandBuilder[M] {
	cb.b.Set("emoji", func(c *Command[M]) { c.emoji = emoji })
	return cb
}

func (cb *CommandBuilder[M]) Title(title string) *CommandBuilder[M] {
	cb.b.Set("title", func(c *Command[M]) { c.title = title })
	return cb
}

func (cb *CommandBuilder[M]) Description(desc string) *CommandBuilder[M] {
	cb.b.Set("description", func(c *Command[M]) { c.description = desc })
	return cb
}

func (cb *CommandBuilder[M]) Separator(sep Separator) *CommandBuilder[M] {
	cb.b.Set("separator", func(c *Command[M]) { c.separator = sep })
	return cb
}

// Arg appends a required argument.
func (cb *CommandBuilder[M]) Arg(name, example string) *CommandBuilder[M] {
	return cb.appendArg(Arg{Name: name, Required: true, Example: example})
}

// OptionalArg appends an optional argument.
func (cb *CommandBuilder[M]) OptionalArg(name, example string) *CommandBuilder[M] {
	return cb.appendArg(Arg{Name: name, Example: example})
}

func (cb *CommandBuilder[M]) appendArg(a Arg) *CommandBuilder[M] {
	cb.b.Set("args", func(c *Command[M]) { c.args = append(c.args, a) })
	return cb
}

// LastArgIsText makes the final argument consume the rest of the line.
func (cb *CommandBuilder[M]) LastArgIsText() *CommandBuilder[M] {
	cb.b.Set("lastArgIsText", func(c *Command[M]) { c.lastArgIsText = true })
	return cb
}

func (cb *CommandBuilder[M]) Handler(h HandlerFunc[M]) *CommandBuilder[M] {
	cb.b.Set("handler", func(c *Command[M]) { c.handler = h })
	return cb
}

// Subcommand attaches an already built child.
func (cb *CommandBuilder[M]) Subcommand(child *Command[M]) *CommandBuilder[M] {
	cb.subs = append(cb.subs, child)
	return cb
}

// Options merges every non-zero field of o into the builder.
func (cb *CommandBuilder[M]) Options(o Options) *CommandBuilder[M] {
	if o.Emoji != "" {
		cb.Emoji(o.Emoji)
	}
	if o.Title != "" {
		cb.Title(o.Title)
	}
	if o.Description != "" {
		cb.Description(o.Description)
	}
	if o.Separator != (Separator{}) {
		cb.Separator(o.Separator)
	}
	for _, a := range o.Args {
		cb.appendArg(a)
	}
	if o.LastArgIsText {
		cb.LastArgIsText()
	}
	return cb
}

// ToObject returns the metadata accumulated so far without validating anything.
func (cb *CommandBuilder[M]) ToObject() Options {
	c := cb.b.Partial()
	return Options{
		Emoji:         c.emoji,
		Title:         c.title,
		Description:   c.description,
		Separator:     c.separator,
		Args:          append([]Arg(nil), c.args...),
		LastArgIsText: c.lastArgIsText,
	}
}

// Build validates the accumulated fields and returns the command.
func (cb *CommandBuilder[M]) Build() (*Command[M], error) {
	c, err := cb.b.Build()
	if err != nil {
		return nil, err
	}
	if c.name == "" || strings.ContainsAny(c.name, " \t\n") {
		return nil, fmt.Errorf("invalid command name %q: must be a single token", c.name)
	}
	if c.lastArgIsText && len(c.args) == 0 {
		return nil, fmt.Errorf("command %q: last-arg-is-text needs at least one argument", c.name)
	}
	seen := make(map[string]bool, len(c.args))
	for _, a := range c.args {
		if seen[a.Name] {
			return nil, fmt.Errorf("command %q: duplicate argument %q", c.name, a.Name)
		}
		seen[a.Name] = true
	}

	out := &c
	for _, sub := range cb.subs {
		if sub.parent != nil {
			return nil, fmt.Errorf("command %q already belongs to %q", sub.name, sub.parent.FullName())
		}
		if !out.addChild(sub) {
			return nil, &ConflictError{Kind: "subcommand", Key: out.name + " " + sub.name}
		}
	}
	return out, nil
}

// MustBuild is like Build but panics on error. Use it for command literals
// defined at startup.
func (cb *CommandBuilder[M]) MustBuild() *Command[M] {
	c, err := cb.Build()
	if err != nil {
		panic(err)
	}
	return c
}
