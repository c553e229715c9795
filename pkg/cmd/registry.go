package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Registry owns the root commands. It is populated once at startup, sealed, and
// read-only afterwards, so lookups need no locking.
type Registry[M any] struct {
	roots  map[string]*Command[M]
	cfg    registryConfig
	sealed atomic.Bool
}

// NewRegistry returns an empty registry.
func NewRegistry[M any](opts ...RegistryOption) *Registry[M] {
	return &Registry[M]{
		roots: make(map[string]*Command[M]),
		cfg:   newRegistryConfig(opts),
	}
}

// Seal forbids further registrations.
func (r *Registry[M]) Seal() { r.sealed.Store(true) }

// Sealed reports whether Seal was called.
func (r *Registry[M]) Sealed() bool { return r.sealed.Load() }

// Add inserts c at the root under its name. When the name is taken the
// duplicate policy decides: FirstWins keeps the original and returns nil.
func (r *Registry[M]) Add(c *Command[M]) error {
	if r.Sealed() {
		return fmt.Errorf("add %q: %w", c.name, ErrSealed)
	}
	if c.parent != nil {
		return fmt.Errorf("add %q: command already belongs to %q", c.name, c.parent.FullName())
	}
	if existing, ok := r.roots[c.name]; ok {
		if existing.absorb(c) {
			return nil
		}
		return r.cfg.conflict("command", c.name)
	}
	r.roots[c.name] = c
	return nil
}

// Define builds a command with fn and adds it at the root.
func (r *Registry[M]) Define(fn func(b *CommandBuilder[M])) error {
	b := NewCommand[M]()
	fn(b)
	c, err := b.Build()
	if err != nil {
		return err
	}
	return r.Add(c)
}

// Get returns the root command registered under name, or nil.
func (r *Registry[M]) Get(name string) *Command[M] {
	return r.roots[strings.ToLower(name)]
}

// GetOrCreate returns the root command name, creating a router-only node when absent.
func (r *Registry[M]) GetOrCreate(name string) (*Command[M], error) {
	if c := r.Get(name); c != nil {
		return c, nil
	}
	c, err := NewCommand[M]().Name(name).Build()
	if err != nil {
		return nil, err
	}
	c.synthetic = true
	if err := r.Add(c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddPath attaches leaf at a whitespace-separated path such as "sotd add".
// Intermediate nodes are created as router-only commands when missing. The last
// path token must equal the leaf name.
func (r *Registry[M]) AddPath(path string, leaf *Command[M]) error {
	tokens := strings.Fields(strings.ToLower(path))
	if len(tokens) == 0 {
		return fmt.Errorf("empty command path")
	}
	if tokens[len(tokens)-1] != leaf.name {
		return fmt.Errorf("command path %q does not end with %q", path, leaf.name)
	}
	if len(tokens) == 1 {
		return r.Add(leaf)
	}
	if r.Sealed() {
		return fmt.Errorf("add %q: %w", path, ErrSealed)
	}

	node, err := r.GetOrCreate(tokens[0])
	if err != nil {
		return err
	}
	for _, tok := range tokens[1 : len(tokens)-1] {
		child := node.Subcommand(tok)
		if child == nil {
			child, err = NewCommand[M]().Name(tok).Build()
			if err != nil {
				return err
			}
			child.synthetic = true
			node.addChild(child)
		}
		node = child
	}
	if existing := node.Subcommand(leaf.name); existing != nil && existing.absorb(leaf) {
		return nil
	}
	if !node.addChild(leaf) {
		return r.cfg.conflict("command", node.FullName()+" "+leaf.name)
	}
	return nil
}

// Find walks the tree along tokens and returns the node reached, or nil.
func (r *Registry[M]) Find(tokens ...string) *Command[M] {
	if len(tokens) == 0 {
		return nil
	}
	c := r.Get(tokens[0])
	for _, tok := range tokens[1:] {
		if c == nil {
			return nil
		}
		c = c.Subcommand(tok)
	}
	return c
}

// List returns the root commands sorted by name.
func (r *Registry[M]) List() []*Command[M] {
	list := make([]*Command[M], 0, len(r.roots))
	for _, c := range r.roots {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].name < list[j].name
	})
	return list
}

// Resolution is a command matched against message text, with its arguments bound.
type Resolution[M any] struct {
	Command *Command[M]
	Args    Args
}

// Invoke runs the resolved command's handler wrapped in mws.
func (res *Resolution[M]) Invoke(ctx context.Context, msg M, mws ...Middleware[M]) error {
	err := Apply(res.Command, res.Command.handler, mws...)(ctx, msg, res.Args)
	if errors.Is(err, ErrUsage) {
		return res.Command.usageError("")
	}
	return err
}

// Resolve matches text (prefix already stripped) against the tree.
//
// The first token selects a root command. Following tokens descend into
// subcommands for as long as they match; the rest is re-joined with single
// spaces and bound with the matched command's own separator policy.
func (r *Registry[M]) Resolve(text string) (*Resolution[M], error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, ErrUnknownCommand
	}
	c := r.Get(tokens[0])
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, tokens[0])
	}

	i := 1
	for i < len(tokens) {
		sub := c.Subcommand(tokens[i])
		if sub == nil {
			break
		}
		c = sub
		i++
	}

	if c.handler == nil {
		return nil, c.usageError("")
	}
	args, err := c.Bind(strings.Join(tokens[i:], " "))
	if err != nil {
		return nil, err
	}
	return &Resolution[M]{Command: c, Args: args}, nil
}
