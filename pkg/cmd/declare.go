package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Declaration binds a command path to a method of a handler type T.
// Handler types export a list of these instead of registering themselves:
//
//	func (p *FAQ) Commands() []cmd.Declaration[*FAQ, *bot.MessageContext] {
//		return []cmd.Declaration[*FAQ, *bot.MessageContext]{
//			{Path: "faq add", Options: addOpts, Method: (*FAQ).add},
//		}
//	}
type Declaration[T, M any] struct {
	Path    string
	Options Options
	Method  func(T, context.Context, M, Args) error
}

// RegisterAll materializes decls into r, binding every method to instance.
// Single-token paths are added at the root; longer paths create the router
// chain on demand. Conflicts follow the registry's duplicate policy.
func RegisterAll[T, M any](r *Registry[M], instance T, decls []Declaration[T, M]) error {
	var errs []error
	for _, d := range decls {
		if err := register(r, instance, d); err != nil {
			errs = append(errs, fmt.Errorf("register %q: %w", d.Path, err))
		}
	}
	return errors.Join(errs...)
}

func register[T, M any](r *Registry[M], instance T, d Declaration[T, M]) error {
	tokens := strings.Fields(d.Path)
	if len(tokens) == 0 {
		return errors.New("empty command path")
	}
	if d.Method == nil {
		return errors.New("no method bound")
	}

	method := d.Method
	c, err := NewCommand[M]().
		Name(tokens[len(tokens)-1]).
		Options(d.Options).
		Handler(func(ctx context.Context, msg M, args Args) error {
			return method(instance, ctx, msg, args)
		}).
		Build()
	if err != nil {
		return err
	}
	return r.AddPath(d.Path, c)
}
