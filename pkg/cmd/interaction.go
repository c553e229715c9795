package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/keshon/botkit/pkg/build"
)

// InteractionHandler runs when the interaction it is registered under fires.
type InteractionHandler[E any] func(ctx context.Context, event E) error

// Interaction is a stateless callback keyed by an opaque id such as "hilo.hi".
type Interaction[E any] struct {
	id      string
	handler InteractionHandler[E]
}

// NewInteraction builds an interaction; both id and handler are required.
func NewInteraction[E any](id string, h InteractionHandler[E]) (*Interaction[E], error) {
	b := build.New[Interaction[E]]("id", "handler")
	if id != "" {
		b.Set("id", func(i *Interaction[E]) { i.id = id })
	}
	if h != nil {
		b.Set("handler", func(i *Interaction[E]) { i.handler = h })
	}
	it, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (i *Interaction[E]) ID() string { return i.id }

// Handle runs the interaction's handler.
func (i *Interaction[E]) Handle(ctx context.Context, event E) error {
	return i.handler(ctx, event)
}

// InteractionRegistry is a flat map from interaction id to handler. Like Registry
// it is filled at startup, sealed, and read-only afterwards.
type InteractionRegistry[E any] struct {
	items  map[string]*Interaction[E]
	cfg    registryConfig
	sealed atomic.Bool
}

// NewInteractionRegistry returns an empty interaction registry.
func NewInteractionRegistry[E any](opts ...RegistryOption) *InteractionRegistry[E] {
	return &InteractionRegistry[E]{
		items: make(map[string]*Interaction[E]),
		cfg:   newRegistryConfig(opts),
	}
}

func (r *InteractionRegistry[E]) Seal()        { r.sealed.Store(true) }
func (r *InteractionRegistry[E]) Sealed() bool { return r.sealed.Load() }

// Add registers h under id, following the duplicate policy on collision.
func (r *InteractionRegistry[E]) Add(id string, h InteractionHandler[E]) error {
	if r.Sealed() {
		return fmt.Errorf("add interaction %q: %w", id, ErrSealed)
	}
	it, err := NewInteraction(id, h)
	if err != nil {
		return err
	}
	if _, ok := r.items[id]; ok {
		return r.cfg.conflict("interaction", id)
	}
	r.items[id] = it
	return nil
}

// Get returns the interaction registered under id, or nil.
func (r *InteractionRegistry[E]) Get(id string) *Interaction[E] {
	return r.items[id]
}

// IDs returns every registered id, sorted.
func (r *InteractionRegistry[E]) IDs() []string {
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dispatch runs the interaction registered under id.
func (r *InteractionRegistry[E]) Dispatch(ctx context.Context, id string, event E) error {
	it := r.Get(id)
	if it == nil {
		return fmt.Errorf("%w: %s", ErrUnknownInteraction, id)
	}
	return it.Handle(ctx, event)
}

// InteractionDeclaration binds one interaction id to a method of T. The same
// method may appear under several ids and branch on the id it receives.
type InteractionDeclaration[T, E any] struct {
	ID     string
	Method func(T, context.Context, E) error
}

// RegisterInteractions materializes decls into r, binding every method to instance.
func RegisterInteractions[T, E any](r *InteractionRegistry[E], instance T, decls []InteractionDeclaration[T, E]) error {
	var errs []error
	for _, d := range decls {
		if d.Method == nil {
			errs = append(errs, fmt.Errorf("register interaction %q: no method bound", d.ID))
			continue
		}
		method := d.Method
		err := r.Add(d.ID, func(ctx context.Context, event E) error {
			return method(instance, ctx, event)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("register interaction %q: %w", d.ID, err))
		}
	}
	return errors.Join(errs...)
}
