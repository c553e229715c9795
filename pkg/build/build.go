// Package build provides a generic two-phase builder: fields are accumulated on a
// partial value and Build refuses to hand out the value until every required field
// has been set.
//
// Typical usage:
//
//	b := build.New[Descriptor]("name")
//	b.Set("name", func(d *Descriptor) { d.Name = "ping" })
//	d, err := b.Build()
package build

import (
	"fmt"
	"strings"
)

// MissingFieldsError is returned by Build when required fields were never set.
type MissingFieldsError struct {
	Type   string
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("cannot build %s: missing required field(s) %s", e.Type, strings.Join(e.Fields, ", "))
}

// Builder accumulates fields for a T.
// A Builder is not safe for concurrent use.
type Builder[T any] struct {
	value    T
	required []string
	set      map[string]struct{}
}

// New returns a builder for T whose Build succeeds only once every field in
// required has been set.
func New[T any](required ...string) *Builder[T] {
	return &Builder[T]{
		required: required,
		set:      make(map[string]struct{}),
	}
}

// Set applies fn to the partial value and marks field as set.
func (b *Builder[T]) Set(field string, fn func(*T)) *Builder[T] {
	fn(&b.value)
	b.set[field] = struct{}{}
	return b
}

// Has reports whether field was set.
func (b *Builder[T]) Has(field string) bool {
	_, ok := b.set[field]
	return ok
}

// Missing returns the required fields that were not set, in declaration order.
func (b *Builder[T]) Missing() []string {
	var missing []string
	for _, f := range b.required {
		if !b.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Partial returns the accumulated value without checking required fields.
func (b *Builder[T]) Partial() T {
	return b.value
}

// Build returns the value, or a *MissingFieldsError naming every unset required field.
func (b *Builder[T]) Build() (T, error) {
	if missing := b.Missing(); len(missing) > 0 {
		var zero T
		return zero, &MissingFieldsError{Type: fmt.Sprintf("%T", zero), Fields: missing}
	}
	return b.value, nil
}
