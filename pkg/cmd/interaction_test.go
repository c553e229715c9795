package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type press struct {
	id  string
	out []string
}

type hilo struct{}

func (hilo) guess(_ context.Context, p *press) error {
	switch p.id {
	case "hilo.hi":
		p.out = append(p.out, "higher")
	case "hilo.lo":
		p.out = append(p.out, "lower")
	}
	return nil
}

func TestRegisterInteractionsSameMethodTwoIDs(t *testing.T) {
	r := NewInteractionRegistry[*press](WithLogger(zerolog.Nop()))

	err := RegisterInteractions(r, hilo{}, []InteractionDeclaration[hilo, *press]{
		{ID: "hilo.hi", Method: hilo.guess},
		{ID: "hilo.lo", Method: hilo.guess},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hilo.hi", "hilo.lo"}, r.IDs())

	p := &press{id: "hilo.lo"}
	require.NoError(t, r.Dispatch(context.Background(), p.id, p))
	assert.Equal(t, []string{"lower"}, p.out)
}

func TestInteractionFirstWins(t *testing.T) {
	var logs bytes.Buffer
	r := NewInteractionRegistry[*press](WithLogger(zerolog.New(&logs)))

	require.NoError(t, r.Add("x", func(_ context.Context, p *press) error {
		p.out = append(p.out, "first")
		return nil
	}))
	require.NoError(t, r.Add("x", func(_ context.Context, p *press) error {
		p.out = append(p.out, "second")
		return nil
	}))

	p := &press{}
	require.NoError(t, r.Dispatch(context.Background(), "x", p))
	assert.Equal(t, []string{"first"}, p.out)
	assert.Contains(t, logs.String(), `"kind":"interaction"`)
}

func TestInteractionUnknown(t *testing.T) {
	r := NewInteractionRegistry[*press]()

	err := r.Dispatch(context.Background(), "nope", &press{})

	assert.ErrorIs(t, err, ErrUnknownInteraction)
	assert.Nil(t, r.Get("nope"))
}

func TestInteractionRequiresIDAndHandler(t *testing.T) {
	_, err := NewInteraction[*press]("", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "id")
	assert.Contains(t, err.Error(), "handler")
}

func TestInteractionSealed(t *testing.T) {
	r := NewInteractionRegistry[*press]()
	r.Seal()

	assert.ErrorIs(t, r.Add("late", func(context.Context, *press) error { return nil }), ErrSealed)
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, FirstWins, p)

	p, err = ParseDuplicatePolicy("Reject")
	require.NoError(t, err)
	assert.Equal(t, Reject, p)

	_, err = ParseDuplicatePolicy("last-wins")
	assert.Error(t, err)
}
