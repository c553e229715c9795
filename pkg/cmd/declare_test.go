package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type faqHandler struct {
	entries map[string]string
}

func (f *faqHandler) add(_ context.Context, m *testMsg, args Args) error {
	f.entries[args.String("name")] = args.String("content")
	m.replies = append(m.replies, "added "+args.String("name"))
	return nil
}

func (f *faqHandler) get(_ context.Context, m *testMsg, args Args) error {
	m.replies = append(m.replies, f.entries[args.String("name")])
	return nil
}

func (f *faqHandler) declarations() []Declaration[*faqHandler, *testMsg] {
	return []Declaration[*faqHandler, *testMsg]{
		{
			Path: "faq add",
			Options: Options{
				Emoji:         "📚",
				Args:          []Arg{{Name: "name", Required: true}, {Name: "content", Required: true}},
				LastArgIsText: true,
			},
			Method: (*faqHandler).add,
		},
		{
			Path:    "faq get",
			Options: Options{Args: []Arg{{Name: "name", Required: true}}},
			Method:  (*faqHandler).get,
		},
	}
}

func TestRegisterAllBindsInstance(t *testing.T) {
	r, _ := quietRegistry()
	f := &faqHandler{entries: map[string]string{}}

	require.NoError(t, RegisterAll(r, f, f.declarations()))

	add := r.Find("faq", "add")
	require.NotNil(t, add)
	assert.Equal(t, "faq add", add.FullName())
	assert.Equal(t, "📚", add.Emoji())
	assert.True(t, r.Get("faq").IsRouter())

	msg := &testMsg{}
	res, err := r.Resolve("faq add rules be nice to each other")
	require.NoError(t, err)
	require.NoError(t, res.Invoke(context.Background(), msg))

	assert.Equal(t, "be nice to each other", f.entries["rules"])

	res, err = r.Resolve("faq get rules")
	require.NoError(t, err)
	require.NoError(t, res.Invoke(context.Background(), msg))
	assert.Equal(t, []string{"added rules", "be nice to each other"}, msg.replies)
}

func TestRegisterAllFirstRegistrantWins(t *testing.T) {
	r, _ := quietRegistry()
	first := &faqHandler{entries: map[string]string{"k": "first"}}
	second := &faqHandler{entries: map[string]string{"k": "second"}}

	require.NoError(t, RegisterAll(r, first, first.declarations()))
	require.NoError(t, RegisterAll(r, second, second.declarations()))

	res, err := r.Resolve("faq get k")
	require.NoError(t, err)

	msg := &testMsg{}
	require.NoError(t, res.Invoke(context.Background(), msg))
	assert.Equal(t, []string{"first"}, msg.replies)
}

func TestRegisterAllRejectsEmptyPath(t *testing.T) {
	r, _ := quietRegistry()
	f := &faqHandler{}

	err := RegisterAll(r, f, []Declaration[*faqHandler, *testMsg]{{Path: "  ", Method: (*faqHandler).get}})

	assert.Error(t, err)
}

func TestBuilderRequiresName(t *testing.T) {
	_, err := NewCommand[*testMsg]().Description("nameless").Build()

	assert.ErrorContains(t, err, "name")
}

func TestBuilderToObject(t *testing.T) {
	b := NewCommand[*testMsg]().
		Name("roll").
		Emoji("🎲").
		Arg("formula", "2d6").
		Separator(NoSplit)

	o := b.ToObject()

	assert.Equal(t, "🎲", o.Emoji)
	assert.Equal(t, NoSplit, o.Separator)
	assert.Equal(t, []Arg{{Name: "formula", Required: true, Example: "2d6"}}, o.Args)
}

func TestBuilderRejectsBadArgs(t *testing.T) {
	_, err := NewCommand[*testMsg]().Name("x").LastArgIsText().Build()
	assert.Error(t, err)

	_, err = NewCommand[*testMsg]().Name("x").Arg("a", "").Arg("a", "").Build()
	assert.Error(t, err)

	_, err = NewCommand[*testMsg]().Name("two words").Build()
	assert.Error(t, err)
}
