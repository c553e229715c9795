package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type descriptor struct {
	Name        string
	Description string
}

func TestBuildRequiresFields(t *testing.T) {
	b := New[descriptor]("name")
	b.Set("description", func(d *descriptor) { d.Description = "no name yet" })

	_, err := b.Build()
	require.Error(t, err)

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"name"}, missing.Fields)
	assert.Contains(t, err.Error(), "name")
}

func TestBuildListsEveryMissingField(t *testing.T) {
	b := New[descriptor]("name", "description")

	assert.Equal(t, []string{"name", "description"}, b.Missing())
}

func TestBuildSucceeds(t *testing.T) {
	d, err := New[descriptor]("name").
		Set("name", func(d *descriptor) { d.Name = "ping" }).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "ping", d.Name)
}

func TestPartialSkipsValidation(t *testing.T) {
	b := New[descriptor]("name")
	b.Set("description", func(d *descriptor) { d.Description = "partial" })

	assert.False(t, b.Has("name"))
	assert.True(t, b.Has("description"))
	assert.Equal(t, "partial", b.Partial().Description)
}
