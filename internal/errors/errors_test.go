package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	base := NewStd("database unreachable")
	err := New(base).
		Component("datastore").
		Category(CategoryDatabase).
		Context("operation", "get_content_item").
		Build()

	assert.Equal(t, "database unreachable", err.Error())
	assert.Equal(t, "datastore", err.Component)
	assert.Equal(t, CategoryDatabase, err.Category)
	assert.Equal(t, "get_content_item", err.GetContext()["operation"])
	assert.True(t, Is(err, base))
}

func TestErrorBuilderDefaults(t *testing.T) {
	err := Newf("bad value: %d", 42).Build()

	assert.Equal(t, CategoryGeneric, err.Category)
	assert.NotEmpty(t, err.Component)
	assert.False(t, err.Timestamp.IsZero())
}

func TestIsMatchesCategory(t *testing.T) {
	a := Newf("first").Category(CategoryValidation).Build()
	b := Newf("second").Category(CategoryValidation).Build()
	c := Newf("third").Category(CategoryDatabase).Build()

	assert.True(t, Is(a, b), "errors with the same category should match")
	assert.False(t, Is(a, c), "errors with different categories should not match")
}

func TestUnwrap(t *testing.T) {
	base := NewStd("boom")
	err := New(base).Category(CategoryHTTP).Build()

	require.ErrorIs(t, err, base)
	assert.Equal(t, base, Unwrap(err))
}

func TestGetContextCopy(t *testing.T) {
	err := Newf("x").Context("k", "v").Build()
	ctx := err.GetContext()
	ctx["k"] = "mutated"

	assert.Equal(t, "v", err.GetContext()["k"], "GetContext must return a copy")
}
