package jso

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	node := &Schema{Title: "example"}
	r.Register("http://example.com/schema.json", node)

	got, ok := r.Lookup("http://example.com/schema.json")
	assert.True(t, ok, "Lookup should find the registered node")
	assert.Same(t, node, got, "Lookup should return the exact registered node")

	_, ok = r.Lookup("http://example.com/missing.json")
	assert.False(t, ok, "Lookup on an unregistered URI should miss")
}

func TestRegistryEmptyStringIsValidKey(t *testing.T) {
	r := NewRegistry()
	root := &Schema{Title: "root"}
	r.Register("", root)

	got, ok := r.Lookup("")
	assert.True(t, ok, "the empty string should be a valid registry key for the root document")
	assert.Same(t, root, got)
}

func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry()
	first := &Schema{Title: "first"}
	second := &Schema{Title: "second"}

	r.Register("u", first)
	r.Register("u", second)

	got, ok := r.Lookup("u")
	assert.True(t, ok)
	assert.Same(t, second, got, "the second registration should win")
}
