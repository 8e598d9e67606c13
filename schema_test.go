package jso

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaTypeAllowedMixed(t *testing.T) {
	s := &Schema{}
	for _, k := range []string{"null", "boolean", "integer", "number", "string", "array", "object"} {
		assert.True(t, s.TypeAllowed(k), "a mixed (no type) schema should allow %q", k)
	}
}

func TestSchemaTypeAllowedSingle(t *testing.T) {
	s := &Schema{Types: []string{"string"}}
	assert.True(t, s.TypeAllowed("string"))
	assert.False(t, s.TypeAllowed("integer"))
}

func TestSchemaTypeAllowedNumberAcceptsWholeDouble(t *testing.T) {
	s := &Schema{Types: []string{"number"}}
	assert.True(t, s.TypeAllowed("integer"), "a number-typed schema should also allow an integer-kind check (whole-valued doubles satisfy it)")

	intOnly := &Schema{Types: []string{"integer"}}
	assert.False(t, intOnly.TypeAllowed("number"), "an integer-typed schema should NOT allow a bare number kind (the reverse direction does not hold)")
}

func TestSchemaEffectiveResolvesRefChain(t *testing.T) {
	leaf := &Schema{Title: "leaf"}
	middle := &Schema{Resolved: leaf}
	root := &Schema{Resolved: middle}

	assert.Same(t, leaf, root.effective())
}

func TestSchemaEffectiveNoRef(t *testing.T) {
	s := &Schema{Title: "plain"}
	assert.Same(t, s, s.effective(), "effective() on a node with no $ref should return itself")
}

func TestSchemaEffectiveNilReceiver(t *testing.T) {
	var s *Schema
	assert.Nil(t, s.effective())
}

func TestSchemaEffectiveBreaksRefCycle(t *testing.T) {
	a := &Schema{}
	b := &Schema{}
	a.Resolved = b
	b.Resolved = a // a cycle; effective() must not loop forever

	got := a.effective()
	assert.True(t, got == a || got == b, "effective() on a cyclic $ref chain should return a or b, got %v", got)
}
