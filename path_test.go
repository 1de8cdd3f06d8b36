package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathEqualAndPrefix(t *testing.T) {
	a := Compose(KeyPath("items"), IndexPath(2))
	b := Compose(KeyPath("items"), IndexPath(2))
	c := Compose(KeyPath("items"), IndexPath(3))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	nested := Compose(a, KeyPath("name"))
	assert.True(t, nested.HasPrefix(a))
	assert.True(t, nested.HasPrefix(nested))
	assert.False(t, nested.HasPrefix(c))
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "items", KeyPath("items").String())
	assert.Equal(t, "[2]", IndexPath(2).String())
	assert.Equal(t, "items.[2]", Compose(KeyPath("items"), IndexPath(2)).String())
}

func TestScopeLookupWalksToRoot(t *testing.T) {
	root := NewScope()
	root.Bind("a", ScopeValue{Kind: ScopeStatic, Static: "outer"})

	child := root.Child()
	child.Bind("b", ScopeValue{Kind: ScopeStatic, Static: "inner"})

	v, ok := child.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "outer", v.Static)

	v, ok = child.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "inner", v.Static)

	_, ok = root.Lookup("b")
	assert.False(t, ok, "a parent frame must never see a child's bindings")
}

func TestScopeChildNeverMutatesParent(t *testing.T) {
	root := NewScope()
	root.Bind("x", ScopeValue{Kind: ScopeStatic, Static: "1"})

	child := root.Child()
	child.Bind("x", ScopeValue{Kind: ScopeStatic, Static: "2"})

	v, _ := root.Lookup("x")
	assert.Equal(t, "1", v.Static)
}
