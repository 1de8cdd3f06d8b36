package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeIDChildAndEqual(t *testing.T) {
	root := Root()
	a := root.Child(0).Child(1)
	b := root.Child(0).Child(1)
	c := root.Child(0).Child(2)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, "0.1", a.String())
	assert.Equal(t, "<root>", root.String())
}

func TestNodeIDContainsIsPrefix(t *testing.T) {
	parent := Root().Child(1)
	grandchild := parent.Child(2).Child(0)

	assert.True(t, parent.Contains(grandchild))
	assert.True(t, parent.Contains(parent))
	assert.False(t, grandchild.Contains(parent))
}

func TestNodeIDLessOrdering(t *testing.T) {
	a := Root().Child(0)
	b := Root().Child(1)
	c := Root().Child(0).Child(0)

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, a.Less(c), "a shorter prefix sorts before its own extension")
}
