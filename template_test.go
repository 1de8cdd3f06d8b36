package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEmptyBranchesCollapsed is spec.md's S2: an if with an empty body
// and a bare else with a body optimizes down to just the else's
// content, with no surviving If/Else instructions at all.
func TestEmptyBranchesCollapsed(t *testing.T) {
	prog, err := Compile("if x\nelse\n  c\n")
	require.NoError(t, err)
	require.Len(t, prog.Roots, 1)
	assert.Equal(t, TplNode, prog.Roots[0].Kind)
	assert.Equal(t, "c", prog.Pool.LookupString(prog.Roots[0].Ident))
}

// TestIfElseSelection is S1: both arms survive optimization as one
// ControlFlow template with two arms.
func TestIfElseSelection(t *testing.T) {
	prog, err := Compile("if x\n  a\nelse\n  b\n")
	require.NoError(t, err)
	require.Len(t, prog.Roots, 1)
	require.Equal(t, TplControlFlow, prog.Roots[0].Kind)
	require.Len(t, prog.Roots[0].Arms, 2)
	assert.True(t, prog.Roots[0].Arms[0].HasCond)
	assert.False(t, prog.Roots[0].Arms[1].HasCond)
}

// TestNestedNodeAttributesAndText is S4.
func TestNestedNodeAttributesAndText(t *testing.T) {
	prog, err := Compile("text [a: b] \"\"\n  span \"\"\n")
	require.NoError(t, err)
	require.Len(t, prog.Roots, 1)
	root := prog.Roots[0]
	require.Equal(t, TplNode, root.Kind)
	assert.Equal(t, "text", prog.Pool.LookupString(root.Ident))
	require.Len(t, root.Attributes, 1)
	assert.Equal(t, "a", prog.Pool.LookupString(root.Attributes[0].Key))
	require.Len(t, root.Children, 1)
	assert.Equal(t, "span", prog.Pool.LookupString(root.Children[0].Ident))
}

// TestForOverStaticList is S3.
func TestForOverStaticList(t *testing.T) {
	prog, err := Compile("for item in [1, 2, 3]\n  text {{item}}\n")
	require.NoError(t, err)
	require.Len(t, prog.Roots, 1)
	assert.Equal(t, TplLoop, prog.Roots[0].Kind)

	queue := NewDirtyQueue()
	state := NewMapState(queue)
	engine := NewEngine(newStubFactory(), prog.Pool)
	ctx := Context{State: state, Scope: NewScope()}
	nodes, err := engine.Expand(ctx, prog.Roots)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, WNLoop, nodes[0].Kind)
	assert.Len(t, nodes[0].Instances, 3)
}
