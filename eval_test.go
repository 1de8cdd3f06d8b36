package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExprSrc(t *testing.T, pool *Pool, src string) ValueID {
	t.Helper()
	toks, err := Lex(src, pool)
	require.NoError(t, err)
	id, _, err := ParseExpr(toks, pool)
	require.NoError(t, err)
	return id
}

func TestEvalValueIdentFromState(t *testing.T) {
	pool := NewPool()
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	state.Set(KeyPath("n"), int64(7))

	id := parseExprSrc(t, pool, "n\n")
	node := Root().Child(0)
	ctx := Context{State: state, Scope: NewScope(), Node: node}

	v, ok := evalValue(ctx, id, pool)
	require.True(t, ok)
	assert.Equal(t, int64(7), v.Scalar.Int)
	assert.Equal(t, 1, state.Subscriptions().Len())
}

func TestEvalValueMemberChainSubscribesExactLeaf(t *testing.T) {
	pool := NewPool()
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	state.Set(KeyPath("user"), map[string]any{"name": "ada"})

	id := parseExprSrc(t, pool, "user.name\n")
	node := Root().Child(1)
	ctx := Context{State: state, Scope: NewScope(), Node: node}

	v, ok := evalValue(ctx, id, pool)
	require.True(t, ok)
	assert.Equal(t, "ada", v.StringVal)

	// The subscription recorded must be at the composed leaf path, not
	// at the bare "user" root: mutating a sibling field must not dirty
	// this node.
	state.Set(Compose(KeyPath("user"), KeyPath("age")), int64(1))
	assert.Empty(t, queue.Drain(), "a sibling field mutation must not notify a node subscribed to user.name")

	state.Set(Compose(KeyPath("user"), KeyPath("name")), "grace")
	entries := queue.Drain()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Node.Equal(node))
}

func TestEvalValueBinaryArithmeticAndComparison(t *testing.T) {
	pool := NewPool()
	ctx := Context{State: NewMapState(NewDirtyQueue()), Scope: NewScope()}

	id := parseExprSrc(t, pool, "1 + 2 * 3\n")
	v, ok := evalValue(ctx, id, pool)
	require.True(t, ok)
	assert.Equal(t, float64(7), v.Scalar.Float)

	id = parseExprSrc(t, pool, "2 < 3\n")
	v, ok = evalValue(ctx, id, pool)
	require.True(t, ok)
	assert.True(t, v.Scalar.Bool)
}

func TestEvalValueAndOrShortCircuit(t *testing.T) {
	pool := NewPool()
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	node := Root()
	ctx := Context{State: state, Scope: NewScope(), Node: node}

	id := parseExprSrc(t, pool, "false && never\n")
	v, ok := evalValue(ctx, id, pool)
	require.True(t, ok)
	assert.False(t, v.Scalar.Bool)
	assert.Equal(t, 0, state.Subscriptions().Len(), "the right operand of a short-circuited && must never be evaluated")

	id = parseExprSrc(t, pool, "true || never\n")
	v, ok = evalValue(ctx, id, pool)
	require.True(t, ok)
	assert.True(t, v.Scalar.Bool)
}

func TestEvalValueEqualityCrossShapeFalse(t *testing.T) {
	pool := NewPool()
	ctx := Context{State: NewMapState(NewDirtyQueue()), Scope: NewScope()}

	id := parseExprSrc(t, pool, "1 == \"1\"\n")
	v, ok := evalValue(ctx, id, pool)
	require.True(t, ok)
	assert.False(t, v.Scalar.Bool, "a number and a string never compare equal regardless of textual value")
}

func TestEvalIndexFallbackOnScopeBoundStaticList(t *testing.T) {
	pool := NewPool()
	root := NewScope()
	root.Bind("xs", ScopeValue{Kind: ScopeCollection, Coll: newStaticCollection([]ValueReference{
		RefFromOwned(OwnedFromInt(10)),
		RefFromOwned(OwnedFromInt(20)),
	})})
	ctx := Context{State: NewMapState(NewDirtyQueue()), Scope: root}

	id := parseExprSrc(t, pool, "xs[1]\n")
	v, ok := evalValue(ctx, id, pool)
	require.True(t, ok)
	assert.Equal(t, int64(20), v.Scalar.Int)
}
