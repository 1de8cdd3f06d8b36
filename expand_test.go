package lattice

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWidget is a minimal Widget used by this package's own tests,
// standing in for internal/widgets' real implementations (which cannot
// be imported here without an import cycle, since they import this
// package).
type stubWidget struct {
	kind string
	text string
}

func (w *stubWidget) Kind() string      { return w.kind }
func (w *stubWidget) Layout(Size) Size  { return Size{W: len(w.text), H: 1} }
func (w *stubWidget) Position(Point)    {}
func (w *stubWidget) Paint() []string   { return []string{w.text} }

func newStubFactory() *Factory {
	f := NewFactory()
	for _, kind := range []string{"text", "span", "vstack", "hstack", "a", "b", "c"} {
		f.Register(kind, func(attrs map[string]ValueReference, text *string, node NodeID, ctx Context) (Widget, error) {
			s := ""
			if text != nil {
				s = *text
			}
			return &stubWidget{kind: kind, text: s}, nil
		})
	}
	return f
}

func compileAndExpand(t *testing.T, src string, state State) (*Program, []*WidgetNode, *Engine) {
	t.Helper()
	prog, err := Compile(src)
	require.NoError(t, err)
	engine := NewEngine(newStubFactory(), prog.Pool)
	ctx := Context{State: state, Scope: NewScope()}
	nodes, err := engine.Expand(ctx, prog.Roots)
	require.NoError(t, err)
	return prog, nodes, engine
}

func TestExpandIfElseSelectionAndToggle(t *testing.T) {
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	state.Set(KeyPath("x"), true)

	_, nodes, engine := compileAndExpand(t, "if x\n  a\nelse\n  b\n", state)
	require.Len(t, nodes, 1)
	cf := nodes[0]
	require.Equal(t, WNControlFlow, cf.Kind)
	require.Equal(t, 0, cf.Active)
	require.Len(t, cf.ArmBodies, 1)
	assert.Equal(t, "a", cf.ArmBodies[0].Widget.(*stubWidget).kind)

	state.Set(KeyPath("x"), false)
	entries := queue.Drain()
	require.NotEmpty(t, entries)
	ctx := Context{State: state}
	for _, e := range entries {
		require.NoError(t, engine.Update(ctx, nodes, e))
	}
	require.Equal(t, 1, cf.Active)
	require.Len(t, cf.ArmBodies, 1)
	assert.Equal(t, "b", cf.ArmBodies[0].Widget.(*stubWidget).kind)
}

func TestExpandForOverStaticList(t *testing.T) {
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	_, nodes, _ := compileAndExpand(t, "for item in [1, 2, 3]\n  text {{item}}\n", state)
	require.Len(t, nodes, 1)
	loop := nodes[0]
	require.Equal(t, WNLoop, loop.Kind)
	require.Len(t, loop.Instances, 3)
	for i, inst := range loop.Instances {
		require.Len(t, inst, 1)
		got := inst[0].Widget.(*stubWidget).text
		assert.Equal(t, fmt.Sprintf("%d", i+1), got)
	}
}

// TestIncrementalListMutation is spec.md's S6: pushing and removing an
// element updates the live loop in place.
func TestIncrementalListMutation(t *testing.T) {
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	list := NewDynamicList(KeyPath("names"), state.Subscriptions(), queue)
	list.Push("x")
	list.Push("y")
	state.Set(KeyPath("names"), list)

	_, nodes, engine := compileAndExpand(t, "for n in names\n  text {{n}}\n", state)
	loop := nodes[0]
	require.Len(t, loop.Instances, 2)

	list.Push("z")
	ctx := Context{State: state}
	for _, e := range queue.Drain() {
		require.NoError(t, engine.Update(ctx, nodes, e))
	}
	require.Len(t, loop.Instances, 3)
	assert.Equal(t, "z", loop.Instances[2][0].Widget.(*stubWidget).text)

	list.RemoveAt(0)
	for _, e := range queue.Drain() {
		require.NoError(t, engine.Update(ctx, nodes, e))
	}
	require.Len(t, loop.Instances, 2)
}

// TestLoopFullRewalkOnReplacedCollection exercises the ChangeModified path:
// replacing the entire backing value (rather than mutating the existing
// DynamicList in place) drives updateLoop's full re-walk via
// WidgetNode.reset and repeated Engine.Next calls rather than a single
// indexed splice.
func TestLoopFullRewalkOnReplacedCollection(t *testing.T) {
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	state.Set(KeyPath("names"), []any{"a", "b"})

	_, nodes, engine := compileAndExpand(t, "for n in names\n  text {{n}}\n", state)
	loop := nodes[0]
	require.Len(t, loop.Instances, 2)
	require.Equal(t, loopIdle, loop.loopState.phase, "a fresh expansion always leaves the loop idle")

	state.Set(KeyPath("names"), []any{"x", "y", "z"})
	ctx := Context{State: state}
	entries := queue.Drain()
	require.NotEmpty(t, entries)
	for _, e := range entries {
		require.NoError(t, engine.Update(ctx, nodes, e))
	}

	require.Len(t, loop.Instances, 3)
	assert.Equal(t, "x", loop.Instances[0][0].Widget.(*stubWidget).text)
	assert.Equal(t, "z", loop.Instances[2][0].Widget.(*stubWidget).text)
	assert.Equal(t, loopIdle, loop.loopState.phase, "Next drives the loop back to idle once every index is produced")
}

// TestEngineNextStepsOneIndexAtATime exercises Engine.Next directly,
// confirming it advances exactly one element per call and reports
// loopRunning until the collection is exhausted.
func TestEngineNextStepsOneIndexAtATime(t *testing.T) {
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	_, nodes, engine := compileAndExpand(t, "for n in names\n  text {{n}}\n", state)
	loop := nodes[0]

	coll := newStaticCollection([]ValueReference{RefFromString("p"), RefFromString("q")})
	loop.reset(coll)
	require.Equal(t, loopRunning, loop.loopState.phase)

	ctx := Context{State: state}
	more, err := engine.Next(ctx, loop)
	require.NoError(t, err)
	assert.True(t, more, "one element remains after producing the first of two")
	require.Len(t, loop.Instances, 1)
	assert.Equal(t, "p", loop.Instances[0][0].Widget.(*stubWidget).text)

	more, err = engine.Next(ctx, loop)
	require.NoError(t, err)
	assert.False(t, more, "the second call exhausts a two-element collection")
	require.Len(t, loop.Instances, 2)
	assert.Equal(t, "q", loop.Instances[1][0].Widget.(*stubWidget).text)
	assert.Equal(t, loopIdle, loop.loopState.phase)
}

// TestUpdateControlFlowRevokesOldArmOnSwitch exercises Engine.TakeRemoved
// directly: switching the active arm must report the old arm's subtree
// as removed so a caller can release its subscriptions.
func TestUpdateControlFlowRevokesOldArmOnSwitch(t *testing.T) {
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	state.Set(KeyPath("x"), true)

	_, nodes, engine := compileAndExpand(t, "if x\n  a\nelse\n  b\n", state)
	cf := nodes[0]
	oldArm := cf.ArmBodies
	require.Len(t, oldArm, 1)

	state.Set(KeyPath("x"), false)
	ctx := Context{State: state}
	for _, e := range queue.Drain() {
		require.NoError(t, engine.Update(ctx, nodes, e))
	}

	removed := engine.TakeRemoved()
	require.Len(t, removed, 1)
	assert.True(t, removed[0].Equal(oldArm[0].ID))
}

// TestUpdateLoopRevokesRemovedInstance exercises Engine.TakeRemoved for
// a loop's ChangeRemove path.
func TestUpdateLoopRevokesRemovedInstance(t *testing.T) {
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	list := NewDynamicList(KeyPath("names"), state.Subscriptions(), queue)
	list.Push("x")
	list.Push("y")
	state.Set(KeyPath("names"), list)

	_, nodes, engine := compileAndExpand(t, "for n in names\n  text {{n}}\n", state)
	loop := nodes[0]
	removedInstance := loop.Instances[0]

	list.RemoveAt(0)
	ctx := Context{State: state}
	for _, e := range queue.Drain() {
		require.NoError(t, engine.Update(ctx, nodes, e))
	}

	removed := engine.TakeRemoved()
	require.Len(t, removed, 1)
	assert.True(t, removed[0].Equal(removedInstance[0].ID))
}

// TestEngineNextOnNonLoopNodeErrors guards the node-kind precondition.
func TestEngineNextOnNonLoopNodeErrors(t *testing.T) {
	queue := NewDirtyQueue()
	state := NewMapState(queue)
	_, nodes, engine := compileAndExpand(t, "text \"hi\"\n", state)
	single := nodes[0]
	require.Equal(t, WNSingle, single.Kind)

	_, err := engine.Next(Context{State: state}, single)
	require.Error(t, err)
}
