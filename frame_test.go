package lattice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeStartAndTickRendersFrame(t *testing.T) {
	prog, err := Compile("text {{greeting}}\n")
	require.NoError(t, err)

	queue := NewDirtyQueue()
	state := NewMapState(queue)
	state.Set(KeyPath("greeting"), "hi")

	rt := NewRuntime(prog, newStubFactory(), state, queue)
	require.NoError(t, rt.Start())
	rt.Resize(Size{W: 10, H: 1})

	out, _, err := rt.Tick()
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestRuntimeTickAppliesDirtyQueueBeforeRender(t *testing.T) {
	prog, err := Compile("text {{count}}\n")
	require.NoError(t, err)

	queue := NewDirtyQueue()
	state := NewMapState(queue)
	state.Set(KeyPath("count"), int64(1))

	rt := NewRuntime(prog, newStubFactory(), state, queue)
	require.NoError(t, rt.Start())
	rt.Resize(Size{W: 10, H: 1})

	out, _, err := rt.Tick()
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	state.Set(KeyPath("count"), int64(2))
	out, _, err = rt.Tick()
	require.NoError(t, err)
	assert.Equal(t, "2", out, "a Set between ticks must be reflected by the next Tick")
}

func TestRuntimeTickCollectsMetricsWhenEnabled(t *testing.T) {
	prog, err := Compile("text \"static\"\n")
	require.NoError(t, err)

	queue := NewDirtyQueue()
	state := NewMapState(queue)

	rt := NewRuntime(prog, newStubFactory(), state, queue, WithMetrics(true))
	require.NoError(t, rt.Start())
	rt.Resize(Size{W: 10, H: 1})

	_, meta, err := rt.Tick()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, meta.Layout, time.Duration(0))
}

// TestRuntimeRevokesSubscriptionsOnArmSwitch is spec.md's S1: once an
// arm is no longer active, its old subtree's subscriptions must be
// released rather than accumulate across frames.
func TestRuntimeRevokesSubscriptionsOnArmSwitch(t *testing.T) {
	prog, err := Compile("if x\n  text {{a}}\nelse\n  text {{b}}\n")
	require.NoError(t, err)

	queue := NewDirtyQueue()
	state := NewMapState(queue)
	state.Set(KeyPath("x"), true)
	state.Set(KeyPath("a"), "A")
	state.Set(KeyPath("b"), "B")

	rt := NewRuntime(prog, newStubFactory(), state, queue)
	require.NoError(t, rt.Start())
	rt.Resize(Size{W: 10, H: 1})

	out, _, err := rt.Tick()
	require.NoError(t, err)
	assert.Equal(t, "A", out)

	state.Set(KeyPath("x"), false)
	out, _, err = rt.Tick()
	require.NoError(t, err)
	assert.Equal(t, "B", out)

	state.Set(KeyPath("a"), "changed")
	assert.Empty(t, queue.Drain(), "the original arm's subscription to a must have been released when it was swapped out")
}

func TestRuntimeTickOmitsMetricsByDefault(t *testing.T) {
	prog, err := Compile("text \"static\"\n")
	require.NoError(t, err)

	queue := NewDirtyQueue()
	state := NewMapState(queue)

	rt := NewRuntime(prog, newStubFactory(), state, queue)
	require.NoError(t, rt.Start())
	rt.Resize(Size{W: 10, H: 1})

	_, meta, err := rt.Tick()
	require.NoError(t, err)
	assert.Equal(t, FrameMeta{}, meta, "Config.Metrics defaults to false: every duration stays zero")
}
