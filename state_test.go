package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirtyQueuePushDrainFIFO(t *testing.T) {
	q := NewDirtyQueue()
	assert.Empty(t, q.Drain(), "draining an empty queue returns nothing")

	n0 := Root().Child(0)
	n1 := Root().Child(1)
	q.Push(n0, Change{Kind: ChangeModified})
	q.Push(n1, Change{Kind: ChangePush, I: 3})

	entries := q.Drain()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Node.Equal(n0))
	assert.True(t, entries[1].Node.Equal(n1))
	assert.Equal(t, ChangePush, entries[1].Change.Kind)
	assert.Equal(t, 3, entries[1].Change.I)

	assert.Empty(t, q.Drain(), "drain must clear the queue")
}

func TestSubscriptionRegistryRecordIsIdempotent(t *testing.T) {
	r := NewSubscriptionRegistry()
	node := Root().Child(2)
	path := KeyPath("count")

	r.Record(node, path)
	r.Record(node, path)
	assert.Equal(t, 1, r.Len(), "recording the same (node, path) twice must not duplicate")
}

func TestSubscriptionRegistryNotifyPathFiltersByPath(t *testing.T) {
	r := NewSubscriptionRegistry()
	queue := NewDirtyQueue()

	watcher := Root().Child(0)
	other := Root().Child(1)
	r.Record(watcher, KeyPath("count"))
	r.Record(other, KeyPath("name"))

	r.NotifyPath(KeyPath("count"), Change{Kind: ChangeModified}, queue)

	entries := queue.Drain()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Node.Equal(watcher))
}

func TestSubscriptionRegistryRevokeDropsByPrefix(t *testing.T) {
	r := NewSubscriptionRegistry()
	parent := Root().Child(0)
	child := parent.Child(1)
	unrelated := Root().Child(2)

	r.Record(parent, KeyPath("a"))
	r.Record(child, KeyPath("b"))
	r.Record(unrelated, KeyPath("c"))
	require.Equal(t, 3, r.Len())

	r.Revoke(parent)

	assert.Equal(t, 1, r.Len(), "revoking a node drops it and every descendant's subscriptions")
}
