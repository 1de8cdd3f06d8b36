package lattice

import "sync"

// State is the only externally implemented interface the runtime requires
// at evaluation time. Get must record a subscription when node is
// non-nil, so that a later mutation on path pushes a (NodeID, Change)
// pair into the DirtyQueue the subscription was recorded against.
type State interface {
	Get(path Path, node *NodeID) (ValueReference, bool)
}

// Revoker is implemented by State implementations that track per-node
// subscriptions. A Runtime calls Revoke for every NodeID whose subtree
// left the live tree (an arm switch, a loop removal/clear/rewalk) so
// stale subscriptions don't accumulate across frames.
type Revoker interface {
	Revoke(node NodeID)
}

// DirtyEntry is one pending re-evaluation pushed by a State mutation.
type DirtyEntry struct {
	Node   NodeID
	Change Change
}

// DirtyQueue accumulates (NodeID, Change) pairs produced by State
// mutations between frames. spec.md describes "one dirty queue per
// thread"; since the runtime's scheduling model (§5) is single-threaded
// and cooperative with exactly one driver goroutine, a DirtyQueue here is
// scoped to a single Runtime rather than to an OS thread — the same
// guarantee the spec wants (no concurrent writers) without Go's lack of
// real thread-local storage.
type DirtyQueue struct {
	mu      sync.Mutex
	entries []DirtyEntry
}

// NewDirtyQueue creates an empty queue.
func NewDirtyQueue() *DirtyQueue {
	return &DirtyQueue{}
}

// Push enqueues a dirty entry. Safe to call from any goroutine a State
// implementation chooses to mutate from, though the reactive model only
// promises ordering for entries pushed from the driver goroutine itself.
func (q *DirtyQueue) Push(node NodeID, change Change) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, DirtyEntry{Node: node, Change: change})
}

// Drain removes and returns all pending entries in insertion order.
func (q *DirtyQueue) Drain() []DirtyEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return nil
	}
	out := q.entries
	q.entries = nil
	return out
}

// subscription is one (NodeID, Path) registration recorded by a Get call.
type subscription struct {
	node NodeID
	path Path
}

// SubscriptionRegistry is a reference helper State implementations can
// embed to get correct subscribe/revoke bookkeeping for free, grounded on
// the teacher's connection-registry pattern (dual-indexed, mutex-guarded,
// idempotent Register/Unregister).
type SubscriptionRegistry struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewSubscriptionRegistry creates an empty registry.
func NewSubscriptionRegistry() *SubscriptionRegistry {
	return &SubscriptionRegistry{}
}

// Record registers node as interested in path. Idempotent: recording the
// same (node, path) pair twice is a no-op.
func (r *SubscriptionRegistry) Record(node NodeID, path Path) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.node.Equal(node) && s.path.Equal(path) {
			return
		}
	}
	r.subs = append(r.subs, subscription{node: node, path: path})
}

// Revoke drops every subscription whose NodeID has removed as a prefix.
// Called before the next frame begins for every node pushed onto a
// removed-nodes queue, per spec.md §9.
func (r *SubscriptionRegistry) Revoke(removed NodeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.subs[:0]
	for _, s := range r.subs {
		if !removed.Contains(s.node) {
			kept = append(kept, s)
		}
	}
	r.subs = kept
}

// NotifyPath pushes change onto queue for every node subscribed to path.
func (r *SubscriptionRegistry) NotifyPath(path Path, change Change, queue *DirtyQueue) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.subs {
		if s.path.Equal(path) {
			queue.Push(s.node, change)
		}
	}
}

// Len reports the number of live subscriptions (test/debugging aid).
func (r *SubscriptionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
