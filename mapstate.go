package lattice

import "sync"

// MapState is a reference State implementation: an in-memory tree of Go
// native values (bool, int64, uint64, float64, string, []any, map[string]any,
// or *DynamicList) addressed by Path. It is the State used by the package's
// own tests and the demo application, grounded on the teacher's
// internal/session map-backed, mutex-guarded store.
//
// Subscription drains never fail: Set never returns an error and always
// notifies subscribers, regardless of whether any node was actually
// watching the path.
type MapState struct {
	mu   sync.RWMutex
	root map[string]any

	subs  *SubscriptionRegistry
	queue *DirtyQueue
}

// NewMapState creates an empty MapState wired to queue for dirty
// propagation.
func NewMapState(queue *DirtyQueue) *MapState {
	return &MapState{
		root:  make(map[string]any),
		subs:  NewSubscriptionRegistry(),
		queue: queue,
	}
}

// Subscriptions exposes the registry so a Frame driver can revoke
// subscriptions for removed nodes.
func (m *MapState) Subscriptions() *SubscriptionRegistry { return m.subs }

// Revoke implements Revoker, releasing every subscription recorded under
// node or one of its descendants.
func (m *MapState) Revoke(node NodeID) {
	m.subs.Revoke(node)
}

// Get implements State: resolves path against the tree, recording a
// subscription for node (if non-nil) against the exact path requested.
func (m *MapState) Get(path Path, node *NodeID) (ValueReference, bool) {
	m.mu.RLock()
	v, ok := m.resolve(path)
	m.mu.RUnlock()
	if node != nil {
		m.subs.Record(*node, path)
	}
	return v, ok
}

// Set replaces the value at path and notifies every subscriber with a
// Modified change. It stores only at a single key (`a`) or a two-key
// path (`a.b`), creating the map at `a` when absent; for any other path
// shape (three or more keys, or an index step) nothing is stored, though
// subscribers are still notified.
func (m *MapState) Set(path Path, value any) {
	m.mu.Lock()
	m.setAt(path, value)
	m.mu.Unlock()
	m.subs.NotifyPath(path, Change{Kind: ChangeModified}, m.queue)
}

func (m *MapState) resolve(path Path) (ValueReference, bool) {
	v, ok := resolveIn(any(m.root), path)
	if !ok {
		return ValueReference{}, false
	}
	return toValueReference(v)
}

func resolveIn(v any, path Path) (any, bool) {
	switch path.Kind {
	case PathKey:
		mp, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		child, ok := mp[path.Key]
		return child, ok
	case PathIndex:
		switch coll := v.(type) {
		case []any:
			if int(path.Idx) >= len(coll) {
				return nil, false
			}
			return coll[path.Idx], true
		case *DynamicList:
			return coll.at(int(path.Idx))
		default:
			return nil, false
		}
	case PathComposite:
		base, ok := resolveIn(v, *path.Base)
		if !ok {
			return nil, false
		}
		return resolveIn(base, *path.Next)
	default:
		return nil, false
	}
}

func toValueReference(v any) (ValueReference, bool) {
	switch x := v.(type) {
	case bool:
		return RefFromOwned(OwnedFromBool(x)), true
	case int:
		return RefFromOwned(OwnedFromInt(int64(x))), true
	case int64:
		return RefFromOwned(OwnedFromInt(x)), true
	case uint64:
		return RefFromOwned(OwnedFromUint(x)), true
	case float64:
		return RefFromOwned(OwnedFromFloat(x)), true
	case string:
		return RefFromString(x), true
	case [3]uint8:
		return RefFromOwned(OwnedFromColor(x)), true
	case *DynamicList:
		return RefFromCollection(x), true
	case Collection:
		return RefFromCollection(x), true
	case []any:
		items := make([]ValueReference, len(x))
		for i, elem := range x {
			v, ok := toValueReference(elem)
			if !ok {
				v = ValueReference{}
			}
			items[i] = v
		}
		return RefFromCollection(newStaticCollection(items)), true
	default:
		return ValueReference{}, false
	}
}

func (m *MapState) setAt(path Path, value any) {
	switch path.Kind {
	case PathKey:
		m.root[path.Key] = value
	case PathComposite:
		if path.Base.Kind == PathKey {
			container, ok := m.root[path.Base.Key].(map[string]any)
			if !ok {
				container = make(map[string]any)
				m.root[path.Base.Key] = container
			}
			setNested(container, *path.Next, value)
		}
	}
}

func setNested(container map[string]any, path Path, value any) {
	switch path.Kind {
	case PathKey:
		container[path.Key] = value
	case PathComposite:
		if path.Base.Kind == PathKey {
			next, ok := container[path.Base.Key].(map[string]any)
			if !ok {
				next = make(map[string]any)
				container[path.Base.Key] = next
			}
			setNested(next, *path.Next, value)
		}
	}
}

// DynamicList is a mutable Collection backed by a slice, whose mutating
// methods (Push, RemoveAt, Swap, Clear) notify subscribers of the
// matching Change kind from spec.md §4.7's Collection capability.
type DynamicList struct {
	mu    sync.RWMutex
	items []any
	path  Path
	subs  *SubscriptionRegistry
	queue *DirtyQueue
}

// NewDynamicList creates a DynamicList that will notify subscribers of
// path through subs/queue.
func NewDynamicList(path Path, subs *SubscriptionRegistry, queue *DirtyQueue) *DynamicList {
	return &DynamicList{path: path, subs: subs, queue: queue}
}

func (d *DynamicList) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.items)
}

func (d *DynamicList) Get(i int) (ValueReference, bool) {
	v, ok := d.at(i)
	if !ok {
		return ValueReference{}, false
	}
	return toValueReference(v)
}

func (d *DynamicList) at(i int) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.items) {
		return nil, false
	}
	return d.items[i], true
}

func (d *DynamicList) Subscribe(node NodeID) {
	d.subs.Record(node, d.path)
}

func (d *DynamicList) notify(c Change) {
	d.subs.NotifyPath(d.path, c, d.queue)
}

func (d *DynamicList) Push(v any) {
	d.mu.Lock()
	d.items = append(d.items, v)
	n := len(d.items) - 1
	d.mu.Unlock()
	d.notify(Change{Kind: ChangePush, I: n})
}

func (d *DynamicList) Insert(i int, v any) {
	d.mu.Lock()
	d.items = append(d.items, nil)
	copy(d.items[i+1:], d.items[i:])
	d.items[i] = v
	d.mu.Unlock()
	d.notify(Change{Kind: ChangeInsert, I: i})
}

func (d *DynamicList) RemoveAt(i int) {
	d.mu.Lock()
	copy(d.items[i:], d.items[i+1:])
	d.items = d.items[:len(d.items)-1]
	d.mu.Unlock()
	d.notify(Change{Kind: ChangeRemove, I: i})
}

func (d *DynamicList) Swap(i, j int) {
	d.mu.Lock()
	d.items[i], d.items[j] = d.items[j], d.items[i]
	d.mu.Unlock()
	d.notify(Change{Kind: ChangeSwap, I: i, J: j})
}

func (d *DynamicList) Clear() {
	d.mu.Lock()
	d.items = nil
	d.mu.Unlock()
	d.notify(Change{Kind: ChangeClear})
}
