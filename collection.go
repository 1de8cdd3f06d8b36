package lattice

// ChangeKind enumerates the per-element mutations a dynamic Collection can
// report to a subscriber.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota
	ChangeInsert
	ChangeRemove
	ChangeSwap
	ChangePush
	ChangeClear
)

// Change is one (kind, indices) event pushed into the dirty queue for a
// NodeID subscribed to a Collection's path.
type Change struct {
	Kind ChangeKind
	I    int // Push, Insert, Remove, Swap
	J    int // Swap
}

// Collection is implemented by any dynamic list or map the State exposes.
// Len and Get must be safe to call at any time; Subscribe registers node
// to receive future Change events for this collection's backing path.
type Collection interface {
	Len() int
	Get(i int) (ValueReference, bool)
	Subscribe(node NodeID)
}

// RefKind tags the variant of a ValueReference.
type RefKind int

const (
	RefScalar RefKind = iota
	RefStaticList
	RefCollection
	RefStringSlice
)

// ValueReference is a borrowed view into a scalar, a static list of
// expressions, a dynamic Collection, or a string slice. It carries no
// ownership; its lifetime is bounded by the State or expression it came
// from.
type ValueReference struct {
	Kind       RefKind
	Scalar     Owned
	StaticList []ValueID
	Collection Collection
	StringVal  string
}

func RefFromOwned(o Owned) ValueReference {
	return ValueReference{Kind: RefScalar, Scalar: o}
}

func RefFromStaticList(items []ValueID) ValueReference {
	return ValueReference{Kind: RefStaticList, StaticList: items}
}

func RefFromCollection(c Collection) ValueReference {
	return ValueReference{Kind: RefCollection, Collection: c}
}

func RefFromString(s string) ValueReference {
	return ValueReference{Kind: RefStringSlice, StringVal: s}
}

// IsTrue applies scalar truthiness: a non-empty string, the literal
// `true`, or a non-zero number is truthy; everything else is falsy. Lists
// and collections are truthy when non-empty.
func (v ValueReference) IsTrue() bool {
	switch v.Kind {
	case RefScalar:
		switch v.Scalar.Kind {
		case OwnedBool:
			return v.Scalar.Bool
		case OwnedInt:
			return v.Scalar.Int != 0
		case OwnedUint:
			return v.Scalar.Uint != 0
		case OwnedFloat:
			return v.Scalar.Float != 0
		case OwnedColor:
			return v.Scalar.Color != [3]uint8{}
		}
		return false
	case RefStringSlice:
		return v.StringVal != ""
	case RefStaticList:
		return len(v.StaticList) > 0
	case RefCollection:
		return v.Collection != nil && v.Collection.Len() > 0
	default:
		return false
	}
}

// Equal is defined only between references of the same shape; comparing
// across shapes always returns false. Collection equality is element-wise
// and only defined when both operands expose the Collection capability
// (spec.md §9's open question, decided in DESIGN.md).
func (v ValueReference) Equal(o ValueReference) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case RefScalar:
		return ownedEqual(v.Scalar, o.Scalar)
	case RefStringSlice:
		return v.StringVal == o.StringVal
	case RefStaticList:
		if len(v.StaticList) != len(o.StaticList) {
			return false
		}
		for i := range v.StaticList {
			if v.StaticList[i] != o.StaticList[i] {
				return false
			}
		}
		return true
	case RefCollection:
		if v.Collection == nil || o.Collection == nil {
			return v.Collection == o.Collection
		}
		if v.Collection.Len() != o.Collection.Len() {
			return false
		}
		for i := 0; i < v.Collection.Len(); i++ {
			a, _ := v.Collection.Get(i)
			b, _ := o.Collection.Get(i)
			if !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func ownedEqual(a, b Owned) bool {
	if a.Kind != b.Kind {
		// mixed-kind numeric comparison promotes to float
		if isNumeric(a.Kind) && isNumeric(b.Kind) {
			return a.AsFloat() == b.AsFloat()
		}
		return false
	}
	switch a.Kind {
	case OwnedBool:
		return a.Bool == b.Bool
	case OwnedInt:
		return a.Int == b.Int
	case OwnedUint:
		return a.Uint == b.Uint
	case OwnedFloat:
		return a.Float == b.Float
	case OwnedColor:
		return a.Color == b.Color
	default:
		return false
	}
}

func isNumeric(k OwnedKind) bool {
	return k == OwnedInt || k == OwnedUint || k == OwnedFloat
}

// staticCollection adapts a static list of ValueExpressions (already
// resolved to scalars) into the Collection capability. It never changes,
// so Subscribe is a no-op.
type staticCollection struct {
	items []ValueReference
}

func newStaticCollection(items []ValueReference) *staticCollection {
	return &staticCollection{items: items}
}

func (c *staticCollection) Len() int { return len(c.items) }

func (c *staticCollection) Get(i int) (ValueReference, bool) {
	if i < 0 || i >= len(c.items) {
		return ValueReference{}, false
	}
	return c.items[i], true
}

func (c *staticCollection) Subscribe(NodeID) {}
