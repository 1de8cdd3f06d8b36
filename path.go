package lattice

// PathKind tags the variant of a Path.
type PathKind int

const (
	PathKey PathKind = iota
	PathIndex
	PathComposite
)

// Path identifies a location reachable from a Scope or State: a dotted
// key, a numeric index, or the composition of two paths built by walking
// an expression tree (`a.b[0]` becomes Composite(Composite(Key("a"),
// Key("b")), Index(0))). Equality (Equal) is structural.
type Path struct {
	Kind PathKind
	Key  string
	Idx  uint64
	Base *Path // PathComposite
	Next *Path // PathComposite
}

func KeyPath(name string) Path { return Path{Kind: PathKey, Key: name} }
func IndexPath(i uint64) Path  { return Path{Kind: PathIndex, Idx: i} }

// Compose appends step onto base, producing Composite(base, step).
func Compose(base Path, step Path) Path {
	b, s := base, step
	return Path{Kind: PathComposite, Base: &b, Next: &s}
}

// Equal reports structural equality.
func (p Path) Equal(o Path) bool {
	if p.Kind != o.Kind {
		return false
	}
	switch p.Kind {
	case PathKey:
		return p.Key == o.Key
	case PathIndex:
		return p.Idx == o.Idx
	case PathComposite:
		return p.Base.Equal(*o.Base) && p.Next.Equal(*o.Next)
	default:
		return false
	}
}

// HasPrefix reports whether p is equal to or nested under prefix,
// matching component-wise from the root of a Composite chain.
func (p Path) HasPrefix(prefix Path) bool {
	if p.Equal(prefix) {
		return true
	}
	if p.Kind == PathComposite {
		return p.Base.HasPrefix(prefix)
	}
	return false
}

// String renders a Path for diagnostics.
func (p Path) String() string {
	switch p.Kind {
	case PathKey:
		return p.Key
	case PathIndex:
		return indexString(p.Idx)
	case PathComposite:
		return p.Base.String() + "." + p.Next.String()
	default:
		return "<path>"
	}
}

func indexString(i uint64) string {
	if i == 0 {
		return "[0]"
	}
	var b []byte
	n := i
	for n > 0 {
		b = append(b, byte('0'+n%10))
		n /= 10
	}
	for l, r := 0, len(b)-1; l < r; l, r = l+1, r-1 {
		b[l], b[r] = b[r], b[l]
	}
	return "[" + string(b) + "]"
}

// ScopeValue is what a Scope frame binds a name to: a static interned
// string, a static list of ScopeValues, a reference into State that
// must be resolved recursively, an Owned scalar, or a Collection.
type ScopeValueKind int

const (
	ScopeStatic ScopeValueKind = iota
	ScopeList
	ScopeDyn
	ScopeOwned
	ScopeCollection
)

type ScopeValue struct {
	Kind   ScopeValueKind
	Static string
	List   []ScopeValue
	Dyn    Path
	Owned  Owned
	Coll   Collection
}

// Scope is a stack frame: a name→ScopeValue mapping plus a parent. Lookup
// walks frames to the root and never mutates a parent.
type Scope struct {
	parent *Scope
	names  map[string]ScopeValue
}

// NewScope creates a root scope with no parent.
func NewScope() *Scope {
	return &Scope{names: make(map[string]ScopeValue)}
}

// Child creates a new frame nested under s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, names: make(map[string]ScopeValue)}
}

// Bind introduces name into this frame only.
func (s *Scope) Bind(name string, v ScopeValue) {
	s.names[name] = v
}

// Lookup walks from this frame to the root, returning the first binding
// found. It never mutates any frame it visits.
func (s *Scope) Lookup(name string) (ScopeValue, bool) {
	for f := s; f != nil; f = f.parent {
		if v, ok := f.names[name]; ok {
			return v, true
		}
	}
	return ScopeValue{}, false
}

// Context pairs the root State with the Scope active at an evaluation
// site.
type Context struct {
	State State
	Scope *Scope
	Node  NodeID
	Theme *Theme
}
