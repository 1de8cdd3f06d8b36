package lattice

// StringID, TextID, and ValueID are opaque stable indices into a Pool.
// Ids are never reused within a single compile. Interning an equal string
// or text path returns the existing id; every InternValue call returns a
// new ValueID, even for an expression equal to one already interned.
type StringID int
type TextID int
type ValueID int

// TextFragment is one piece of a TextPath: either a literal string or a
// dynamic expression to resolve against the current Context.
type TextFragment struct {
	Literal bool
	String  StringID // meaningful when Literal
	Expr    ValueID  // meaningful when !Literal
}

// TextPath is an interned sequence of fragments; expansion concatenates
// the literal fragments with resolved dynamic fragments.
type TextPath []TextFragment

// Pool interns strings, text-paths, and value expressions for the
// lifetime of a single compile. It is append-only: nothing is ever
// removed or mutated in place after insertion.
type Pool struct {
	strings    []string
	stringIdx  map[string]StringID
	texts      []TextPath
	textIdx    map[string]TextID
	values     []ValueExpression
}

// NewPool creates an empty constant pool.
func NewPool() *Pool {
	return &Pool{
		stringIdx: make(map[string]StringID),
		textIdx:   make(map[string]TextID),
	}
}

// InternString interns s, returning its stable id. Calling InternString
// with an equal string returns the same id as a prior call.
func (p *Pool) InternString(s string) StringID {
	if id, ok := p.stringIdx[s]; ok {
		return id
	}
	id := StringID(len(p.strings))
	p.strings = append(p.strings, s)
	p.stringIdx[s] = id
	return id
}

// LookupString is O(1).
func (p *Pool) LookupString(id StringID) string {
	return p.strings[id]
}

// InternValue interns a ValueExpression. Expressions are interned by
// position, not by structural equality: two syntactically identical
// expressions written twice in source are distinct values, since each
// carries an independent evaluation site.
func (p *Pool) InternValue(v ValueExpression) ValueID {
	id := ValueID(len(p.values))
	p.values = append(p.values, v)
	return id
}

// LookupValue is O(1).
func (p *Pool) LookupValue(id ValueID) ValueExpression {
	return p.values[id]
}

// InternText interns a TextPath by structural equality against a cheap
// canonical key, returning the existing id for an equal path.
func (p *Pool) InternText(t TextPath) TextID {
	key := textKey(t)
	if id, ok := p.textIdx[key]; ok {
		return id
	}
	id := TextID(len(p.texts))
	p.texts = append(p.texts, t)
	p.textIdx[key] = id
	return id
}

// LookupText is O(1).
func (p *Pool) LookupText(id TextID) TextPath {
	return p.texts[id]
}

func textKey(t TextPath) string {
	b := make([]byte, 0, len(t)*4)
	for _, frag := range t {
		if frag.Literal {
			b = append(b, 'L')
			b = appendInt(b, int(frag.String))
		} else {
			b = append(b, 'E')
			b = appendInt(b, int(frag.Expr))
		}
		b = append(b, ',')
	}
	return string(b)
}

func appendInt(b []byte, n int) []byte {
	if n == 0 {
		return append(b, '0')
	}
	neg := n < 0
	if neg {
		n = -n
	}
	start := len(b)
	for n > 0 {
		b = append(b, byte('0'+n%10))
		n /= 10
	}
	if neg {
		b = append(b, '-')
	}
	// reverse in place
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}
