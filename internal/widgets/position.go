package widgets

import "github.com/latticetui/lattice"

// Position offsets a single child by the `offset-x` and `offset-y`
// integer attributes (each 0 when absent; a combined `offset` attribute
// is not read) from wherever its parent would otherwise have placed it,
// implementing
// spec.md §6's `position` container.
type Position struct {
	attrs  BoxAttrs
	offset lattice.Point
	child  lattice.Widget
	size   lattice.Size
}

func newPosition(attrs map[string]lattice.ValueReference, _ *string, _ lattice.NodeID, _ lattice.Context) (lattice.Widget, error) {
	b, err := parseBoxAttrs("position", attrs)
	if err != nil {
		return nil, err
	}
	p := &Position{attrs: b}
	p.offset.X = attrFallbackInt(attrs, "offset-x")
	p.offset.Y = attrFallbackInt(attrs, "offset-y")
	return p, nil
}

func attrFallbackInt(attrs map[string]lattice.ValueReference, key string) int {
	v, ok := attrs[key]
	if !ok || v.Kind != lattice.RefScalar {
		return 0
	}
	return int(v.Scalar.AsFloat())
}

func (w *Position) Kind() string { return "position" }

func (w *Position) SetChildren(children []lattice.Widget) {
	if len(children) > 0 {
		w.child = children[0]
	}
}

func (w *Position) Layout(avail lattice.Size) lattice.Size {
	if w.child != nil {
		w.size = w.child.Layout(avail)
	}
	return w.size
}

func (w *Position) Position(origin lattice.Point) {
	if w.child != nil {
		w.child.Position(lattice.Point{X: origin.X + w.offset.X, Y: origin.Y + w.offset.Y})
	}
}

func (w *Position) Paint() []string {
	if w.attrs.Display == "hide" || w.attrs.Display == "exclude" {
		return nil
	}
	if w.child != nil {
		return w.child.Paint()
	}
	return nil
}
