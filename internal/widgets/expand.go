package widgets

import "github.com/latticetui/lattice"

// Expand claims the whole size its parent offers and lays out its single
// child against that same size. The `factor` attribute (spec.md §6) is
// parsed and stored but does not affect layout: space is not divided
// between sibling Expand widgets by factor.
type Expand struct {
	attrs  BoxAttrs
	factor float64
	child  lattice.Widget
	size   lattice.Size
}

func newExpand(attrs map[string]lattice.ValueReference, _ *string, _ lattice.NodeID, ctx lattice.Context) (lattice.Widget, error) {
	factor := 1.0
	if v, ok := attrs["factor"]; ok && v.Kind == lattice.RefScalar {
		factor = v.Scalar.AsFloat()
	}
	b, err := parseBoxAttrs("expand", attrs)
	if err != nil {
		return nil, err
	}
	return &Expand{attrs: b, factor: factor}, nil
}

func (w *Expand) Kind() string { return "expand" }

func (w *Expand) SetChildren(children []lattice.Widget) {
	if len(children) > 0 {
		w.child = children[0]
	}
}

func (w *Expand) Layout(avail lattice.Size) lattice.Size {
	w.size = avail
	if w.child != nil {
		w.child.Layout(avail)
	}
	return w.size
}

func (w *Expand) Position(origin lattice.Point) {
	if w.child != nil {
		w.child.Position(origin)
	}
}

func (w *Expand) Paint() []string {
	if w.attrs.Display == "hide" || w.attrs.Display == "exclude" {
		return nil
	}
	if w.child != nil {
		return w.child.Paint()
	}
	return nil
}
