package widgets

import (
	"strings"

	bviewport "github.com/charmbracelet/bubbles/viewport"
	"github.com/latticetui/lattice"
)

// Viewport wraps bubbles/viewport.Model to give the `viewport` widget
// kind real scrollable-content behavior: layout/paint delegate directly
// to the embedded Model, and `offset` seeds its initial scroll
// position.
type Viewport struct {
	attrs BoxAttrs
	model bviewport.Model
	child lattice.Widget
	size  lattice.Size
}

func newViewport(attrs map[string]lattice.ValueReference, _ *string, _ lattice.NodeID, _ lattice.Context) (lattice.Widget, error) {
	b, err := parseBoxAttrs("viewport", attrs)
	if err != nil {
		return nil, err
	}
	w, h := b.Width, b.Height
	if w <= 0 {
		w = 40
	}
	if h <= 0 {
		h = 10
	}
	m := bviewport.New(w, h)
	if off := attrFallbackInt(attrs, "offset"); off > 0 {
		m.YOffset = off
	}
	return &Viewport{attrs: b, model: m}, nil
}

func (w *Viewport) Kind() string { return "viewport" }

func (w *Viewport) SetChildren(children []lattice.Widget) {
	if len(children) > 0 {
		w.child = children[0]
	}
}

func (w *Viewport) Layout(avail lattice.Size) lattice.Size {
	ww := clampSize(orDefault(w.attrs.Width, avail.W), w.attrs.MinWidth, w.attrs.MaxWidth)
	hh := clampSize(orDefault(w.attrs.Height, avail.H), w.attrs.MinHeight, w.attrs.MaxHeight)
	if ww <= 0 {
		ww = w.model.Width
	}
	if hh <= 0 {
		hh = w.model.Height
	}
	w.model.Width = ww
	w.model.Height = hh
	if w.child != nil {
		w.child.Layout(lattice.Size{W: ww, H: 1 << 20})
		w.model.SetContent(strings.Join(w.child.Paint(), "\n"))
	}
	w.size = lattice.Size{W: ww, H: hh}
	return w.size
}

func (w *Viewport) Position(lattice.Point) {}

func (w *Viewport) Paint() []string {
	if w.attrs.Display == "hide" || w.attrs.Display == "exclude" {
		return nil
	}
	return strings.Split(w.model.View(), "\n")
}
