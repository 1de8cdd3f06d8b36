package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/latticetui/lattice"
)

// Border wraps a single child in a lipgloss border, thin mapping to
// lipgloss.NormalBorder and thick to lipgloss.ThickBorder.
type Border struct {
	attrs BoxAttrs
	theme *lattice.Theme
	child lattice.Widget
	size  lattice.Size
}

func newBorder(attrs map[string]lattice.ValueReference, _ *string, _ lattice.NodeID, ctx lattice.Context) (lattice.Widget, error) {
	b, err := parseBoxAttrs("border", attrs)
	if err != nil {
		return nil, err
	}
	return &Border{attrs: b, theme: themeOf(ctx)}, nil
}

func (w *Border) Kind() string { return "border" }

func (w *Border) SetChildren(children []lattice.Widget) {
	if len(children) > 0 {
		w.child = children[0]
	}
}

func (w *Border) style() lipgloss.Style {
	s := w.attrs.baseStyle(w.theme)
	if w.attrs.BorderStyle == "thick" {
		s = s.Border(lipgloss.ThickBorder())
	} else {
		s = s.Border(lipgloss.NormalBorder())
	}
	if w.attrs.Foreground != "" {
		s = s.BorderForeground(w.theme.Resolve(w.attrs.Foreground))
	}
	return s
}

func (w *Border) Layout(avail lattice.Size) lattice.Size {
	inner := lattice.Size{W: avail.W - 2, H: avail.H - 2}
	var cs lattice.Size
	if w.child != nil {
		cs = w.child.Layout(inner)
	}
	w.size = lattice.Size{
		W: clampSize(orDefault(w.attrs.Width, cs.W+2), w.attrs.MinWidth, w.attrs.MaxWidth),
		H: clampSize(orDefault(w.attrs.Height, cs.H+2), w.attrs.MinHeight, w.attrs.MaxHeight),
	}
	return w.size
}

func (w *Border) Position(origin lattice.Point) {
	if w.child != nil {
		w.child.Position(lattice.Point{X: origin.X + 1, Y: origin.Y + 1})
	}
}

func (w *Border) Paint() []string {
	if w.attrs.Display == "hide" || w.attrs.Display == "exclude" {
		return nil
	}
	var content string
	if w.child != nil {
		content = joinLines(w.child.Paint())
	}
	return paintLines(w.style(), content)
}
