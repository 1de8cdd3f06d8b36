package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/latticetui/lattice"
)

// VStack lays its children top to bottom, each keeping its own natural
// width, joined with lipgloss.JoinVertical.
type VStack struct {
	attrs    BoxAttrs
	theme    *lattice.Theme
	children []lattice.Widget
	sizes    []lattice.Size
	size     lattice.Size
}

func newVStack(attrs map[string]lattice.ValueReference, _ *string, _ lattice.NodeID, ctx lattice.Context) (lattice.Widget, error) {
	b, err := parseBoxAttrs("vstack", attrs)
	if err != nil {
		return nil, err
	}
	return &VStack{attrs: b, theme: themeOf(ctx)}, nil
}

func (w *VStack) Kind() string { return "vstack" }

func (w *VStack) SetChildren(children []lattice.Widget) { w.children = children }

func (w *VStack) Layout(avail lattice.Size) lattice.Size {
	remaining := avail
	maxW := 0
	totalH := 0
	w.sizes = make([]lattice.Size, len(w.children))
	for i, c := range w.children {
		s := c.Layout(remaining)
		w.sizes[i] = s
		totalH += s.H
		if s.W > maxW {
			maxW = s.W
		}
		remaining.H -= s.H
		if remaining.H < 0 {
			remaining.H = 0
		}
	}
	w.size = lattice.Size{
		W: clampSize(orDefault(w.attrs.Width, maxW), w.attrs.MinWidth, w.attrs.MaxWidth),
		H: clampSize(orDefault(w.attrs.Height, totalH), w.attrs.MinHeight, w.attrs.MaxHeight),
	}
	return w.size
}

func (w *VStack) Position(origin lattice.Point) {
	y := origin.Y
	for i, c := range w.children {
		c.Position(lattice.Point{X: origin.X, Y: y})
		if i < len(w.sizes) {
			y += w.sizes[i].H
		}
	}
}

func (w *VStack) Paint() []string {
	if w.attrs.Display == "hide" || w.attrs.Display == "exclude" {
		return nil
	}
	blocks := make([]string, 0, len(w.children))
	for _, c := range w.children {
		blocks = append(blocks, joinLines(c.Paint()))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	return paintLines(w.attrs.baseStyle(w.theme), content)
}
