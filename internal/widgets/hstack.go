package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/latticetui/lattice"
)

// HStack lays its children left to right, each keeping its own natural
// height, joined with lipgloss.JoinHorizontal.
type HStack struct {
	attrs    BoxAttrs
	theme    *lattice.Theme
	children []lattice.Widget
	sizes    []lattice.Size
	size     lattice.Size
}

func newHStack(attrs map[string]lattice.ValueReference, _ *string, _ lattice.NodeID, ctx lattice.Context) (lattice.Widget, error) {
	b, err := parseBoxAttrs("hstack", attrs)
	if err != nil {
		return nil, err
	}
	return &HStack{attrs: b, theme: themeOf(ctx)}, nil
}

func (w *HStack) Kind() string { return "hstack" }

func (w *HStack) SetChildren(children []lattice.Widget) { w.children = children }

func (w *HStack) Layout(avail lattice.Size) lattice.Size {
	remaining := avail
	maxH := 0
	totalW := 0
	w.sizes = make([]lattice.Size, len(w.children))
	for i, c := range w.children {
		s := c.Layout(remaining)
		w.sizes[i] = s
		totalW += s.W
		if s.H > maxH {
			maxH = s.H
		}
		remaining.W -= s.W
		if remaining.W < 0 {
			remaining.W = 0
		}
	}
	w.size = lattice.Size{
		W: clampSize(orDefault(w.attrs.Width, totalW), w.attrs.MinWidth, w.attrs.MaxWidth),
		H: clampSize(orDefault(w.attrs.Height, maxH), w.attrs.MinHeight, w.attrs.MaxHeight),
	}
	return w.size
}

func (w *HStack) Position(origin lattice.Point) {
	x := origin.X
	for i, c := range w.children {
		c.Position(lattice.Point{X: x, Y: origin.Y})
		if i < len(w.sizes) {
			x += w.sizes[i].W
		}
	}
}

func (w *HStack) Paint() []string {
	if w.attrs.Display == "hide" || w.attrs.Display == "exclude" {
		return nil
	}
	blocks := make([]string, 0, len(w.children))
	for _, c := range w.children {
		blocks = append(blocks, joinLines(c.Paint()))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
	return paintLines(w.attrs.baseStyle(w.theme), content)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func themeOf(ctx lattice.Context) *lattice.Theme {
	if ctx.Theme != nil {
		return ctx.Theme
	}
	return lattice.DefaultTheme()
}
