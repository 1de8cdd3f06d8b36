package widgets

import (
	"github.com/latticetui/lattice"
)

// ZStack overlays its children at a shared origin, the last child
// painted on top wherever its cells are non-blank.
type ZStack struct {
	attrs    BoxAttrs
	theme    *lattice.Theme
	children []lattice.Widget
	size     lattice.Size
}

func newZStack(attrs map[string]lattice.ValueReference, _ *string, _ lattice.NodeID, ctx lattice.Context) (lattice.Widget, error) {
	b, err := parseBoxAttrs("zstack", attrs)
	if err != nil {
		return nil, err
	}
	return &ZStack{attrs: b, theme: themeOf(ctx)}, nil
}

func (w *ZStack) Kind() string { return "zstack" }

func (w *ZStack) SetChildren(children []lattice.Widget) { w.children = children }

func (w *ZStack) Layout(avail lattice.Size) lattice.Size {
	maxW, maxH := 0, 0
	for _, c := range w.children {
		s := c.Layout(avail)
		if s.W > maxW {
			maxW = s.W
		}
		if s.H > maxH {
			maxH = s.H
		}
	}
	w.size = lattice.Size{
		W: clampSize(orDefault(w.attrs.Width, maxW), w.attrs.MinWidth, w.attrs.MaxWidth),
		H: clampSize(orDefault(w.attrs.Height, maxH), w.attrs.MinHeight, w.attrs.MaxHeight),
	}
	return w.size
}

func (w *ZStack) Position(origin lattice.Point) {
	for _, c := range w.children {
		c.Position(origin)
	}
}

func (w *ZStack) Paint() []string {
	if w.attrs.Display == "hide" || w.attrs.Display == "exclude" {
		return nil
	}
	var rows [][]rune
	for _, c := range w.children {
		for y, line := range c.Paint() {
			r := []rune(line)
			for len(rows) <= y {
				rows = append(rows, nil)
			}
			for x, ch := range r {
				for len(rows[y]) <= x {
					rows[y] = append(rows[y], ' ')
				}
				if ch != ' ' {
					rows[y][x] = ch
				}
			}
		}
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = string(r)
	}
	return out
}
