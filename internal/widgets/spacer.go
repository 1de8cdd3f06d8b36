package widgets

import "github.com/latticetui/lattice"

// Spacer is a leafless container occupying a fixed size: blank cells
// with no child content, used to force gaps in a stack.
type Spacer struct {
	attrs BoxAttrs
	size  lattice.Size
}

func newSpacer(attrs map[string]lattice.ValueReference, _ *string, _ lattice.NodeID, _ lattice.Context) (lattice.Widget, error) {
	b, err := parseBoxAttrs("spacer", attrs)
	if err != nil {
		return nil, err
	}
	return &Spacer{attrs: b}, nil
}

func (w *Spacer) Kind() string { return "spacer" }

func (w *Spacer) Layout(avail lattice.Size) lattice.Size {
	w.size = lattice.Size{
		W: clampSize(w.attrs.Width, w.attrs.MinWidth, w.attrs.MaxWidth),
		H: clampSize(w.attrs.Height, w.attrs.MinHeight, w.attrs.MaxHeight),
	}
	return w.size
}

func (w *Spacer) Position(lattice.Point) {}

func (w *Spacer) Paint() []string {
	if w.attrs.Display == "hide" || w.attrs.Display == "exclude" || w.size.H == 0 {
		return nil
	}
	row := make([]byte, w.size.W)
	for i := range row {
		row[i] = ' '
	}
	lines := make([]string, w.size.H)
	for i := range lines {
		lines[i] = string(row)
	}
	return lines
}
