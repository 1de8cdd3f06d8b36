package widgets

import "github.com/latticetui/lattice"

// Span is the second leaf kind of spec.md §6's "leaves: text, span": it
// embeds Text and lays out and paints exactly as Text does, padding,
// colors and alignment included; only its Kind differs.
type Span struct {
	Text
}

func newSpan(attrs map[string]lattice.ValueReference, text *string, node lattice.NodeID, ctx lattice.Context) (lattice.Widget, error) {
	w, err := newText(attrs, text, node, ctx)
	if err != nil {
		return nil, err
	}
	return &Span{Text: *w.(*Text)}, nil
}

func (w *Span) Kind() string { return "span" }
