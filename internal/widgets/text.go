package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/latticetui/lattice"
	"golang.org/x/text/width"
)

// Text renders its node's resolved text content, optionally wrapping it
// to its layout width. Width accounting goes through
// golang.org/x/text/width so East-Asian wide runes count as two cells,
// matching spec.md's "unicode width" text-shaping allowance.
type Text struct {
	attrs    BoxAttrs
	theme    *lattice.Theme
	content  string
	wrap     string
	trimS    bool
	trimE    bool
	collapse bool
	textAlign string
	size     lattice.Size
}

func newText(attrs map[string]lattice.ValueReference, text *string, _ lattice.NodeID, ctx lattice.Context) (lattice.Widget, error) {
	content := ""
	if text != nil {
		content = *text
	}
	trimS, _ := boolAttr(attrs, "trim-start")
	trimE, _ := boolAttr(attrs, "trim-end")
	collapse, _ := boolAttr(attrs, "collapse-spaces")
	b, err := parseBoxAttrs("text", attrs)
	if err != nil {
		return nil, err
	}
	return &Text{
		attrs:     b,
		theme:     themeOf(ctx),
		content:   content,
		wrap:      stringAttr(attrs, "wrap", "normal"),
		trimS:     trimS,
		trimE:     trimE,
		collapse:  collapse,
		textAlign: stringAttr(attrs, "text-align", "left"),
	}, nil
}

func boolAttr(attrs map[string]lattice.ValueReference, key string) (bool, bool) {
	v, ok := attrs[key]
	if !ok || v.Kind != lattice.RefScalar || v.Scalar.Kind != lattice.OwnedBool {
		return false, false
	}
	return v.Scalar.Bool, true
}

func stringAttr(attrs map[string]lattice.ValueReference, key, def string) string {
	v, ok := attrs[key]
	if !ok || v.Kind != lattice.RefStringSlice {
		return def
	}
	return v.StringVal
}

func (w *Text) Kind() string { return "text" }

func (w *Text) normalized() string {
	s := w.content
	if w.collapse {
		s = strings.Join(strings.Fields(s), " ")
	}
	if w.trimS {
		s = strings.TrimLeft(s, " \t")
	}
	if w.trimE {
		s = strings.TrimRight(s, " \t")
	}
	return s
}

// cellWidth sums the East-Asian-aware display width of s.
func cellWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func (w *Text) Layout(avail lattice.Size) lattice.Size {
	lines := w.renderLines(avail.W)
	maxW := 0
	for _, l := range lines {
		if cw := cellWidth(l); cw > maxW {
			maxW = cw
		}
	}
	w.size = lattice.Size{
		W: clampSize(orDefault(w.attrs.Width, maxW), w.attrs.MinWidth, w.attrs.MaxWidth),
		H: clampSize(orDefault(w.attrs.Height, len(lines)), w.attrs.MinHeight, w.attrs.MaxHeight),
	}
	return w.size
}

func (w *Text) Position(lattice.Point) {}

// renderLines applies the wrap mode against availW (0 meaning
// unconstrained, i.e. "overflow").
func (w *Text) renderLines(availW int) []string {
	s := w.normalized()
	if w.wrap == "overflow" || availW <= 0 {
		return strings.Split(s, "\n")
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		out = append(out, wrapLine(para, availW, w.wrap)...)
	}
	return out
}

func wrapLine(s string, width int, mode string) []string {
	if cellWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	switch mode {
	case "word-break":
		words := strings.Fields(s)
		cur := ""
		for _, word := range words {
			cand := word
			if cur != "" {
				cand = cur + " " + word
			}
			if cellWidth(cand) > width && cur != "" {
				lines = append(lines, cur)
				cur = word
				continue
			}
			cur = cand
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	default: // "normal": hard break at the cell-width boundary
		r := []rune(s)
		cur := make([]rune, 0, width)
		w := 0
		for _, ch := range r {
			cw := 1
			if width2, _ := runeWidth(ch); width2 == 2 {
				cw = 2
			}
			if w+cw > width {
				lines = append(lines, string(cur))
				cur = cur[:0]
				w = 0
			}
			cur = append(cur, ch)
			w += cw
		}
		if len(cur) > 0 {
			lines = append(lines, string(cur))
		}
	}
	return lines
}

func runeWidth(r rune) (int, bool) {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2, true
	default:
		return 1, false
	}
}

func (w *Text) Paint() []string {
	if w.attrs.Display == "hide" || w.attrs.Display == "exclude" {
		return nil
	}
	lines := w.renderLines(w.size.W)
	style := w.attrs.baseStyle(w.theme)
	switch w.textAlign {
	case "centre":
		style = style.Align(lipgloss.Center)
	case "right":
		style = style.Align(lipgloss.Right)
	}
	return paintLines(style, strings.Join(lines, "\n"))
}
