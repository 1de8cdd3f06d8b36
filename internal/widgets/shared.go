// Package widgets provides the default Factory registrations for every
// widget kind spec.md §6 names: the "external collaborator" the core
// runtime treats as an interface, given one real implementation so the
// module runs end to end rather than stopping at the contract.
package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/latticetui/lattice"
	"github.com/latticetui/lattice/internal/attrdecode"
)

// BoxAttrs is the recognized-attribute subset (spec.md §6) common to
// every container kind. A zero field means "unconstrained" except
// where noted.
type BoxAttrs struct {
	Width, Height          int
	MinWidth, MinHeight     int
	MaxWidth, MaxHeight     int
	Padding                 int
	PadTop, PadRight        int
	PadBottom, PadLeft      int
	Background, Foreground string
	Align                   string `validate:"omitempty,oneof=left centre right top bottom"`
	BorderStyle             string `validate:"omitempty,oneof=thin thick"`
	Display                 string `validate:"omitempty,oneof=show hide exclude"`
}

// boxValidator is shared by every container kind's parseBoxAttrs call,
// grounded on attrdecode's build-once-call-.Struct pattern.
var boxValidator = attrdecode.New()

// parseBoxAttrs decodes the BoxAttrs subset common to every container
// kind and validates it, returning a lattice.AttributeTypeError for kind
// when e.g. align or border-style names a value outside its allowed
// set (spec.md §7's AttributeType error class).
func parseBoxAttrs(kind string, attrs map[string]lattice.ValueReference) (BoxAttrs, error) {
	pad := attrdecode.IntOr(attrs, "padding", 0)
	b := BoxAttrs{
		Width:      attrdecode.IntOr(attrs, "width", 0),
		Height:     attrdecode.IntOr(attrs, "height", 0),
		MinWidth:   attrdecode.IntOr(attrs, "min-width", 0),
		MinHeight:  attrdecode.IntOr(attrs, "min-height", 0),
		MaxWidth:   attrdecode.IntOr(attrs, "max-width", 0),
		MaxHeight:  attrdecode.IntOr(attrs, "max-height", 0),
		Padding:    pad,
		PadTop:     attrdecode.IntOr(attrs, "padding-top", pad),
		PadRight:   attrdecode.IntOr(attrs, "padding-right", pad),
		PadBottom:  attrdecode.IntOr(attrs, "padding-bottom", pad),
		PadLeft:    attrdecode.IntOr(attrs, "padding-left", pad),
		Background: attrdecode.StringOr(attrs, "background", ""),
		Foreground: attrdecode.StringOr(attrs, "foreground", ""),
		Align:      attrdecode.StringOr(attrs, "align", ""),
		BorderStyle: attrdecode.StringOr(attrs, "border-style", "thin"),
		Display:    attrdecode.StringOr(attrs, "display", "show"),
	}
	if err := boxValidator.Validate(kind, &b); err != nil {
		return b, err
	}
	return b, nil
}

// baseStyle builds the lipgloss.Style shared by every container: colors
// and padding, with the widget responsible for layering border/size on
// top of it.
func (b BoxAttrs) baseStyle(theme *lattice.Theme) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(b.PadTop, b.PadRight, b.PadBottom, b.PadLeft)
	if b.Background != "" {
		s = s.Background(theme.Resolve(b.Background))
	}
	if b.Foreground != "" {
		s = s.Foreground(theme.Resolve(b.Foreground))
	}
	switch b.Align {
	case "centre":
		s = s.Align(lipgloss.Center)
	case "right":
		s = s.Align(lipgloss.Right)
	default:
		s = s.Align(lipgloss.Left)
	}
	return s
}

func clampSize(want, min, max int) int {
	if min > 0 && want < min {
		want = min
	}
	if max > 0 && want > max {
		want = max
	}
	return want
}

// paintLines renders a lipgloss.Style around already-joined content
// into the final line slice the Widget capability returns.
func paintLines(style lipgloss.Style, content string) []string {
	return strings.Split(style.Render(content), "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
