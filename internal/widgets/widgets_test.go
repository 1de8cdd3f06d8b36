package widgets

import (
	"strings"
	"testing"

	"github.com/latticetui/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intAttr(n int) lattice.ValueReference {
	return lattice.RefFromOwned(lattice.OwnedFromInt(int64(n)))
}

func TestHStackLaysOutChildrenLeftToRight(t *testing.T) {
	w, err := newHStack(nil, nil, nil, lattice.Context{})
	require.NoError(t, err)
	hs := w.(*HStack)

	a := &fixedWidget{kind: "a", size: lattice.Size{W: 3, H: 1}, lines: []string{"aaa"}}
	b := &fixedWidget{kind: "b", size: lattice.Size{W: 2, H: 1}, lines: []string{"bb"}}
	hs.SetChildren([]lattice.Widget{a, b})

	size := hs.Layout(lattice.Size{W: 20, H: 5})
	assert.Equal(t, 5, size.W)
	assert.Equal(t, 1, size.H)

	hs.Position(lattice.Point{})
	assert.Equal(t, lattice.Point{X: 0, Y: 0}, a.gotOrigin)
	assert.Equal(t, lattice.Point{X: 3, Y: 0}, b.gotOrigin)
}

func TestHStackHiddenDisplayPaintsNothing(t *testing.T) {
	attrs := map[string]lattice.ValueReference{"display": lattice.RefFromString("hide")}
	w, err := newHStack(attrs, nil, nil, lattice.Context{})
	require.NoError(t, err)
	assert.Nil(t, w.(*HStack).Paint())
}

func TestVStackSumsHeightsKeepsMaxWidth(t *testing.T) {
	w, err := newVStack(nil, nil, nil, lattice.Context{})
	require.NoError(t, err)
	vs := w.(*VStack)

	a := &fixedWidget{size: lattice.Size{W: 4, H: 1}, lines: []string{"aaaa"}}
	b := &fixedWidget{size: lattice.Size{W: 2, H: 2}, lines: []string{"bb", "bb"}}
	vs.SetChildren([]lattice.Widget{a, b})

	size := vs.Layout(lattice.Size{W: 20, H: 20})
	assert.Equal(t, 4, size.W)
	assert.Equal(t, 3, size.H)
}

func TestBorderAddsTwoCellsToChildSize(t *testing.T) {
	w, err := newBorder(nil, nil, nil, lattice.Context{})
	require.NoError(t, err)
	b := w.(*Border)

	child := &fixedWidget{size: lattice.Size{W: 4, H: 1}, lines: []string{"body"}}
	b.SetChildren([]lattice.Widget{child})

	size := b.Layout(lattice.Size{W: 20, H: 20})
	assert.Equal(t, 6, size.W)
	assert.Equal(t, 3, size.H)
}

func TestBorderThickAttrSelectsThickBorder(t *testing.T) {
	attrs := map[string]lattice.ValueReference{"border-style": lattice.RefFromString("thick")}
	w, err := newBorder(attrs, nil, nil, lattice.Context{})
	require.NoError(t, err)
	assert.Equal(t, "thick", w.(*Border).attrs.BorderStyle)
}

func TestTextWrapsAtAvailableWidth(t *testing.T) {
	text := "a long line of words to wrap"
	w, err := newText(nil, &text, nil, lattice.Context{})
	require.NoError(t, err)
	tw := w.(*Text)

	size := tw.Layout(lattice.Size{W: 10, H: 0})
	assert.Greater(t, size.H, 1, "text longer than the available width must wrap onto multiple lines")
}

func TestTextOverflowNeverWraps(t *testing.T) {
	text := "a very long unbroken line"
	attrs := map[string]lattice.ValueReference{"wrap": lattice.RefFromString("overflow")}
	w, err := newText(attrs, &text, nil, lattice.Context{})
	require.NoError(t, err)
	tw := w.(*Text)

	size := tw.Layout(lattice.Size{W: 5, H: 0})
	assert.Equal(t, 1, size.H, "wrap=overflow keeps single-line content on one line regardless of width")
}

func TestTextCollapseAndTrim(t *testing.T) {
	text := "  hi   there  "
	attrs := map[string]lattice.ValueReference{
		"collapse-spaces": lattice.RefFromOwned(lattice.OwnedFromBool(true)),
		"trim-start":      lattice.RefFromOwned(lattice.OwnedFromBool(true)),
		"trim-end":        lattice.RefFromOwned(lattice.OwnedFromBool(true)),
	}
	w, err := newText(attrs, &text, nil, lattice.Context{})
	require.NoError(t, err)
	tw := w.(*Text)
	assert.Equal(t, "hi there", tw.normalized())
}

func TestSpanSharesTextBehaviorButReportsOwnKind(t *testing.T) {
	text := "hi"
	w, err := newSpan(nil, &text, nil, lattice.Context{})
	require.NoError(t, err)
	assert.Equal(t, "span", w.Kind())
}

func TestParseBoxAttrsDefaultsPaddingSidesFromShorthand(t *testing.T) {
	attrs := map[string]lattice.ValueReference{"padding": intAttr(2)}
	b, err := parseBoxAttrs("hstack", attrs)
	require.NoError(t, err)
	assert.Equal(t, 2, b.PadTop)
	assert.Equal(t, 2, b.PadLeft)
}

func TestParseBoxAttrsPerSideOverridesShorthand(t *testing.T) {
	attrs := map[string]lattice.ValueReference{
		"padding":      intAttr(2),
		"padding-left": intAttr(5),
	}
	b, err := parseBoxAttrs("hstack", attrs)
	require.NoError(t, err)
	assert.Equal(t, 2, b.PadTop)
	assert.Equal(t, 5, b.PadLeft)
}

// TestParseBoxAttrsRejectsInvalidEnumValue exercises the
// go-playground/validator wiring: an out-of-set border-style/align/
// display value must surface as a lattice.AttributeTypeError rather
// than silently passing through.
func TestParseBoxAttrsRejectsInvalidEnumValue(t *testing.T) {
	attrs := map[string]lattice.ValueReference{"border-style": lattice.RefFromString("dotted")}
	_, err := parseBoxAttrs("border", attrs)
	require.Error(t, err)
	var attrErr *lattice.AttributeTypeError
	require.ErrorAs(t, err, &attrErr)
	assert.Equal(t, "border", attrErr.Kind)
}

// TestNewBorderRejectsInvalidBorderStyle confirms the validation error
// propagates all the way out of the widget constructor.
func TestNewBorderRejectsInvalidBorderStyle(t *testing.T) {
	attrs := map[string]lattice.ValueReference{"border-style": lattice.RefFromString("dotted")}
	_, err := newBorder(attrs, nil, nil, lattice.Context{})
	require.Error(t, err)
	var attrErr *lattice.AttributeTypeError
	require.ErrorAs(t, err, &attrErr)
}

func TestRegisterDefaultsRegistersAllTenKinds(t *testing.T) {
	f := lattice.NewFactory()
	RegisterDefaults(f)

	for _, kind := range []string{"hstack", "vstack", "zstack", "border", "expand", "spacer", "viewport", "position", "text", "span"} {
		_, err := f.Create(kind, nil, nil, nil, lattice.Context{})
		assert.NoError(t, err, "kind %q must be registered by RegisterDefaults", kind)
	}
}

// fixedWidget is a minimal test double for internal/widgets' own tests,
// standing in for a real child widget with a predetermined size and
// paint output.
type fixedWidget struct {
	kind      string
	size      lattice.Size
	lines     []string
	gotOrigin lattice.Point
}

func (f *fixedWidget) Kind() string                { return f.kind }
func (f *fixedWidget) Layout(lattice.Size) lattice.Size { return f.size }
func (f *fixedWidget) Position(p lattice.Point)     { f.gotOrigin = p }
func (f *fixedWidget) Paint() []string              { return f.lines }

func TestFixedWidgetPaintJoins(t *testing.T) {
	f := &fixedWidget{lines: []string{"a", "b"}}
	assert.Equal(t, "a\nb", strings.Join(f.Paint(), "\n"))
}
