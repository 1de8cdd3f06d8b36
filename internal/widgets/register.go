package widgets

import "github.com/latticetui/lattice"

// RegisterDefaults installs the ten widget kinds spec.md §6 names into
// factory, giving a compiled Program a real registry to expand against
// out of the box.
func RegisterDefaults(factory *lattice.Factory) {
	factory.Register("hstack", newHStack)
	factory.Register("vstack", newVStack)
	factory.Register("zstack", newZStack)
	factory.Register("border", newBorder)
	factory.Register("expand", newExpand)
	factory.Register("spacer", newSpacer)
	factory.Register("viewport", newViewport)
	factory.Register("position", newPosition)
	factory.Register("text", newText)
	factory.Register("span", newSpan)
}
