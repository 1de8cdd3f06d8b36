package lattice

// InstrKind tags the variant of a flat, scope-less Instruction.
type InstrKind int

const (
	InstrIf InstrKind = iota
	InstrElse
	InstrFor
	InstrNode
	InstrLoadAttribute
	InstrLoadText
	InstrView
)

// Instruction is one element of the Optimizer's (C5) output: a flat,
// scope-less stream where If/Else/For/Node carry an explicit body size.
type Instruction struct {
	Kind InstrKind

	Cond    ValueID
	HasCond bool
	Size    int // If, Else, For: count of instructions forming the body

	Data    ValueID  // For
	Binding StringID // For

	Ident     StringID // Node
	ScopeSize int      // Node: count of instructions in the nested scope

	Key   StringID // LoadAttribute
	Value ValueID  // LoadAttribute

	Text TextID // LoadText

	ViewName StringID // View
}
