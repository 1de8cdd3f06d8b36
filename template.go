package lattice

// TemplateKind tags the variant of a Template node.
type TemplateKind int

const (
	TplNode TemplateKind = iota
	TplLoop
	TplControlFlow
	TplView
)

// Attribute is one resolved key/expression pair on a Node template.
type Attribute struct {
	Key  StringID
	Expr ValueID
}

// ControlFlowArm is one if/else-if/else branch: a condition (absent for a
// trailing bare else) and its body.
type ControlFlowArm struct {
	Cond    ValueID
	HasCond bool
	Body    []*Template
}

// Template is the read-only, program-lifetime tree produced by the
// assembler (C6) from the Optimizer's Instruction stream.
type Template struct {
	Kind TemplateKind

	// TplNode
	Ident      StringID
	Attributes []Attribute
	Text       *TextID
	Children   []*Template

	// TplLoop
	Binding StringID
	Data    ValueID
	Body    []*Template

	// TplControlFlow
	Arms []ControlFlowArm

	// TplView
	ViewName StringID
}

// Assemble turns an Instruction slice (C5's output) into the Template tree
// (C6). It is a single-pass recursion: instructions are consumed left to
// right, each Node/Loop/ControlFlow draining exactly the instructions its
// size field promises.
func Assemble(instrs []Instruction) ([]*Template, error) {
	asm := &assembler{instrs: instrs}
	out, err := asm.run(len(instrs))
	if err != nil {
		return nil, err
	}
	if asm.pos != len(instrs) {
		return nil, &OptimizerInvariant{Msg: "assembler did not consume entire instruction stream"}
	}
	return out, nil
}

type assembler struct {
	instrs []Instruction
	pos    int
}

// run consumes instructions until asm.pos reaches limit, returning the
// resulting Template siblings.
func (a *assembler) run(limit int) ([]*Template, error) {
	var out []*Template
	for a.pos < limit {
		tpl, err := a.one()
		if err != nil {
			return nil, err
		}
		out = append(out, tpl...)
	}
	return out, nil
}

// one consumes a single logical unit starting at asm.pos: either a
// LoadAttribute/LoadText-prefixed Node, a For, an If/Else chain, or a
// View, and returns the Template(s) it produces (a bare attribute/text
// instruction with no following Node is an optimizer invariant failure —
// the optimizer always attaches them to a Node).
func (a *assembler) one() ([]*Template, error) {
	switch a.instrs[a.pos].Kind {
	case InstrLoadAttribute, InstrLoadText:
		return a.node()
	case InstrNode:
		return a.node()
	case InstrFor:
		t, err := a.loop()
		if err != nil {
			return nil, err
		}
		return []*Template{t}, nil
	case InstrIf, InstrElse:
		return a.controlFlow()
	case InstrView:
		v := a.instrs[a.pos]
		a.pos++
		return []*Template{{Kind: TplView, ViewName: v.ViewName}}, nil
	default:
		return nil, &OptimizerInvariant{Msg: "unexpected instruction in assembler"}
	}
}

func (a *assembler) node() ([]*Template, error) {
	var attrs []Attribute
	var text *TextID
	for a.instrs[a.pos].Kind == InstrLoadAttribute || a.instrs[a.pos].Kind == InstrLoadText {
		in := a.instrs[a.pos]
		if in.Kind == InstrLoadAttribute {
			attrs = append(attrs, Attribute{Key: in.Key, Expr: in.Value})
		} else {
			t := in.Text
			text = &t
		}
		a.pos++
		if a.pos >= len(a.instrs) {
			return nil, &OptimizerInvariant{Msg: "attribute/text prefix not followed by a Node"}
		}
	}
	if a.instrs[a.pos].Kind != InstrNode {
		return nil, &OptimizerInvariant{Msg: "attribute/text prefix not followed by a Node"}
	}
	in := a.instrs[a.pos]
	a.pos++
	end := a.pos + in.ScopeSize
	if end > len(a.instrs) {
		return nil, &OptimizerInvariant{Msg: "node scope_size overruns instruction stream"}
	}
	children, err := a.run(end)
	if err != nil {
		return nil, err
	}
	return []*Template{{
		Kind:       TplNode,
		Ident:      in.Ident,
		Attributes: attrs,
		Text:       text,
		Children:   children,
	}}, nil
}

func (a *assembler) loop() (*Template, error) {
	in := a.instrs[a.pos]
	a.pos++
	end := a.pos + in.Size
	if end > len(a.instrs) {
		return nil, &OptimizerInvariant{Msg: "for size overruns instruction stream"}
	}
	body, err := a.run(end)
	if err != nil {
		return nil, err
	}
	return &Template{Kind: TplLoop, Binding: in.Binding, Data: in.Data, Body: body}, nil
}

// controlFlow consumes one If and the Else instructions immediately
// following it into one ControlFlow Template; a further If starts a new
// ControlFlow. (An Else can begin the run when its preceding If was
// eliminated by the optimizer but the Else itself still carries a
// condition — see optimize.go's ifElseChain.)
func (a *assembler) controlFlow() ([]*Template, error) {
	var arms []ControlFlowArm
	for a.pos < len(a.instrs) && (a.instrs[a.pos].Kind == InstrIf || a.instrs[a.pos].Kind == InstrElse) {
		if len(arms) > 0 && a.instrs[a.pos].Kind == InstrIf {
			break
		}
		in := a.instrs[a.pos]
		a.pos++
		end := a.pos + in.Size
		if end > len(a.instrs) {
			return nil, &OptimizerInvariant{Msg: "if/else size overruns instruction stream"}
		}
		body, err := a.run(end)
		if err != nil {
			return nil, err
		}
		arms = append(arms, ControlFlowArm{Cond: in.Cond, HasCond: in.HasCond, Body: body})
	}
	return []*Template{{Kind: TplControlFlow, Arms: arms}}, nil
}

// Compile runs the full pipeline: lex, parse, optimize, assemble. The
// returned Program owns the Pool its Template tree's ids reference and is
// immutable for the remainder of the run.
func Compile(src string) (*Program, error) {
	pool := NewPool()
	pes, err := Parse(src, pool)
	if err != nil {
		return nil, err
	}
	instrs, err := Optimize(pes)
	if err != nil {
		return nil, err
	}
	tpls, err := Assemble(instrs)
	if err != nil {
		return nil, err
	}
	return &Program{Pool: pool, Roots: tpls}, nil
}

// Program is a compiled template: an immutable Pool plus the top-level
// Template forest. It is safe to share across goroutines once Compile
// returns, since nothing ever mutates it afterward.
type Program struct {
	Pool  *Pool
	Roots []*Template
}
