package lattice

// Optimize transforms the flat, scope-delimited ParseExpression stream (C3)
// into the flat Instruction stream (C5): empty conditional/loop heads are
// removed, scopes are collapsed into explicit sized blocks, and a node's
// attribute/text prefix is ordered immediately before its Node instruction.
//
// Optimize is total: given a stream produced by a conforming parser it
// never fails. Any inconsistency it detects (an unmatched ScopeEnd, a
// dangling ScopeStart) is a programmer error in the parser, reported as
// *OptimizerInvariant rather than a user-facing error.
func Optimize(pes []ParseExpression) ([]Instruction, error) {
	opt := &optimizer{pes: pes}
	out, err := opt.scope()
	if err != nil {
		return nil, err
	}
	if opt.pos < len(pes) && pes[opt.pos].Kind != PEEof {
		return nil, &OptimizerInvariant{Msg: "trailing input after top-level scope"}
	}
	return out, nil
}

type optimizer struct {
	pes []ParseExpression
	pos int
}

func (o *optimizer) cur() ParseExpression {
	if o.pos >= len(o.pes) {
		return ParseExpression{Kind: PEEof}
	}
	return o.pes[o.pos]
}

// scope consumes items until PEScopeEnd or PEEof (not consuming either),
// returning the optimized instruction sequence for this scope.
func (o *optimizer) scope() ([]Instruction, error) {
	var out []Instruction
	for {
		switch o.cur().Kind {
		case PEEof, PEScopeEnd:
			return out, nil
		case PELoadAttribute:
			pe := o.cur()
			o.pos++
			out = append(out, Instruction{Kind: InstrLoadAttribute, Key: pe.Key, Value: pe.Value})
		case PELoadText:
			pe := o.cur()
			o.pos++
			out = append(out, Instruction{Kind: InstrLoadText, Text: pe.Text})
		case PENode:
			instr, err := o.node()
			if err != nil {
				return nil, err
			}
			out = append(out, instr...)
		case PEView:
			pe := o.cur()
			o.pos++
			out = append(out, Instruction{Kind: InstrView, ViewName: pe.Ident})
		case PEFor:
			instr, ok, err := o.forLoop()
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, instr...)
			}
		case PEIf:
			instr, err := o.ifElseChain()
			if err != nil {
				return nil, err
			}
			out = append(out, instr...)
		default:
			return nil, &OptimizerInvariant{Msg: "unexpected instruction kind in scope"}
		}
	}
}

func (o *optimizer) node() ([]Instruction, error) {
	pe := o.cur()
	o.pos++
	hasScope := o.cur().Kind == PEScopeStart
	var body []Instruction
	if hasScope {
		o.pos++ // consume ScopeStart
		var err error
		body, err = o.scope()
		if err != nil {
			return nil, err
		}
		if o.cur().Kind != PEScopeEnd {
			return nil, &OptimizerInvariant{Msg: "unterminated node scope"}
		}
		o.pos++ // consume ScopeEnd
	}
	out := make([]Instruction, 0, 1+len(body))
	out = append(out, Instruction{Kind: InstrNode, Ident: pe.Ident, ScopeSize: len(body)})
	out = append(out, body...)
	return out, nil
}

// forLoop returns (instructions, kept, error). kept is false when the loop
// head had no body and was dropped per rule 1.
func (o *optimizer) forLoop() ([]Instruction, bool, error) {
	pe := o.cur()
	o.pos++
	if o.cur().Kind != PEScopeStart {
		return nil, false, nil // rule 1: headless For is dropped
	}
	o.pos++
	body, err := o.scope()
	if err != nil {
		return nil, false, err
	}
	if o.cur().Kind != PEScopeEnd {
		return nil, false, &OptimizerInvariant{Msg: "unterminated for scope"}
	}
	o.pos++
	out := make([]Instruction, 0, 1+len(body))
	out = append(out, Instruction{Kind: InstrFor, Data: pe.Data, Binding: pe.Binding, Size: len(body)})
	out = append(out, body...)
	return out, true, nil
}

// ifElseChain consumes one If and its immediately following Else/Else-if
// arms, applying empty-branch elimination (rules 1 and 4) across the
// whole chain rather than arm by arm: a bare (cond-less) else whose
// preceding arms were all eliminated has nothing to be conditional on, so
// its body is spliced directly into the surrounding scope instead of
// being wrapped in an Else instruction.
func (o *optimizer) ifElseChain() ([]Instruction, error) {
	var out []Instruction
	survivorSeen := false

	// the initial If
	ifPE := o.cur()
	o.pos++
	if o.cur().Kind == PEScopeStart {
		o.pos++
		body, err := o.scope()
		if err != nil {
			return nil, err
		}
		if o.cur().Kind != PEScopeEnd {
			return nil, &OptimizerInvariant{Msg: "unterminated if scope"}
		}
		o.pos++
		if len(body) > 0 {
			out = append(out, Instruction{Kind: InstrIf, Cond: ifPE.Cond, HasCond: true, Size: len(body)})
			out = append(out, body...)
			survivorSeen = true
		}
		// body == nil: rule 4, an If collapsed to size 0 by recursive
		// optimization of its own contents is dropped entirely.
	}
	// rule 1: no ScopeStart at all — If dropped entirely.

	for o.cur().Kind == PEElse {
		elsePE := o.cur()
		o.pos++
		var body []Instruction
		if o.cur().Kind == PEScopeStart {
			o.pos++
			var err error
			body, err = o.scope()
			if err != nil {
				return nil, err
			}
			if o.cur().Kind != PEScopeEnd {
				return nil, &OptimizerInvariant{Msg: "unterminated else scope"}
			}
			o.pos++
		}

		if len(body) == 0 {
			continue // rule 1/4: empty else arm dropped, chain continues
		}

		if !survivorSeen && !elsePE.HasCond {
			// Nothing before this bare else survived: it cannot be
			// conditional on anything, so its body becomes unconditional
			// surrounding content and the chain ends here.
			out = append(out, body...)
			survivorSeen = true
			break
		}

		out = append(out, Instruction{Kind: InstrElse, Cond: elsePE.Cond, HasCond: elsePE.HasCond, Size: len(body)})
		out = append(out, body...)
		survivorSeen = true
	}

	return out, nil
}
