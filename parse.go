package lattice

// ParseExprKind tags the variant of a flat ParseExpression.
type ParseExprKind int

const (
	PEIf ParseExprKind = iota
	PEElse
	PEFor
	PENode
	PELoadAttribute
	PELoadText
	PEScopeStart
	PEScopeEnd
	PEView
	PEEof
)

// ParseExpression is one element of the flat, scope-delimited stream C3
// produces. All payload fields are ids into the Pool.
type ParseExpression struct {
	Kind ParseExprKind

	Cond    ValueID // PEIf, PEElse (when HasCond)
	HasCond bool    // PEElse without a condition is a bare "else"

	Data    ValueID  // PEFor
	Binding StringID // PEFor

	Ident StringID // PENode, PEView

	Key   StringID // PELoadAttribute
	Value ValueID  // PELoadAttribute

	Text TextID // PELoadText
}

// Parse tokenizes src with Lex and then runs the statement parser,
// returning the flat ParseExpression stream.
func Parse(src string, pool *Pool) ([]ParseExpression, error) {
	toks, err := Lex(src, pool)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks, pool)
}

// stmtParser consumes tokens line by line, tracking indentation to emit
// explicit ScopeStart/ScopeEnd markers.
type stmtParser struct {
	toks   []Token
	pos    int
	pool   *Pool
	levels []int // stack of indent widths, outer to inner
	out    []ParseExpression
}

// ParseTokens runs the statement parser (C3) over an already-lexed token
// stream.
func ParseTokens(toks []Token, pool *Pool) ([]ParseExpression, error) {
	p := &stmtParser{toks: toks, pool: pool, levels: []int{0}}
	if err := p.program(); err != nil {
		return nil, err
	}
	p.out = append(p.out, ParseExpression{Kind: PEEof})
	return p.out, nil
}

func (p *stmtParser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: TokEOF}
	}
	return p.toks[p.pos]
}

func (p *stmtParser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// program parses item* at the current (already-established) indent level.
func (p *stmtParser) program() error {
	for {
		p.skipBlankLines()
		if p.cur().Kind == TokEOF {
			return nil
		}
		if p.cur().Kind == TokIndent {
			width := p.cur().N
			if width < p.levels[len(p.levels)-1] {
				return nil // caller's dedent to close this scope
			}
			if width > p.levels[len(p.levels)-1] {
				return &ParseError{Kind: ParseMalformedHeader, Pos: p.cur().Pos, Msg: "unexpected indent"}
			}
			p.advance()
		}
		if err := p.item(); err != nil {
			return err
		}
	}
}

func (p *stmtParser) skipBlankLines() {
	for p.cur().Kind == TokNewline {
		p.advance()
	}
}

func (p *stmtParser) item() error {
	switch p.cur().Kind {
	case TokFor:
		return p.forStmt()
	case TokIf:
		return p.ifStmt()
	case TokView:
		return p.viewStmt()
	case TokValue:
		if p.cur().Value.Kind == ValIdent {
			return p.nodeStmt()
		}
		return &ParseError{Kind: ParseMalformedHeader, Pos: p.cur().Pos, Msg: "expected identifier, for, if, or view"}
	default:
		return &ParseError{Kind: ParseMalformedHeader, Pos: p.cur().Pos, Msg: "expected identifier, for, if, or view"}
	}
}

func (p *stmtParser) nodeStmt() error {
	identTok := p.advance()
	ident := identTok.Value.Ident

	var attrs []ParseExpression
	if p.cur().Kind == TokOp && p.cur().Op == OpLBracket {
		var err error
		attrs, err = p.attrs()
		if err != nil {
			return err
		}
	}

	var text *ParseExpression
	if p.cur().Kind == TokValue && p.cur().Value.Kind == ValString {
		tp := TextPath{{Literal: true, String: p.cur().Value.String}}
		tid := p.pool.InternText(tp)
		p.advance()
		t := ParseExpression{Kind: PELoadText, Text: tid}
		text = &t
	} else if p.cur().Kind == TokOp && p.cur().Op == OpInterpStart {
		tp, err := p.interpText()
		if err != nil {
			return err
		}
		tid := p.pool.InternText(tp)
		t := ParseExpression{Kind: PELoadText, Text: tid}
		text = &t
	}

	p.out = append(p.out, attrs...)
	if text != nil {
		p.out = append(p.out, *text)
	}

	p.out = append(p.out, ParseExpression{Kind: PENode, Ident: ident})

	if err := p.expectLineEnd(); err != nil {
		return err
	}
	return p.maybeBody()
}

// attrs parses a bracketed "[k: v, ...]" clause into LoadAttribute entries.
func (p *stmtParser) attrs() ([]ParseExpression, error) {
	p.advance() // '['
	var out []ParseExpression
	if p.cur().Kind == TokOp && p.cur().Op == OpRBracket {
		p.advance()
		return out, nil
	}
	for {
		keyTok := p.cur()
		if !(keyTok.Kind == TokValue && keyTok.Value.Kind == ValIdent) {
			return nil, &ParseError{Kind: ParseMalformedHeader, Pos: keyTok.Pos, Msg: "expected attribute name"}
		}
		p.advance()
		if !(p.cur().Kind == TokOp && p.cur().Op == OpColon) {
			return nil, &ParseError{Kind: ParseMalformedHeader, Pos: p.cur().Pos, Msg: "expected ':' after attribute name"}
		}
		p.advance()
		valID, n, err := ParseExpr(p.toks[p.pos:], p.pool)
		if err != nil {
			return nil, err
		}
		p.pos += n
		out = append(out, ParseExpression{Kind: PELoadAttribute, Key: keyTok.Value.Ident, Value: valID})
		if p.cur().Kind == TokOp && p.cur().Op == OpComma {
			p.advance()
			if p.cur().Kind == TokOp && p.cur().Op == OpRBracket {
				break
			}
			continue
		}
		break
	}
	if !(p.cur().Kind == TokOp && p.cur().Op == OpRBracket) {
		return nil, &ParseError{Kind: ParseUnmatchedBracket, Pos: p.cur().Pos, Msg: "expected closing ']'"}
	}
	p.advance()
	return out, nil
}

// interpText parses one or more adjacent "{{ expr }}" / string fragments
// into a TextPath.
func (p *stmtParser) interpText() (TextPath, error) {
	var tp TextPath
	for {
		if p.cur().Kind == TokValue && p.cur().Value.Kind == ValString {
			tp = append(tp, TextFragment{Literal: true, String: p.cur().Value.String})
			p.advance()
			continue
		}
		if p.cur().Kind == TokOp && p.cur().Op == OpInterpStart {
			p.advance()
			exprID, n, err := ParseExpr(p.toks[p.pos:], p.pool)
			if err != nil {
				return nil, err
			}
			p.pos += n
			if !(p.cur().Kind == TokOp && p.cur().Op == OpInterpEnd) {
				return nil, &ParseError{Kind: ParseUnmatchedBracket, Pos: p.cur().Pos, Msg: "expected closing '}}'"}
			}
			p.advance()
			tp = append(tp, TextFragment{Literal: false, Expr: exprID})
			continue
		}
		break
	}
	return tp, nil
}

func (p *stmtParser) expectLineEnd() error {
	if p.cur().Kind == TokNewline {
		p.advance()
		return nil
	}
	if p.cur().Kind == TokEOF {
		return nil
	}
	return &ParseError{Kind: ParseMalformedHeader, Pos: p.cur().Pos, Msg: "expected end of line"}
}

// maybeBody opens a nested scope if the following line is indented deeper
// than the current level, emitting ScopeStart/ScopeEnd around it.
func (p *stmtParser) maybeBody() error {
	p.skipBlankLines()
	if p.cur().Kind != TokIndent {
		return nil
	}
	width := p.cur().N
	outer := p.levels[len(p.levels)-1]
	if width <= outer {
		return nil
	}
	p.levels = append(p.levels, width)
	p.out = append(p.out, ParseExpression{Kind: PEScopeStart})
	if err := p.program(); err != nil {
		return err
	}
	p.out = append(p.out, ParseExpression{Kind: PEScopeEnd})
	p.levels = p.levels[:len(p.levels)-1]

	if p.cur().Kind == TokIndent && p.cur().N > p.levels[len(p.levels)-1] {
		return &ParseError{Kind: ParseDedentBeyondRoot, Pos: p.cur().Pos, Msg: "indent does not match any enclosing scope"}
	}
	return nil
}

func (p *stmtParser) forStmt() error {
	p.advance() // 'for'
	bindTok := p.cur()
	if !(bindTok.Kind == TokValue && bindTok.Value.Kind == ValIdent) {
		return &ParseError{Kind: ParseMalformedHeader, Pos: bindTok.Pos, Msg: "expected binding identifier after 'for'"}
	}
	p.advance()
	if p.cur().Kind != TokIn {
		return &ParseError{Kind: ParseMalformedHeader, Pos: p.cur().Pos, Msg: "expected 'in' in for loop"}
	}
	p.advance()
	dataID, n, err := ParseExpr(p.toks[p.pos:], p.pool)
	if err != nil {
		return err
	}
	p.pos += n

	p.out = append(p.out, ParseExpression{Kind: PEFor, Data: dataID, Binding: bindTok.Value.Ident})
	if err := p.expectLineEnd(); err != nil {
		return err
	}
	return p.maybeBody()
}

func (p *stmtParser) ifStmt() error {
	p.advance() // 'if'
	condID, n, err := ParseExpr(p.toks[p.pos:], p.pool)
	if err != nil {
		return err
	}
	p.pos += n
	p.out = append(p.out, ParseExpression{Kind: PEIf, Cond: condID, HasCond: true})
	if err := p.expectLineEnd(); err != nil {
		return err
	}
	if err := p.maybeBody(); err != nil {
		return err
	}
	return p.elseChain()
}

func (p *stmtParser) elseChain() error {
	for {
		p.skipBlankLines()
		// else must appear at the same indent level as the if it continues.
		save := p.pos
		if p.cur().Kind == TokIndent && p.cur().N == p.levels[len(p.levels)-1] {
			p.advance()
		}
		if p.cur().Kind != TokElse {
			p.pos = save
			return nil
		}
		p.advance()
		if p.cur().Kind == TokIf {
			p.advance()
			condID, n, err := ParseExpr(p.toks[p.pos:], p.pool)
			if err != nil {
				return err
			}
			p.pos += n
			p.out = append(p.out, ParseExpression{Kind: PEElse, Cond: condID, HasCond: true})
		} else {
			p.out = append(p.out, ParseExpression{Kind: PEElse, HasCond: false})
		}
		if err := p.expectLineEnd(); err != nil {
			return err
		}
		if err := p.maybeBody(); err != nil {
			return err
		}
	}
}

func (p *stmtParser) viewStmt() error {
	p.advance() // 'view'
	nameTok := p.cur()
	if !(nameTok.Kind == TokValue && nameTok.Value.Kind == ValIdent) {
		return &ParseError{Kind: ParseMalformedHeader, Pos: nameTok.Pos, Msg: "expected identifier after 'view'"}
	}
	p.advance()
	p.out = append(p.out, ParseExpression{Kind: PEView, Ident: nameTok.Value.Ident})
	return p.expectLineEnd()
}
