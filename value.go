package lattice

import "fmt"

// OwnedKind classifies a scalar Owned value.
type OwnedKind int

const (
	OwnedBool OwnedKind = iota
	OwnedInt
	OwnedUint
	OwnedFloat
	OwnedColor
)

// Owned is a primitive scalar: bool, signed/unsigned int, float, or color.
// Numeric kinds are totally ordered within a kind and promoted to float on
// mixed-kind arithmetic.
type Owned struct {
	Kind  OwnedKind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Color [3]uint8
}

func OwnedFromBool(b bool) Owned   { return Owned{Kind: OwnedBool, Bool: b} }
func OwnedFromInt(i int64) Owned   { return Owned{Kind: OwnedInt, Int: i} }
func OwnedFromUint(u uint64) Owned { return Owned{Kind: OwnedUint, Uint: u} }
func OwnedFromFloat(f float64) Owned { return Owned{Kind: OwnedFloat, Float: f} }
func OwnedFromColor(c [3]uint8) Owned { return Owned{Kind: OwnedColor, Color: c} }

// AsFloat promotes any numeric Owned to float64; bool promotes to 0/1;
// color is not numeric and promotes to 0.
func (o Owned) AsFloat() float64 {
	switch o.Kind {
	case OwnedInt:
		return float64(o.Int)
	case OwnedUint:
		return float64(o.Uint)
	case OwnedFloat:
		return o.Float
	case OwnedBool:
		if o.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ExprKind tags the variant of a ValueExpression.
type ExprKind int

const (
	ExprIdent ExprKind = iota
	ExprString
	ExprOwned
	ExprList
	ExprMap
	ExprUnary
	ExprBinary
	ExprMember
	ExprIndex
	ExprCall
)

// UnaryOp and BinaryOp enumerate the operators ValueExpression supports.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
)

type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNeq
	BinLt
	BinLte
	BinGt
	BinGte
	BinAnd
	BinOr
)

// MapEntry is one key/value pair of a map-literal expression.
type MapEntry struct {
	Key ValueID
	Val ValueID
}

// ValueExpression is the recursive sum produced by the Pratt parser (C2)
// and interned into the Pool. Exactly the fields relevant to Kind are
// populated.
type ValueExpression struct {
	Kind ExprKind

	Ident StringID // ExprIdent
	Str   StringID // ExprString
	Owned Owned    // ExprOwned

	Items []ValueID  // ExprList
	Pairs []MapEntry // ExprMap

	UnOp  UnaryOp  // ExprUnary
	BinOp BinaryOp // ExprBinary
	Lhs   ValueID  // ExprUnary (operand), ExprBinary, ExprMember, ExprIndex
	Rhs   ValueID  // ExprBinary

	Member StringID // ExprMember
	Idx    ValueID  // ExprIndex

	Fun  ValueID   // ExprCall
	Args []ValueID // ExprCall
}

// precedence levels, low to high, per spec.md §4.2.
type precedence int

const (
	precNone precedence = iota
	precAssign
	precLogicalOr
	precLogicalAnd
	precEquality
	precComparison
	precSum
	precProduct
	precPrefix
	precCallOrSubscript
)

func binOpPrecedence(op Op) (BinaryOp, precedence, bool) {
	switch op {
	case OpOr:
		return BinOr, precLogicalOr, true
	case OpAnd:
		return BinAnd, precLogicalAnd, true
	case OpEqual:
		return BinEq, precEquality, true
	case OpNotEqual:
		return BinNeq, precEquality, true
	case OpLess:
		return BinLt, precComparison, true
	case OpLessEq:
		return BinLte, precComparison, true
	case OpGreater:
		return BinGt, precComparison, true
	case OpGreaterEq:
		return BinGte, precComparison, true
	case OpPlus:
		return BinAdd, precSum, true
	case OpMinus:
		return BinSub, precSum, true
	case OpStar:
		return BinMul, precProduct, true
	case OpSlash:
		return BinDiv, precProduct, true
	case OpPercent:
		return BinMod, precProduct, true
	default:
		return 0, precNone, false
	}
}

// exprParser is a Pratt parser over a token slice. It never panics on
// malformed input: every error path returns a *ParseError.
type exprParser struct {
	toks []Token
	pos  int
	pool *Pool
}

// ParseExpr parses a single value expression starting at toks[0],
// returning the interned ValueID and the number of tokens consumed.
func ParseExpr(toks []Token, pool *Pool) (ValueID, int, error) {
	p := &exprParser{toks: toks, pool: pool}
	id, err := p.expr(precAssign)
	if err != nil {
		return 0, 0, err
	}
	return id, p.pos, nil
}

func (p *exprParser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: TokEOF}
	}
	return p.toks[p.pos]
}

func (p *exprParser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *exprParser) expr(minPrec precedence) (ValueID, error) {
	lhs, err := p.prefix()
	if err != nil {
		return 0, err
	}
	for {
		lhs, err = p.postfix(lhs)
		if err != nil {
			return 0, err
		}
		tok := p.cur()
		if tok.Kind != TokOp {
			break
		}
		binOp, prec, ok := binOpPrecedence(tok.Op)
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		rhs, err := p.expr(prec + 1)
		if err != nil {
			return 0, err
		}
		lhs = p.pool.InternValue(ValueExpression{Kind: ExprBinary, BinOp: binOp, Lhs: lhs, Rhs: rhs})
	}
	return lhs, nil
}

func (p *exprParser) prefix() (ValueID, error) {
	tok := p.cur()
	if tok.Kind == TokOp {
		switch tok.Op {
		case OpMinus:
			p.advance()
			operand, err := p.expr(precPrefix)
			if err != nil {
				return 0, err
			}
			return p.pool.InternValue(ValueExpression{Kind: ExprUnary, UnOp: UnaryNeg, Lhs: operand}), nil
		case OpNot:
			p.advance()
			operand, err := p.expr(precPrefix)
			if err != nil {
				return 0, err
			}
			return p.pool.InternValue(ValueExpression{Kind: ExprUnary, UnOp: UnaryNot, Lhs: operand}), nil
		case OpLParen:
			p.advance()
			inner, err := p.expr(precAssign)
			if err != nil {
				return 0, err
			}
			if !(p.cur().Kind == TokOp && p.cur().Op == OpRParen) {
				return 0, &ParseError{Kind: ParseUnmatchedBracket, Pos: p.cur().Pos, Msg: "expected closing ')'"}
			}
			p.advance()
			return inner, nil
		case OpLBracket:
			return p.parseList()
		case OpLBrace:
			return p.parseMap()
		}
	}
	return p.primary()
}

func (p *exprParser) primary() (ValueID, error) {
	tok := p.advance()
	switch tok.Kind {
	case TokValue:
		switch tok.Value.Kind {
		case ValIdent:
			return p.pool.InternValue(ValueExpression{Kind: ExprIdent, Ident: tok.Value.Ident}), nil
		case ValString:
			return p.pool.InternValue(ValueExpression{Kind: ExprString, Str: tok.Value.String}), nil
		case ValNumber:
			return p.pool.InternValue(ValueExpression{Kind: ExprOwned, Owned: OwnedFromUint(tok.Value.Number)}), nil
		case ValFloat:
			return p.pool.InternValue(ValueExpression{Kind: ExprOwned, Owned: OwnedFromFloat(tok.Value.Float)}), nil
		case ValHex:
			return p.pool.InternValue(ValueExpression{Kind: ExprOwned, Owned: OwnedFromColor(tok.Value.Hex)}), nil
		case ValBool:
			return p.pool.InternValue(ValueExpression{Kind: ExprOwned, Owned: OwnedFromBool(tok.Value.Bool)}), nil
		}
	}
	return 0, &ParseError{Kind: ParseUnexpectedToken, Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token in expression (%s)", tok.Kind)}
}

// postfix consumes zero or more trailing `(args)` call and `.member` /
// `[idx]` subscript suffixes, left-associatively.
func (p *exprParser) postfix(lhs ValueID) (ValueID, error) {
	for {
		tok := p.cur()
		if tok.Kind != TokOp {
			return lhs, nil
		}
		switch tok.Op {
		case OpLParen:
			p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return 0, err
			}
			lhs = p.pool.InternValue(ValueExpression{Kind: ExprCall, Fun: lhs, Args: args})
		case OpDot:
			p.advance()
			name := p.cur()
			if !(name.Kind == TokValue && name.Value.Kind == ValIdent) {
				return 0, &ParseError{Kind: ParseUnexpectedToken, Pos: name.Pos, Msg: "expected identifier after '.'"}
			}
			p.advance()
			lhs = p.pool.InternValue(ValueExpression{Kind: ExprMember, Lhs: lhs, Member: name.Value.Ident})
		case OpLBracket:
			p.advance()
			idx, err := p.expr(precAssign)
			if err != nil {
				return 0, err
			}
			if !(p.cur().Kind == TokOp && p.cur().Op == OpRBracket) {
				return 0, &ParseError{Kind: ParseUnmatchedBracket, Pos: p.cur().Pos, Msg: "expected closing ']'"}
			}
			p.advance()
			lhs = p.pool.InternValue(ValueExpression{Kind: ExprIndex, Lhs: lhs, Idx: idx})
		default:
			return lhs, nil
		}
	}
}

func (p *exprParser) parseArgs() ([]ValueID, error) {
	var args []ValueID
	if p.cur().Kind == TokOp && p.cur().Op == OpRParen {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.expr(precAssign)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().Kind == TokOp && p.cur().Op == OpComma {
			p.advance()
			if p.cur().Kind == TokOp && p.cur().Op == OpRParen {
				break // tolerate trailing comma
			}
			continue
		}
		break
	}
	if !(p.cur().Kind == TokOp && p.cur().Op == OpRParen) {
		return nil, &ParseError{Kind: ParseUnmatchedBracket, Pos: p.cur().Pos, Msg: "expected closing ')'"}
	}
	p.advance()
	return args, nil
}

func (p *exprParser) parseList() (ValueID, error) {
	p.advance() // '['
	var items []ValueID
	if p.cur().Kind == TokOp && p.cur().Op == OpRBracket {
		p.advance()
		return p.pool.InternValue(ValueExpression{Kind: ExprList, Items: items}), nil
	}
	for {
		item, err := p.expr(precAssign)
		if err != nil {
			return 0, err
		}
		items = append(items, item)
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
		return 0, &ParseError{Kind: ParseUnmatchedBracket, Pos: p.cur().Pos, Msg: "expected closing ']'"}
	}
	p.advance()
	return p.pool.InternValue(ValueExpression{Kind: ExprList, Items: items}), nil
}

func (p *exprParser) parseMap() (ValueID, error) {
	p.advance() // '{'
	var pairs []MapEntry
	if p.cur().Kind == TokOp && p.cur().Op == OpRBrace {
		p.advance()
		return p.pool.InternValue(ValueExpression{Kind: ExprMap, Pairs: pairs}), nil
	}
	for {
		key, err := p.expr(precAssign)
		if err != nil {
			return 0, err
		}
		if !(p.cur().Kind == TokOp && p.cur().Op == OpColon) {
			return 0, &ParseError{Kind: ParseUnexpectedToken, Pos: p.cur().Pos, Msg: "expected ':' in map literal"}
		}
		p.advance()
		val, err := p.expr(precAssign)
		if err != nil {
			return 0, err
		}
		pairs = append(pairs, MapEntry{Key: key, Val: val})
		if p.cur().Kind == TokOp && p.cur().Op == OpComma {
			p.advance()
			if p.cur().Kind == TokOp && p.cur().Op == OpRBrace {
				break
			}
			continue
		}
		break
	}
	if !(p.cur().Kind == TokOp && p.cur().Op == OpRBrace) {
		return 0, &ParseError{Kind: ParseUnexpectedToken, Pos: p.cur().Pos, Msg: "expected closing '}'"}
	}
	p.advance()
	return p.pool.InternValue(ValueExpression{Kind: ExprMap, Pairs: pairs}), nil
}
