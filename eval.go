package lattice

// eval.go implements C7/C8's read side: turning a ValueExpression tree
// (already parsed and optimized into the Template's Attribute/Data/Cond
// ids) into a ValueReference under a Context, recording subscriptions
// against ctx.Node for every State.Get call along the way.

// evalValue resolves id against ctx, walking Member/Index chains down
// to State.Get so that the subscription recorded is the exact leaf path
// requested rather than some coarser ancestor.
func evalValue(ctx Context, id ValueID, pool *Pool) (ValueReference, bool) {
	expr := pool.LookupValue(id)
	switch expr.Kind {
	case ExprIdent:
		name := pool.LookupString(expr.Ident)
		if sv, ok := ctx.Scope.Lookup(name); ok {
			return scopeValueToRef(ctx, sv)
		}
		return ctx.State.Get(KeyPath(name), &ctx.Node)

	case ExprString:
		return RefFromString(pool.LookupString(expr.Str)), true

	case ExprOwned:
		return RefFromOwned(expr.Owned), true

	case ExprList:
		return RefFromStaticList(expr.Items), true

	case ExprMap:
		// Map literals are parsed (C2) but have no evaluated ValueReference
		// shape in the data model; nothing in the widget attribute or
		// condition surface consumes one.
		return ValueReference{}, false

	case ExprUnary:
		v, ok := evalValue(ctx, expr.Lhs, pool)
		if !ok {
			return ValueReference{}, false
		}
		switch expr.UnOp {
		case UnaryNot:
			return RefFromOwned(OwnedFromBool(!v.IsTrue())), true
		case UnaryNeg:
			if v.Kind != RefScalar {
				return ValueReference{}, false
			}
			return RefFromOwned(OwnedFromFloat(-v.Scalar.AsFloat())), true
		}
		return ValueReference{}, false

	case ExprBinary:
		return evalBinary(ctx, expr, pool)

	case ExprMember:
		if path, ok := exprPath(ctx, id, pool); ok {
			return ctx.State.Get(path, &ctx.Node)
		}
		return ValueReference{}, false

	case ExprIndex:
		if path, ok := exprPath(ctx, id, pool); ok {
			return ctx.State.Get(path, &ctx.Node)
		}
		return evalIndexFallback(ctx, expr, pool)

	case ExprCall:
		// No builtin function surface is defined; calls never resolve.
		return ValueReference{}, false
	}
	return ValueReference{}, false
}

// exprPath attempts to compose id into a single Path reachable from
// State, succeeding only when every step of the chain is itself a path
// step: an Ident not shadowed by a non-Dyn scope binding, a Member, or
// an Index whose subscript evaluates to a concrete non-negative integer.
func exprPath(ctx Context, id ValueID, pool *Pool) (Path, bool) {
	expr := pool.LookupValue(id)
	switch expr.Kind {
	case ExprIdent:
		name := pool.LookupString(expr.Ident)
		if sv, ok := ctx.Scope.Lookup(name); ok {
			if sv.Kind == ScopeDyn {
				return sv.Dyn, true
			}
			return Path{}, false
		}
		return KeyPath(name), true

	case ExprMember:
		base, ok := exprPath(ctx, expr.Lhs, pool)
		if !ok {
			return Path{}, false
		}
		return Compose(base, KeyPath(pool.LookupString(expr.Member))), true

	case ExprIndex:
		base, ok := exprPath(ctx, expr.Lhs, pool)
		if !ok {
			return Path{}, false
		}
		idxVal, ok := evalValue(ctx, expr.Idx, pool)
		if !ok || idxVal.Kind != RefScalar {
			return Path{}, false
		}
		f := idxVal.Scalar.AsFloat()
		if f < 0 {
			return Path{}, false
		}
		return Compose(base, IndexPath(uint64(f))), true

	default:
		return Path{}, false
	}
}

// evalIndexFallback handles `expr[idx]` when expr did not resolve to a
// State-reachable Path (its base is a scope-bound static list or an
// already-evaluated Collection/StaticList value).
func evalIndexFallback(ctx Context, expr ValueExpression, pool *Pool) (ValueReference, bool) {
	lhs, ok := evalValue(ctx, expr.Lhs, pool)
	if !ok {
		return ValueReference{}, false
	}
	idxVal, ok := evalValue(ctx, expr.Idx, pool)
	if !ok || idxVal.Kind != RefScalar {
		return ValueReference{}, false
	}
	i := int(idxVal.Scalar.AsFloat())
	switch lhs.Kind {
	case RefStaticList:
		if i < 0 || i >= len(lhs.StaticList) {
			return ValueReference{}, false
		}
		return evalValue(ctx, lhs.StaticList[i], pool)
	case RefCollection:
		if lhs.Collection == nil {
			return ValueReference{}, false
		}
		return lhs.Collection.Get(i)
	case RefStringSlice:
		r := []rune(lhs.StringVal)
		if i < 0 || i >= len(r) {
			return ValueReference{}, false
		}
		return RefFromString(string(r[i])), true
	default:
		return ValueReference{}, false
	}
}

func evalBinary(ctx Context, expr ValueExpression, pool *Pool) (ValueReference, bool) {
	switch expr.BinOp {
	case BinAnd:
		l, ok := evalValue(ctx, expr.Lhs, pool)
		if !ok || !l.IsTrue() {
			return RefFromOwned(OwnedFromBool(false)), true
		}
		r, ok := evalValue(ctx, expr.Rhs, pool)
		return RefFromOwned(OwnedFromBool(ok && r.IsTrue())), true
	case BinOr:
		l, ok := evalValue(ctx, expr.Lhs, pool)
		if ok && l.IsTrue() {
			return RefFromOwned(OwnedFromBool(true)), true
		}
		r, ok := evalValue(ctx, expr.Rhs, pool)
		return RefFromOwned(OwnedFromBool(ok && r.IsTrue())), true
	}

	l, lok := evalValue(ctx, expr.Lhs, pool)
	r, rok := evalValue(ctx, expr.Rhs, pool)

	switch expr.BinOp {
	case BinEq:
		return RefFromOwned(OwnedFromBool(lok && rok && l.Equal(r))), true
	case BinNeq:
		return RefFromOwned(OwnedFromBool(!(lok && rok && l.Equal(r)))), true
	}

	if !lok || !rok || l.Kind != RefScalar || r.Kind != RefScalar {
		return ValueReference{}, false
	}
	a, b := l.Scalar.AsFloat(), r.Scalar.AsFloat()
	switch expr.BinOp {
	case BinAdd:
		return RefFromOwned(OwnedFromFloat(a + b)), true
	case BinSub:
		return RefFromOwned(OwnedFromFloat(a - b)), true
	case BinMul:
		return RefFromOwned(OwnedFromFloat(a * b)), true
	case BinDiv:
		if b == 0 {
			return ValueReference{}, false
		}
		return RefFromOwned(OwnedFromFloat(a / b)), true
	case BinMod:
		if b == 0 {
			return ValueReference{}, false
		}
		return RefFromOwned(OwnedFromFloat(float64(int64(a) % int64(b)))), true
	case BinLt:
		return RefFromOwned(OwnedFromBool(a < b)), true
	case BinLte:
		return RefFromOwned(OwnedFromBool(a <= b)), true
	case BinGt:
		return RefFromOwned(OwnedFromBool(a > b)), true
	case BinGte:
		return RefFromOwned(OwnedFromBool(a >= b)), true
	}
	return ValueReference{}, false
}

// scopeValueToRef lowers a bound ScopeValue into the ValueReference
// borrowed-view shape, resolving ScopeDyn through State (and so
// recording a subscription) and recursing through nested ScopeLists.
func scopeValueToRef(ctx Context, sv ScopeValue) (ValueReference, bool) {
	switch sv.Kind {
	case ScopeStatic:
		return RefFromString(sv.Static), true
	case ScopeOwned:
		return RefFromOwned(sv.Owned), true
	case ScopeDyn:
		return ctx.State.Get(sv.Dyn, &ctx.Node)
	case ScopeCollection:
		return RefFromCollection(sv.Coll), true
	case ScopeList:
		items := make([]ValueReference, len(sv.List))
		for i, e := range sv.List {
			items[i], _ = scopeValueToRef(ctx, e)
		}
		return RefFromCollection(newStaticCollection(items)), true
	default:
		return ValueReference{}, false
	}
}

// valueRefToScopeValue lifts a resolved ValueReference back into a
// ScopeValue so a Loop can bind its per-iteration variable to a
// Collection element without losing the element's shape.
func valueRefToScopeValue(v ValueReference) ScopeValue {
	switch v.Kind {
	case RefScalar:
		return ScopeValue{Kind: ScopeOwned, Owned: v.Scalar}
	case RefStringSlice:
		return ScopeValue{Kind: ScopeStatic, Static: v.StringVal}
	case RefCollection:
		return ScopeValue{Kind: ScopeCollection, Coll: v.Collection}
	case RefStaticList:
		return ScopeValue{Kind: ScopeStatic}
	default:
		return ScopeValue{}
	}
}
