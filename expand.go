package lattice

import "fmt"

// WidgetNodeKind tags the variant of a WidgetNode, mirroring the
// TemplateKind it was expanded from.
type WidgetNodeKind int

const (
	WNSingle WidgetNodeKind = iota
	WNLoop
	WNControlFlow
)

// WidgetNode is one node of the live tree the expansion engine (C9)
// maintains: a Template instantiated under one specific Scope, carrying
// enough state to be re-evaluated incrementally when its subscriptions
// fire.
type WidgetNode struct {
	ID    NodeID
	Kind  WidgetNodeKind
	Scope *Scope
	Tpl   *Template // the Template this node was expanded from

	// WNSingle
	Widget   Widget
	Children []*WidgetNode

	// WNControlFlow
	ArmBodies []*WidgetNode // flattened children of the currently active arm
	Active    int           // index into Tpl.Arms, -1 if no arm matched

	// WNLoop
	loopState loopRunState
	Instances [][]*WidgetNode // one flattened body expansion per live index
}

// loopPhase enumerates a Loop WidgetNode's scheduling state, per
// spec.md's Idle / Running(k, body_pos) state machine: Idle between
// frames once every live index has been expanded, Running while
// next() is still stepping through indices k = 0..len-1.
type loopPhase int

const (
	loopIdle loopPhase = iota
	loopRunning
)

type loopRunState struct {
	phase    loopPhase
	k        int // next index to expand, valid while phase == loopRunning
	bodyPos  int // position within Body reached for the in-progress index
	coll     Collection
}

// Engine drives both the fresh-evaluation and incremental-update
// expansion algorithms (C9) over a compiled Program's Template forest.
type Engine struct {
	factory *Factory
	pool    *Pool

	removed []NodeID // subtree roots dropped by Update since the last TakeRemoved
}

// NewEngine creates an expansion engine bound to factory for widget
// construction and pool for resolving interned Attribute/Data/Cond ids.
func NewEngine(factory *Factory, pool *Pool) *Engine {
	return &Engine{factory: factory, pool: pool}
}

// revokeSubtree records each node's own id as having left the live tree.
// SubscriptionRegistry.Revoke treats a NodeID as a prefix, so recording
// only the subtree's root is enough to release every descendant's
// subscriptions too.
func (e *Engine) revokeSubtree(nodes []*WidgetNode) {
	for _, n := range nodes {
		e.removed = append(e.removed, n.ID)
	}
}

// TakeRemoved drains the NodeIDs of subtrees Update has dropped (arm
// switches, loop removes/clears/rewalks) since the last call. A Runtime
// calls this once per Tick, after applying the dirty queue and before
// the next frame begins, passing each id to the State's Revoke if it
// implements Revoker.
func (e *Engine) TakeRemoved() []NodeID {
	if len(e.removed) == 0 {
		return nil
	}
	out := e.removed
	e.removed = nil
	return out
}

// Expand performs a fresh, complete evaluation of roots under ctx,
// producing the live WidgetNode forest per spec.md §4.9. It is the
// batch form of the cooperative next() stepping contract: internally it
// drives every top-level step to completion before returning, which is
// indistinguishable from stepping one-by-one since nothing observes the
// intermediate states of a first expansion.
func (e *Engine) Expand(ctx Context, roots []*Template) ([]*WidgetNode, error) {
	return e.expandSiblings(ctx, roots, Root())
}

func (e *Engine) expandSiblings(ctx Context, tpls []*Template, parent NodeID) ([]*WidgetNode, error) {
	out := make([]*WidgetNode, 0, len(tpls))
	for i, tpl := range tpls {
		id := parent.Child(i)
		wn, err := e.expandOne(ctx, tpl, id)
		if err != nil {
			// A failing child is not inserted; prior siblings (and their
			// already-recorded subscriptions) are left exactly as built.
			return out, err
		}
		if wn != nil {
			out = append(out, wn)
		}
	}
	return out, nil
}

func (e *Engine) expandOne(ctx Context, tpl *Template, id NodeID) (*WidgetNode, error) {
	switch tpl.Kind {
	case TplNode:
		return e.expandNode(ctx, tpl, id)
	case TplLoop:
		return e.expandLoop(ctx, tpl, id)
	case TplControlFlow:
		return e.expandControlFlow(ctx, tpl, id)
	case TplView:
		// A View reference is resolved by the caller supplying the
		// referenced Program's Roots in its place; the bare ViewName
		// carries no widget of its own.
		return nil, nil
	default:
		return nil, fmt.Errorf("expand: unknown template kind %d", tpl.Kind)
	}
}

func (e *Engine) expandNode(ctx Context, tpl *Template, id NodeID) (*WidgetNode, error) {
	nodeCtx := Context{State: ctx.State, Scope: ctx.Scope, Node: id}

	attrs := make(map[string]ValueReference, len(tpl.Attributes))
	for _, a := range tpl.Attributes {
		v, ok := evalValue(nodeCtx, a.Expr, e.pool)
		if !ok {
			continue
		}
		attrs[e.pool.LookupString(a.Key)] = v
	}

	var text *string
	if tpl.Text != nil {
		s := e.resolveText(nodeCtx, *tpl.Text)
		text = &s
	}

	kind := e.pool.LookupString(tpl.Ident)
	w, err := e.factory.Create(kind, attrs, text, id, nodeCtx)
	if err != nil {
		return nil, err
	}

	children, err := e.expandSiblings(nodeCtx, tpl.Children, id)
	if err != nil {
		return nil, err
	}

	return &WidgetNode{ID: id, Kind: WNSingle, Scope: ctx.Scope, Tpl: tpl, Widget: w, Children: children}, nil
}

// resolveText concatenates a TextID's fragments, evaluating each
// interpolated ValueID against ctx and rendering scalars with fmt.
func (e *Engine) resolveText(ctx Context, id TextID) string {
	frags := e.pool.LookupText(id)
	out := make([]byte, 0, 32)
	for _, f := range frags {
		if f.Literal {
			out = append(out, e.pool.LookupString(f.String)...)
			continue
		}
		v, ok := evalValue(ctx, f.Expr, e.pool)
		if !ok {
			continue
		}
		out = append(out, renderRef(v)...)
	}
	return string(out)
}

func renderRef(v ValueReference) string {
	switch v.Kind {
	case RefScalar:
		switch v.Scalar.Kind {
		case OwnedBool:
			if v.Scalar.Bool {
				return "true"
			}
			return "false"
		case OwnedInt:
			return fmt.Sprintf("%d", v.Scalar.Int)
		case OwnedUint:
			return fmt.Sprintf("%d", v.Scalar.Uint)
		case OwnedFloat:
			return fmt.Sprintf("%g", v.Scalar.Float)
		case OwnedColor:
			return fmt.Sprintf("#%02x%02x%02x", v.Scalar.Color[0], v.Scalar.Color[1], v.Scalar.Color[2])
		}
	case RefStringSlice:
		return v.StringVal
	}
	return ""
}

// expandControlFlow evaluates each arm's condition in order (a bare
// else, HasCond == false, always matches) and expands only the first
// matching arm's body. Each evaluated condition is recorded against the
// ControlFlow node's own id, so a later mutation to it re-triggers
// re-selection even though only one arm's children exist at a time.
// Evaluation stops at the first matching arm: the conditions of the arms
// after it are not evaluated and so are not recorded.
func (e *Engine) expandControlFlow(ctx Context, tpl *Template, id NodeID) (*WidgetNode, error) {
	armCtx := Context{State: ctx.State, Scope: ctx.Scope, Node: id}
	active := -1
	for i, arm := range tpl.Arms {
		if !arm.HasCond {
			active = i
			break
		}
		v, ok := evalValue(armCtx, arm.Cond, e.pool)
		if ok && v.IsTrue() {
			active = i
			break
		}
	}
	wn := &WidgetNode{ID: id, Kind: WNControlFlow, Scope: ctx.Scope, Tpl: tpl, Active: active}
	if active < 0 {
		return wn, nil
	}
	body, err := e.expandSiblings(ctx, tpl.Arms[active].Body, id)
	if err != nil {
		return nil, err
	}
	wn.ArmBodies = body
	return wn, nil
}

// expandLoop resolves the loop's data expression to a Collection,
// subscribing the loop node to it, then expands the body once per
// index, each iteration's Scope child binding Binding to that index's
// element. A fresh expansion always leaves the loop in loopIdle: every
// index has been produced by the time Expand returns.
func (e *Engine) expandLoop(ctx Context, tpl *Template, id NodeID) (*WidgetNode, error) {
	loopCtx := Context{State: ctx.State, Scope: ctx.Scope, Node: id}
	coll, err := resolveCollection(loopCtx, tpl.Data, e.pool, id)
	if err != nil {
		return nil, err
	}
	wn := &WidgetNode{ID: id, Kind: WNLoop, Scope: ctx.Scope, Tpl: tpl, loopState: loopRunState{phase: loopIdle, coll: coll}}
	n := coll.Len()
	wn.Instances = make([][]*WidgetNode, n)
	binding := e.pool.LookupString(tpl.Binding)
	for k := 0; k < n; k++ {
		elem, _ := coll.Get(k)
		childScope := ctx.Scope.Child()
		childScope.Bind(binding, valueRefToScopeValue(elem))
		iterCtx := Context{State: ctx.State, Scope: childScope, Node: id}
		instance, err := e.expandSiblings(iterCtx, tpl.Body, id.Child(k))
		if err != nil {
			return wn, err
		}
		wn.Instances[k] = instance
	}
	return wn, nil
}

// resolveCollection evaluates a Loop's Data expression into the
// Collection capability it iterates. A literal list expression (C2's
// ExprList) is fixed-length by construction; anything else must resolve
// to a RefCollection or RefStaticList through State, in which case the
// loop node subscribes to future structural changes.
func resolveCollection(ctx Context, dataID ValueID, pool *Pool, loopID NodeID) (Collection, error) {
	expr := pool.LookupValue(dataID)
	if expr.Kind == ExprList {
		items := make([]ValueReference, len(expr.Items))
		for i, itemID := range expr.Items {
			v, _ := evalValue(ctx, itemID, pool)
			items[i] = v
		}
		return newStaticCollection(items), nil
	}
	v, ok := evalValue(ctx, dataID, pool)
	if !ok {
		return newStaticCollection(nil), nil
	}
	switch v.Kind {
	case RefCollection:
		if v.Collection != nil {
			v.Collection.Subscribe(loopID)
		}
		return v.Collection, nil
	case RefStaticList:
		items := make([]ValueReference, len(v.StaticList))
		for i, id := range v.StaticList {
			items[i], _ = evalValue(ctx, id, pool)
		}
		return newStaticCollection(items), nil
	default:
		return newStaticCollection(nil), nil
	}
}

// Next advances a Loop WidgetNode's state machine by one step,
// expanding exactly one index's body per call and transitioning
// loopRunning -> loopIdle once every live index has been produced. It
// is the cooperative counterpart to the batch expandLoop used for a
// node's first expansion, exercised when a loop is being rebuilt in
// place (e.g. its Collection's length changed) incrementally rather
// than all at once.
func (e *Engine) Next(ctx Context, wn *WidgetNode) (bool, error) {
	if wn.Kind != WNLoop {
		return false, fmt.Errorf("expand: Next called on non-loop node %s", wn.ID)
	}
	st := &wn.loopState
	if st.phase == loopIdle {
		return false, nil
	}
	if st.k >= st.coll.Len() {
		st.phase = loopIdle
		return false, nil
	}
	elem, _ := st.coll.Get(st.k)
	binding := e.pool.LookupString(wn.Tpl.Binding)
	childScope := wn.Scope.Child()
	childScope.Bind(binding, valueRefToScopeValue(elem))
	iterCtx := Context{State: ctx.State, Scope: childScope, Node: wn.ID}
	instance, err := e.expandSiblings(iterCtx, wn.Tpl.Body, wn.ID.Child(st.k))
	if err != nil {
		return true, err
	}
	if st.k < len(wn.Instances) {
		wn.Instances[st.k] = instance
	} else {
		wn.Instances = append(wn.Instances, instance)
	}
	st.k++
	st.bodyPos = 0
	if st.k >= st.coll.Len() {
		st.phase = loopIdle
	}
	return st.phase == loopRunning, nil
}

// reset rewinds a Loop WidgetNode to loopRunning at index 0, used by
// Update on a Modified change, when the loop must be re-walked from
// scratch.
func (wn *WidgetNode) reset(coll Collection) {
	wn.loopState = loopRunState{phase: loopRunning, k: 0, coll: coll}
	wn.Instances = wn.Instances[:0]
}

// Update applies one DirtyEntry to the live tree rooted at roots,
// locating the affected node by NodeID and re-running whichever partial
// re-evaluation its kind requires: a ControlFlow re-selects its active
// arm, a Loop splices its instances for Push/Insert/Remove/Swap/Clear
// and re-walks its data from scratch otherwise, and anything else re-runs
// expandNode's attribute/text resolution in place. Prior siblings and
// their subscriptions are untouched when the located node's own
// re-expansion fails.
func (e *Engine) Update(ctx Context, roots []*WidgetNode, entry DirtyEntry) error {
	wn := findNode(roots, entry.Node)
	if wn == nil {
		return nil // node was removed since the entry was queued
	}
	switch wn.Kind {
	case WNControlFlow:
		return e.updateControlFlow(ctx, wn)
	case WNLoop:
		return e.updateLoop(ctx, wn, entry)
	case WNSingle:
		return e.updateSingle(ctx, wn)
	default:
		return nil
	}
}

func findNode(nodes []*WidgetNode, id NodeID) *WidgetNode {
	for _, n := range nodes {
		if n.ID.Equal(id) {
			return n
		}
		var child []*WidgetNode
		switch n.Kind {
		case WNSingle:
			child = n.Children
		case WNControlFlow:
			child = n.ArmBodies
		case WNLoop:
			for _, inst := range n.Instances {
				if found := findNode(inst, id); found != nil {
					return found
				}
			}
			continue
		}
		if found := findNode(child, id); found != nil {
			return found
		}
	}
	return nil
}

func (e *Engine) updateControlFlow(ctx Context, wn *WidgetNode) error {
	armCtx := Context{State: ctx.State, Scope: wn.Scope, Node: wn.ID}
	active := -1
	for i, arm := range wn.Tpl.Arms {
		if !arm.HasCond {
			active = i
			break
		}
		v, ok := evalValue(armCtx, arm.Cond, e.pool)
		if ok && v.IsTrue() {
			active = i
			break
		}
	}
	if active == wn.Active {
		return nil // same arm re-selected: leave existing subscriptions alone
	}
	e.revokeSubtree(wn.ArmBodies)
	wn.Active = active
	wn.ArmBodies = nil
	if active < 0 {
		return nil
	}
	body, err := e.expandSiblings(Context{State: ctx.State, Scope: wn.Scope, Node: wn.ID}, wn.Tpl.Arms[active].Body, wn.ID)
	if err != nil {
		return err
	}
	wn.ArmBodies = body
	return nil
}

func (e *Engine) updateLoop(ctx Context, wn *WidgetNode, entry DirtyEntry) error {
	coll := wn.loopState.coll
	switch entry.Change.Kind {
	case ChangePush, ChangeInsert:
		i := entry.Change.I
		elem, _ := coll.Get(i)
		binding := e.pool.LookupString(wn.Tpl.Binding)
		childScope := wn.Scope.Child()
		childScope.Bind(binding, valueRefToScopeValue(elem))
		iterCtx := Context{State: ctx.State, Scope: childScope, Node: wn.ID}
		instance, err := e.expandSiblings(iterCtx, wn.Tpl.Body, wn.ID.Child(i))
		if err != nil {
			return err
		}
		if i >= len(wn.Instances) {
			wn.Instances = append(wn.Instances, instance)
		} else {
			wn.Instances = append(wn.Instances, nil)
			copy(wn.Instances[i+1:], wn.Instances[i:])
			wn.Instances[i] = instance
		}
		return nil
	case ChangeRemove:
		i := entry.Change.I
		if i < 0 || i >= len(wn.Instances) {
			return nil
		}
		e.revokeSubtree(wn.Instances[i])
		wn.Instances = append(wn.Instances[:i], wn.Instances[i+1:]...)
		return nil
	case ChangeSwap:
		i, j := entry.Change.I, entry.Change.J
		if i >= 0 && j >= 0 && i < len(wn.Instances) && j < len(wn.Instances) {
			wn.Instances[i], wn.Instances[j] = wn.Instances[j], wn.Instances[i]
		}
		return nil
	case ChangeClear:
		for _, inst := range wn.Instances {
			e.revokeSubtree(inst)
		}
		wn.Instances = nil
		return nil
	default: // ChangeModified, or an unrecognized kind: re-resolve the data and re-walk every index
		for _, inst := range wn.Instances {
			e.revokeSubtree(inst)
		}
		loopCtx := Context{State: ctx.State, Scope: wn.Scope, Node: wn.ID}
		fresh, err := resolveCollection(loopCtx, wn.Tpl.Data, e.pool, wn.ID)
		if err != nil {
			return err
		}
		wn.reset(fresh)
		for wn.loopState.phase == loopRunning {
			if _, err := e.Next(ctx, wn); err != nil {
				return err
			}
		}
		return nil
	}
}

func (e *Engine) updateSingle(ctx Context, wn *WidgetNode) error {
	nodeCtx := Context{State: ctx.State, Scope: wn.Scope, Node: wn.ID}
	attrs := make(map[string]ValueReference, len(wn.Tpl.Attributes))
	for _, a := range wn.Tpl.Attributes {
		v, ok := evalValue(nodeCtx, a.Expr, e.pool)
		if !ok {
			continue
		}
		attrs[e.pool.LookupString(a.Key)] = v
	}
	var text *string
	if wn.Tpl.Text != nil {
		s := e.resolveText(nodeCtx, *wn.Tpl.Text)
		text = &s
	}
	kind := e.pool.LookupString(wn.Tpl.Ident)
	w, err := e.factory.Create(kind, attrs, text, wn.ID, nodeCtx)
	if err != nil {
		return err
	}
	wn.Widget = w
	return nil
}
