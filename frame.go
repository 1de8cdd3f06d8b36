package lattice

import (
	"strings"
	"time"
)

// ChildSetter is implemented by composite widgets (hstack, vstack,
// zstack, border, expand, position, viewport) that need their expanded children's
// Widgets wired in after construction, since a Constructor only sees a
// node's own attributes and text — never its subtree.
type ChildSetter interface {
	SetChildren(children []Widget)
}

// FrameMeta reports the wall-clock cost of one Tick's phases, filled in
// only when Config.Metrics is enabled. Grounded on the teacher's
// internal/metrics collector: a flat struct of durations rather than a
// running aggregator, since a terminal frame loop reports per-frame, not
// cumulative, cost.
type FrameMeta struct {
	Layout   time.Duration
	Position time.Duration
	Paint    time.Duration
	Render   time.Duration
}

// Runtime owns a compiled Program's live WidgetNode forest and drives
// the per-frame drain → layout → position → paint → render cycle (C11).
type Runtime struct {
	program *Program
	factory *Factory
	engine  *Engine
	state   State
	queue   *DirtyQueue
	cfg     Config

	roots []*WidgetNode
	size  Size
}

// NewRuntime wires a compiled Program to a widget Factory, a State
// implementation, and the DirtyQueue that State mutations push into.
func NewRuntime(program *Program, factory *Factory, state State, queue *DirtyQueue, opts ...Option) *Runtime {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Runtime{
		program: program,
		factory: factory,
		engine:  NewEngine(factory, program.Pool),
		state:   state,
		queue:   queue,
		cfg:     cfg,
	}
}

// Start performs the first, fresh expansion of the Program's roots.
func (r *Runtime) Start() error {
	ctx := Context{State: r.state, Scope: NewScope(), Theme: r.cfg.Theme}
	roots, err := r.engine.Expand(ctx, r.program.Roots)
	if err != nil {
		return err
	}
	r.roots = roots
	return nil
}

// Resize updates the available screen size for the next Tick's layout
// pass, driven by termio's tea.WindowSizeMsg translation.
func (r *Runtime) Resize(size Size) {
	r.size = size
}

// Tick drains the dirty queue, applies each entry to the live tree,
// rewires composite widgets' children, then runs layout, position, and
// paint, returning the rendered frame and (if Config.Metrics is set)
// per-phase timings.
func (r *Runtime) Tick() (string, FrameMeta, error) {
	var meta FrameMeta
	ctx := Context{State: r.state, Theme: r.cfg.Theme}

	for _, entry := range r.queue.Drain() {
		if err := r.engine.Update(ctx, r.roots, entry); err != nil {
			if r.cfg.Logger != nil {
				r.cfg.Logger.Printf("lattice: update %s: %v", entry.Node, err)
			}
			continue
		}
	}

	if removed := r.engine.TakeRemoved(); len(removed) > 0 {
		if rev, ok := r.state.(Revoker); ok {
			for _, id := range removed {
				rev.Revoke(id)
			}
		}
	}

	rewireChildren(r.roots)

	top := flattenWidgets(r.roots)

	t0 := time.Now()
	for _, w := range top {
		w.Layout(r.size)
	}
	record(r.cfg.Metrics, &meta.Layout, t0)

	t1 := time.Now()
	origin := Point{}
	for _, w := range top {
		w.Position(origin)
	}
	record(r.cfg.Metrics, &meta.Position, t1)

	t2 := time.Now()
	var lines []string
	for _, w := range top {
		lines = append(lines, w.Paint()...)
	}
	record(r.cfg.Metrics, &meta.Paint, t2)

	t3 := time.Now()
	out := strings.Join(lines, "\n")
	record(r.cfg.Metrics, &meta.Render, t3)

	return out, meta, nil
}

func record(enabled bool, into *time.Duration, since time.Time) {
	if enabled {
		*into = time.Since(since)
	}
}

// flattenWidgets collects the Widgets of every WNSingle node reachable
// from nodes, in document order, treating WNControlFlow and WNLoop as
// transparent (they contribute their active arm's / instances' widgets
// directly rather than being widgets themselves).
func flattenWidgets(nodes []*WidgetNode) []Widget {
	var out []Widget
	for _, n := range nodes {
		switch n.Kind {
		case WNSingle:
			out = append(out, n.Widget)
		case WNControlFlow:
			out = append(out, flattenWidgets(n.ArmBodies)...)
		case WNLoop:
			for _, inst := range n.Instances {
				out = append(out, flattenWidgets(inst)...)
			}
		}
	}
	return out
}

// rewireChildren re-derives every composite Widget's flattened child
// list from the current WidgetNode tree. It is idempotent and cheap
// enough to run unconditionally once per Tick, so an incremental Update
// anywhere under a Single node never needs to separately track which
// ancestor's ChildSetter to re-invoke.
func rewireChildren(nodes []*WidgetNode) {
	for _, n := range nodes {
		switch n.Kind {
		case WNSingle:
			rewireChildren(n.Children)
			if cs, ok := n.Widget.(ChildSetter); ok {
				cs.SetChildren(flattenWidgets(n.Children))
			}
		case WNControlFlow:
			rewireChildren(n.ArmBodies)
		case WNLoop:
			for _, inst := range n.Instances {
				rewireChildren(inst)
			}
		}
	}
}
