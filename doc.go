// Package lattice compiles a small declarative template language into a
// reactive widget tree for terminal user interfaces.
//
// A source document is lexed, parsed, optimized, and assembled into a
// read-only Template forest (Compile). An Engine then expands that
// forest against a Context — a State implementation plus a Scope — into
// a live WidgetNode tree, either freshly (Engine.Expand) or
// incrementally as State mutations enqueue DirtyEntry values
// (Engine.Update). A Runtime wires a compiled Program, a Factory of
// widget constructors, and a State together and drives the per-frame
// drain/layout/position/paint cycle.
//
// Quick start:
//
//	prog, err := lattice.Compile(source)
//	factory := lattice.NewFactory()
//	widgets.RegisterDefaults(factory)
//	queue := lattice.NewDirtyQueue()
//	state := lattice.NewMapState(queue)
//	rt := lattice.NewRuntime(prog, factory, state, queue)
//	rt.Start()
//	frame, _, err := rt.Tick()
package lattice
