package lattice

import (
	"fmt"
	"sync"
)

// Size is a widget's width/height in terminal cells.
type Size struct {
	W, H int
}

// Point is an absolute screen offset assigned during the position pass.
type Point struct {
	X, Y int
}

// Widget is the capability every constructed node in the WidgetNode tree
// exposes: a kind tag, a layout pass that negotiates size against an
// available constraint, a position pass that receives its final
// top-left origin, and a paint pass that renders its own box to a
// string grid for the frame driver to composite.
type Widget interface {
	Kind() string
	Layout(avail Size) Size
	Position(origin Point)
	Paint() []string
}

// Constructor builds a Widget from its resolved attributes and
// (optional) text content. node is the WidgetNode's identity, available
// to widgets that subscribe to state themselves; the built-in widgets
// ignore it. ctx is the Context the node was expanded under.
type Constructor func(attrs map[string]ValueReference, text *string, node NodeID, ctx Context) (Widget, error)

// Factory is the process-wide kind→Constructor registry. Grounded on
// the teacher's mount registry: a mutex-guarded map keyed by a string
// identity, looked up once per construction rather than per frame.
type Factory struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewFactory creates an empty registry.
func NewFactory() *Factory {
	return &Factory{ctors: make(map[string]Constructor)}
}

// Register installs ctor for kind, overwriting any previous registration.
func (f *Factory) Register(kind string, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[kind] = ctor
}

// Create looks up kind and invokes its constructor. An unknown kind is
// an UnknownWidgetError, never a panic.
func (f *Factory) Create(kind string, attrs map[string]ValueReference, text *string, node NodeID, ctx Context) (Widget, error) {
	f.mu.RLock()
	ctor, ok := f.ctors[kind]
	f.mu.RUnlock()
	if !ok {
		return nil, &UnknownWidgetError{Kind: kind}
	}
	w, err := ctor(attrs, text, node, ctx)
	if err != nil {
		return nil, fmt.Errorf("construct %s at %s: %w", kind, node, err)
	}
	return w, nil
}
