// Command latticedemo is a runnable bubbletea program: it compiles a
// small template, loads a theme.yaml palette, and drives the frame
// loop until the user quits.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/latticetui/lattice"
	"github.com/latticetui/lattice/internal/termio"
	"github.com/latticetui/lattice/internal/widgets"
)

const demoSource = `vstack [padding: 1]
  border [foreground: "accent"]
    text [text-align: "centre"] "lattice demo"
  text {{status}}
  for item in items
    hstack
      span "- "
      span {{item}}
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "latticedemo:", err)
		os.Exit(1)
	}
}

func run() error {
	prog, err := lattice.Compile(demoSource)
	if err != nil {
		return fmt.Errorf("compile demo template: %w", err)
	}

	factory := lattice.NewFactory()
	widgets.RegisterDefaults(factory)

	queue := lattice.NewDirtyQueue()
	state := lattice.NewMapState(queue)
	state.Set(lattice.KeyPath("status"), "ready")
	state.Set(lattice.KeyPath("items"), []any{"alpha", "beta", "gamma"})

	theme := lattice.DefaultTheme()
	if data, err := os.ReadFile("theme.yaml"); err == nil {
		if t, err := lattice.LoadTheme(data); err == nil {
			theme = t
		}
	}

	rt := lattice.NewRuntime(prog, factory, state, queue, lattice.WithTheme(theme), lattice.WithMetrics(true))

	onKey := func(msg tea.KeyMsg) bool {
		if msg.String() == "r" {
			state.Set(lattice.KeyPath("status"), "refreshed")
			return true
		}
		return false
	}
	return termio.Run(rt, onKey)
}
