// Package termio adapts a lattice.Runtime to a bubbletea program: the
// terminal backend (raw mode, cursor, screen buffer, resize events)
// spec.md treats as an external collaborator the core never implements
// itself.
package termio

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/latticetui/lattice"
)

// KeyHandler translates a bubbletea key message into a state mutation.
// Model.Update handles the quit keys (q, ctrl+c) before calling it and
// re-ticks the runtime after every message; the returned bool is not
// consulted.
type KeyHandler func(msg tea.KeyMsg) bool

// Model is a tea.Model driving one lattice.Runtime: every Update call
// re-ticks the runtime and stores the rendered frame for View.
type Model struct {
	rt      *lattice.Runtime
	onKey   KeyHandler
	frame   string
	lastErr error
}

// NewModel wraps rt. onKey may be nil, in which case only window
// resizes and the quit keys (q, ctrl+c) are handled.
func NewModel(rt *lattice.Runtime, onKey KeyHandler) *Model {
	return &Model{rt: rt, onKey: onKey}
}

func (m *Model) Init() tea.Cmd {
	if err := m.rt.Start(); err != nil {
		m.lastErr = err
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.rt.Resize(lattice.Size{W: msg.Width, H: msg.Height})
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		if m.onKey != nil {
			m.onKey(msg)
		}
	}
	frame, _, err := m.rt.Tick()
	if err != nil {
		m.lastErr = err
		return m, nil
	}
	m.frame = frame
	return m, nil
}

func (m *Model) View() string {
	if m.lastErr != nil {
		return "lattice: " + m.lastErr.Error()
	}
	return m.frame
}

// Run starts a bubbletea program driving rt until the user quits.
func Run(rt *lattice.Runtime, onKey KeyHandler) error {
	_, err := tea.NewProgram(NewModel(rt, onKey), tea.WithAltScreen()).Run()
	return err
}
