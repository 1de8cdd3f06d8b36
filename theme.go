package lattice

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Theme maps semantic color names (as used in template attributes like
// `foreground: "accent"`) to concrete lipgloss.Color values, loaded once at
// startup from a small YAML document — not persisted application
// state, so it carries no runtime mutation surface.
type Theme struct {
	Colors map[string]lipgloss.Color
}

// themeFile is the on-disk YAML shape: a flat map of name to a hex or
// ANSI color string, same shape lipgloss.Color already accepts.
type themeFile struct {
	Colors map[string]string `yaml:"colors"`
}

// LoadTheme parses a theme.yaml document into a Theme.
func LoadTheme(data []byte) (*Theme, error) {
	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("lattice: parse theme: %w", err)
	}
	t := &Theme{Colors: make(map[string]lipgloss.Color, len(tf.Colors))}
	for name, val := range tf.Colors {
		t.Colors[name] = lipgloss.Color(val)
	}
	return t, nil
}

// Resolve looks up name, falling back to treating name itself as a
// literal lipgloss color (hex or ANSI index) when it isn't a theme key
// — the same permissiveness spec.md's attribute model wants for a
// color attribute that may be either a palette name or a literal.
func (t *Theme) Resolve(name string) lipgloss.Color {
	if t != nil {
		if c, ok := t.Colors[name]; ok {
			return c
		}
	}
	return lipgloss.Color(name)
}

// DefaultTheme is used by widgets whose Context carries no Theme.
func DefaultTheme() *Theme {
	return &Theme{Colors: map[string]lipgloss.Color{
		"accent":    lipgloss.Color("63"),
		"muted":     lipgloss.Color("240"),
		"error":     lipgloss.Color("196"),
		"success":   lipgloss.Color("42"),
		"border":    lipgloss.Color("241"),
		"foreground": lipgloss.Color("252"),
		"background": lipgloss.Color("235"),
	}}
}
