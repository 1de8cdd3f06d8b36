package lattice

import "log"

// Config holds Runtime's ambient settings, built from functional
// Options exactly the way the teacher's Template/Config pair is
// configured (WithParseFiles, WithDevMode, ...).
type Config struct {
	Logger  *log.Logger
	Metrics bool
	Theme   *Theme
}

func defaultConfig() Config {
	return Config{Logger: log.Default(), Theme: DefaultTheme()}
}

// Option mutates a Config during NewRuntime.
type Option func(*Config)

// WithLogger overrides the *log.Logger used for recovered per-frame
// update errors. A nil logger disables logging entirely.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMetrics enables FrameMeta timing collection on every Tick.
func WithMetrics(enabled bool) Option {
	return func(c *Config) { c.Metrics = enabled }
}

// WithTheme overrides the color palette widgets resolve attribute
// colors against.
func WithTheme(t *Theme) Option {
	return func(c *Config) { c.Theme = t }
}
