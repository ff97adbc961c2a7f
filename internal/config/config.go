// Package config loads glint configuration from TOML files.
//
// Configuration is optional: a missing file yields the defaults, while a
// present but malformed file is reported as a ParseError.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all tunable settings.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Viewer ViewerConfig `toml:"viewer"`
}

// EngineConfig controls the highlight engine's scheduling behavior.
type EngineConfig struct {
	// DebounceDelay is how long the engine waits after a burst of edits
	// before tokenizing, in milliseconds.
	DebounceDelay int `toml:"debounce_delay_ms"`

	// ViewportThreshold is the document line count above which the engine
	// tokenizes the visible region first and the rest during idle time.
	ViewportThreshold int `toml:"viewport_threshold"`

	// ViewportBuffer is the number of extra lines tokenized above and
	// below the visible region.
	ViewportBuffer int `toml:"viewport_buffer"`

	// FrameInterval is the repaint alignment interval in milliseconds.
	FrameInterval int `toml:"frame_interval_ms"`
}

// ViewerConfig controls the terminal viewer.
type ViewerConfig struct {
	// Theme is a path to a JSON theme file. Empty selects the built-in
	// dark theme.
	Theme string `toml:"theme"`

	// TabWidth is the number of cells a tab expands to.
	TabWidth int `toml:"tab_width"`
}

// ParseError describes a configuration file that could not be parsed.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config file %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			DebounceDelay:     50,
			ViewportThreshold: 500,
			ViewportBuffer:    50,
			FrameInterval:     16,
		},
		Viewer: ViewerConfig{
			TabWidth: 4,
		},
	}
}

// Load reads configuration from path, merging values over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}

	return cfg, cfg.validate(path)
}

// validate rejects values the engine cannot operate with.
func (c *Config) validate(path string) error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Engine.DebounceDelay >= 0, "engine.debounce_delay_ms must not be negative"},
		{c.Engine.ViewportThreshold > 0, "engine.viewport_threshold must be positive"},
		{c.Engine.ViewportBuffer >= 0, "engine.viewport_buffer must not be negative"},
		{c.Engine.FrameInterval > 0, "engine.frame_interval_ms must be positive"},
		{c.Viewer.TabWidth > 0, "viewer.tab_width must be positive"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return &ParseError{Path: path, Message: ch.msg}
		}
	}
	return nil
}

// DebounceDelay returns the engine debounce delay as a duration.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Engine.DebounceDelay) * time.Millisecond
}

// FrameInterval returns the repaint alignment interval as a duration.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Engine.FrameInterval) * time.Millisecond
}
