package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glint.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
debounce_delay_ms = 100
viewport_threshold = 200

[viewer]
tab_width = 8
theme = "dark.json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Engine.DebounceDelay != 100 {
		t.Errorf("DebounceDelay = %d, want 100", cfg.Engine.DebounceDelay)
	}
	if cfg.Engine.ViewportThreshold != 200 {
		t.Errorf("ViewportThreshold = %d, want 200", cfg.Engine.ViewportThreshold)
	}
	// Unset keys keep their defaults.
	if cfg.Engine.ViewportBuffer != 50 {
		t.Errorf("ViewportBuffer = %d, want default 50", cfg.Engine.ViewportBuffer)
	}
	if cfg.Viewer.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want 8", cfg.Viewer.TabWidth)
	}
	if cfg.Viewer.Theme != "dark.json" {
		t.Errorf("Theme = %q, want 'dark.json'", cfg.Viewer.Theme)
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeConfig(t, `[engine`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should fail on malformed TOML")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative debounce", "[engine]\ndebounce_delay_ms = -1\n"},
		{"zero threshold", "[engine]\nviewport_threshold = 0\n"},
		{"negative buffer", "[engine]\nviewport_buffer = -5\n"},
		{"zero frame interval", "[engine]\nframe_interval_ms = 0\n"},
		{"zero tab width", "[viewer]\ntab_width = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() should reject invalid value")
			}
		})
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := Default()

	if got := cfg.DebounceDelay(); got != 50*time.Millisecond {
		t.Errorf("DebounceDelay() = %v, want 50ms", got)
	}
	if got := cfg.FrameInterval(); got != 16*time.Millisecond {
		t.Errorf("FrameInterval() = %v, want 16ms", got)
	}
}
