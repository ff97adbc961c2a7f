package theme

import (
	"testing"

	"github.com/dshills/glint/internal/token"
)

func TestDefaultDarkStyles(t *testing.T) {
	th := DefaultDark()

	if th.Name != "default-dark" {
		t.Errorf("Name = %q, want 'default-dark'", th.Name)
	}

	s := th.StyleFor(token.KindKeyword)
	if !s.HasFg {
		t.Error("keyword style has no foreground")
	}

	c := th.StyleFor(token.KindComment)
	if !c.Italic {
		t.Error("comment style should be italic")
	}
}

func TestStyleForFallback(t *testing.T) {
	th := DefaultDark()

	s := th.StyleFor(token.KindWhitespace)
	if !s.HasFg {
		t.Fatal("fallback style has no foreground")
	}
	if s.Foreground != th.Foreground {
		t.Error("fallback foreground differs from theme default")
	}
}

func TestLoadJSON(t *testing.T) {
	data := []byte(`{
		"name": "test",
		"foreground": "#ffffff",
		"background": "#000000",
		"tokens": {
			"keyword": "#ff0000",
			"comment": {"fg": "#00ff00", "italic": true},
			"string": {"fg": "#0000ff", "bg": "#111111", "bold": true}
		}
	}`)

	th, err := LoadJSON(data)
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}

	if th.Name != "test" {
		t.Errorf("Name = %q, want 'test'", th.Name)
	}

	kw := th.StyleFor(token.KindKeyword)
	if !kw.HasFg || kw.Foreground.Hex() != "#ff0000" {
		t.Errorf("keyword fg = %v, want #ff0000", kw.Foreground.Hex())
	}

	cm := th.StyleFor(token.KindComment)
	if !cm.Italic {
		t.Error("comment should be italic")
	}

	st := th.StyleFor(token.KindString)
	if !st.HasBg || !st.Bold {
		t.Error("string style lost bg or bold")
	}
}

func TestLoadJSONRejectsUnknownKind(t *testing.T) {
	data := []byte(`{"tokens": {"notakind": "#ff0000"}}`)
	if _, err := LoadJSON(data); err == nil {
		t.Error("LoadJSON() should reject unknown token kinds")
	}
}

func TestLoadJSONRejectsBadColor(t *testing.T) {
	data := []byte(`{"tokens": {"keyword": "red"}}`)
	if _, err := LoadJSON(data); err == nil {
		t.Error("LoadJSON() should reject non-hex colors")
	}
}

func TestLoadJSONRejectsInvalidJSON(t *testing.T) {
	if _, err := LoadJSON([]byte(`{nope`)); err == nil {
		t.Error("LoadJSON() should reject malformed JSON")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	orig := DefaultDark()

	data, err := SaveJSON(orig)
	if err != nil {
		t.Fatalf("SaveJSON() error = %v", err)
	}

	loaded, err := LoadJSON(data)
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}

	if loaded.Name != orig.Name {
		t.Errorf("Name = %q, want %q", loaded.Name, orig.Name)
	}
	if len(loaded.Kinds) != len(orig.Kinds) {
		t.Fatalf("kind count = %d, want %d", len(loaded.Kinds), len(orig.Kinds))
	}
	for kind, want := range orig.Kinds {
		got, ok := loaded.Kinds[kind]
		if !ok {
			t.Errorf("kind %v missing after round trip", kind)
			continue
		}
		if got.HasFg != want.HasFg || got.Bold != want.Bold ||
			got.Italic != want.Italic || got.Underline != want.Underline {
			t.Errorf("kind %v style flags changed: %+v != %+v", kind, got, want)
		}
		if got.HasFg && got.Foreground.Hex() != want.Foreground.Hex() {
			t.Errorf("kind %v fg = %s, want %s", kind, got.Foreground.Hex(), want.Foreground.Hex())
		}
	}
}
