package theme

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/glint/internal/token"
)

// ErrInvalidTheme indicates a theme document that cannot be parsed.
var ErrInvalidTheme = errors.New("invalid theme")

// LoadJSON parses a theme document of the form:
//
//	{
//	  "name": "mytheme",
//	  "foreground": "#d4d4d4",
//	  "background": "#1e1e1e",
//	  "tokens": {
//	    "keyword": "#569cd6",
//	    "comment": {"fg": "#6a9955", "italic": true}
//	  }
//	}
//
// Token keys use the scope-style names from the token package; unknown
// names are rejected so typos do not silently drop styles.
func LoadJSON(data []byte) (*Theme, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidTheme)
	}
	doc := gjson.ParseBytes(data)

	t := &Theme{
		Name:  doc.Get("name").String(),
		Kinds: make(map[token.Kind]Style),
	}

	var err error
	if t.Foreground, err = parseColor(doc.Get("foreground"), "#d4d4d4"); err != nil {
		return nil, err
	}
	if t.Background, err = parseColor(doc.Get("background"), "#1e1e1e"); err != nil {
		return nil, err
	}

	var walkErr error
	doc.Get("tokens").ForEach(func(key, value gjson.Result) bool {
		kind := token.KindFromName(key.String())
		if kind == token.KindNone {
			walkErr = fmt.Errorf("%w: unknown token kind %q", ErrInvalidTheme, key.String())
			return false
		}
		style, err := parseStyle(value)
		if err != nil {
			walkErr = err
			return false
		}
		t.Kinds[kind] = style
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return t, nil
}

// parseStyle accepts either a bare color string or an object with fg,
// bg, bold, italic, underline fields.
func parseStyle(value gjson.Result) (Style, error) {
	if value.Type == gjson.String {
		c, err := colorful.Hex(value.String())
		if err != nil {
			return Style{}, fmt.Errorf("%w: color %q: %v", ErrInvalidTheme, value.String(), err)
		}
		return Style{Foreground: c, HasFg: true}, nil
	}

	var style Style
	if fgVal := value.Get("fg"); fgVal.Exists() {
		c, err := colorful.Hex(fgVal.String())
		if err != nil {
			return Style{}, fmt.Errorf("%w: fg %q: %v", ErrInvalidTheme, fgVal.String(), err)
		}
		style.Foreground = c
		style.HasFg = true
	}
	if bgVal := value.Get("bg"); bgVal.Exists() {
		c, err := colorful.Hex(bgVal.String())
		if err != nil {
			return Style{}, fmt.Errorf("%w: bg %q: %v", ErrInvalidTheme, bgVal.String(), err)
		}
		style.Background = c
		style.HasBg = true
	}
	style.Bold = value.Get("bold").Bool()
	style.Italic = value.Get("italic").Bool()
	style.Underline = value.Get("underline").Bool()
	return style, nil
}

// parseColor reads a hex color, applying a fallback when absent.
func parseColor(value gjson.Result, fallback string) (colorful.Color, error) {
	hex := fallback
	if value.Exists() {
		hex = value.String()
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalidTheme, hex, err)
	}
	return c, nil
}

// SaveJSON serializes a theme back to the LoadJSON document form.
func SaveJSON(t *Theme) ([]byte, error) {
	out := "{}"
	var err error

	if out, err = sjson.Set(out, "name", t.Name); err != nil {
		return nil, err
	}
	if out, err = sjson.Set(out, "foreground", t.Foreground.Hex()); err != nil {
		return nil, err
	}
	if out, err = sjson.Set(out, "background", t.Background.Hex()); err != nil {
		return nil, err
	}

	for kind, style := range t.Kinds {
		// Kind names contain dots; escape them so sjson treats each
		// name as a single key.
		path := "tokens." + strings.ReplaceAll(kind.String(), ".", "\\.")
		if style.HasFg && !style.HasBg && !style.Bold && !style.Italic && !style.Underline {
			if out, err = sjson.Set(out, path, style.Foreground.Hex()); err != nil {
				return nil, err
			}
			continue
		}
		if style.HasFg {
			if out, err = sjson.Set(out, path+".fg", style.Foreground.Hex()); err != nil {
				return nil, err
			}
		}
		if style.HasBg {
			if out, err = sjson.Set(out, path+".bg", style.Background.Hex()); err != nil {
				return nil, err
			}
		}
		for _, flag := range []struct {
			name string
			on   bool
		}{
			{"bold", style.Bold},
			{"italic", style.Italic},
			{"underline", style.Underline},
		} {
			if !flag.on {
				continue
			}
			if out, err = sjson.Set(out, path+"."+flag.name, true); err != nil {
				return nil, err
			}
		}
	}

	return []byte(out), nil
}
