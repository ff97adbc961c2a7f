// Package theme maps token kinds to display styles for renderers.
package theme

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/glint/internal/token"
)

// Style describes how a token kind is rendered.
type Style struct {
	// Foreground is the text color; valid only when HasFg is set.
	Foreground colorful.Color
	HasFg      bool

	// Background is the fill color; valid only when HasBg is set.
	Background colorful.Color
	HasBg      bool

	Bold      bool
	Italic    bool
	Underline bool
}

// Theme defines colors and styles for syntax highlighting.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Foreground is the default text color.
	Foreground colorful.Color

	// Background is the editor background color.
	Background colorful.Color

	// Kinds maps token kinds to their styles.
	Kinds map[token.Kind]Style
}

// StyleFor returns the style for a token kind, falling back to the
// theme's default foreground.
func (t *Theme) StyleFor(kind token.Kind) Style {
	if style, ok := t.Kinds[kind]; ok {
		return style
	}
	return Style{Foreground: t.Foreground, HasFg: true}
}

// fg is a shorthand for a foreground-only style.
func fg(hex string) Style {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(fmt.Sprintf("theme: bad color %q: %v", hex, err))
	}
	return Style{Foreground: c, HasFg: true}
}

func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(fmt.Sprintf("theme: bad color %q: %v", hex, err))
	}
	return c
}

// DefaultDark returns a sensible default dark theme.
func DefaultDark() *Theme {
	italic := func(s Style) Style { s.Italic = true; return s }
	bold := func(s Style) Style { s.Bold = true; return s }

	return &Theme{
		Name:       "default-dark",
		Foreground: mustHex("#d4d4d4"),
		Background: mustHex("#1e1e1e"),
		Kinds: map[token.Kind]Style{
			token.KindComment:      italic(fg("#6a9955")),
			token.KindCommentLine:  italic(fg("#6a9955")),
			token.KindCommentBlock: italic(fg("#6a9955")),

			token.KindString:       fg("#ce9178"),
			token.KindStringEscape: fg("#d7ba7d"),

			token.KindNumber:    fg("#b5cea8"),
			token.KindNumberHex: fg("#b5cea8"),

			token.KindKeyword:            fg("#569cd6"),
			token.KindKeywordControl:     fg("#c586c0"),
			token.KindKeywordDeclaration: fg("#569cd6"),

			token.KindOperator:    fg("#d4d4d4"),
			token.KindPunctuation: fg("#808080"),

			token.KindIdentifier:       fg("#9cdcfe"),
			token.KindConstant:         fg("#4fc1ff"),
			token.KindConstantLanguage: fg("#569cd6"),

			token.KindFunction:        fg("#dcdcaa"),
			token.KindFunctionBuiltin: fg("#dcdcaa"),
			token.KindTypeName:        fg("#4ec9b0"),
			token.KindTypeBuiltin:     fg("#4ec9b0"),

			token.KindMeta:  fg("#c586c0"),
			token.KindError: bold(fg("#f44747")),
		},
	}
}
