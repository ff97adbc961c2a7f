package main

import (
	"strings"

	"github.com/dshills/glint/internal/token"
)

// kindsForLine maps a line's tokens back onto its text, producing a
// per-byte token kind. Tokens carry text but not columns, so each one
// is located by searching forward from the end of the previous match.
// Bytes no token claims stay KindNone and render with the base style.
func kindsForLine(text string, toks []token.Token) []token.Kind {
	kinds := make([]token.Kind, len(text))
	pos := 0
	for _, tk := range toks {
		if tk.Text == "" {
			continue
		}
		idx := strings.Index(text[pos:], tk.Text)
		if idx < 0 {
			continue
		}
		start := pos + idx
		end := start + len(tk.Text)
		for i := start; i < end; i++ {
			kinds[i] = tk.Kind
		}
		pos = end
	}
	return kinds
}
