package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/glint/internal/document"
	"github.com/dshills/glint/internal/highlight"
	"github.com/dshills/glint/internal/parser"
	"github.com/dshills/glint/internal/theme"
	"github.com/dshills/glint/internal/token"
)

// dump renders the highlighted file to w with 24-bit ANSI colors.
func dump(w io.Writer, path string, p parser.Parser, th *theme.Theme) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	doc := document.New(string(data))
	eng := highlight.New(highlight.Options{Parser: p})
	defer eng.Close()
	eng.TokenizeSync(doc.Snapshot())

	out := bufio.NewWriter(w)
	for _, line := range doc.Snapshot() {
		toks, _ := eng.LineTokens(line.ID)
		writeANSILine(out, line.Text, toks, th)
		out.WriteByte('\n')
	}
	return out.Flush()
}

// writeANSILine emits one line, switching escape sequences only at
// token kind boundaries.
func writeANSILine(out *bufio.Writer, text string, toks []token.Token, th *theme.Theme) {
	kinds := kindsForLine(text, toks)

	current := token.KindNone
	open := false
	for off, r := range text {
		k := kinds[off]
		if k != current || !open {
			if open {
				out.WriteString("\x1b[0m")
			}
			out.WriteString(ansiFor(th.StyleFor(k)))
			current = k
			open = true
		}
		out.WriteRune(r)
	}
	if open {
		out.WriteString("\x1b[0m")
	}
}

// ansiFor builds the SGR sequence for a style.
func ansiFor(s theme.Style) string {
	var b strings.Builder
	if s.HasFg {
		r, g, bl := s.Foreground.RGB255()
		fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm", r, g, bl)
	}
	if s.HasBg {
		r, g, bl := s.Background.RGB255()
		fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm", r, g, bl)
	}
	if s.Bold {
		b.WriteString("\x1b[1m")
	}
	if s.Italic {
		b.WriteString("\x1b[3m")
	}
	if s.Underline {
		b.WriteString("\x1b[4m")
	}
	return b.String()
}
