package parser

import (
	"errors"
	"testing"
)

func TestChromaUnknownLanguage(t *testing.T) {
	_, err := NewChroma("no-such-language-xyz")
	if !errors.Is(err, ErrNoLexer) {
		t.Errorf("NewChroma() error = %v, want ErrNoLexer", err)
	}
}

func TestChromaGoSource(t *testing.T) {
	c, err := NewChroma("go")
	if err != nil {
		t.Fatalf("NewChroma() error = %v", err)
	}

	toks, err := c.Tokenize("package main\n\nfunc main() {}\n")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if len(toks) == 0 {
		t.Fatal("got no tokens for Go source")
	}

	// Line indices stay within the input, and the keyword lines carry
	// keyword-class tokens.
	sawKeywordLine0 := false
	for _, tok := range toks {
		if tok.Line < 0 || tok.Line > 3 {
			t.Errorf("token %q has line %d outside input", tok.Text, tok.Line)
		}
		if tok.Line == 0 && tok.Kind.IsKeyword() {
			sawKeywordLine0 = true
		}
		if tok.Text == "" {
			t.Error("empty token text emitted")
		}
	}
	if !sawKeywordLine0 {
		t.Error("no keyword token on line 0 of 'package main'")
	}

	// Blank line carries no tokens.
	if got := kindsOnLine(toks, 1); len(got) != 0 {
		t.Errorf("blank line kinds = %v, want none", got)
	}
}

func TestChromaMultilineValueSplit(t *testing.T) {
	c, err := NewChroma("python")
	if err != nil {
		t.Fatalf("NewChroma() error = %v", err)
	}

	toks, err := c.Tokenize("s = \"\"\"first\nsecond\"\"\"\n")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	// The triple-quoted string spans two lines; both must report string
	// tokens at their own index.
	for _, line := range []int{0, 1} {
		sawString := false
		for _, k := range kindsOnLine(toks, line) {
			if k.IsString() {
				sawString = true
			}
		}
		if !sawString {
			t.Errorf("line %d has no string token", line)
		}
	}
}

func TestChromaForFile(t *testing.T) {
	c := ChromaForFile("main.go")
	if c == nil {
		t.Fatal("ChromaForFile('main.go') = nil")
	}
	if c.Language() == "" {
		t.Error("Language() is empty")
	}

	if got := ChromaForFile("mystery.zzz-unknown"); got != nil {
		t.Errorf("ChromaForFile(unknown) = %v, want nil", got.Language())
	}
}

func TestChromaKindMapping(t *testing.T) {
	c, err := NewChroma("go")
	if err != nil {
		t.Fatalf("NewChroma() error = %v", err)
	}

	toks, err := c.Tokenize(`x := "hello" // note`)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	var sawString, sawComment bool
	for _, tok := range toks {
		if tok.Kind.IsString() {
			sawString = true
		}
		if tok.Kind.IsComment() {
			sawComment = true
		}
	}
	if !sawString {
		t.Errorf("no string token in %v", toks)
	}
	if !sawComment {
		t.Errorf("no comment token in %v", toks)
	}
}
