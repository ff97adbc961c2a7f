package parser

import (
	"errors"
	"testing"

	"github.com/dshills/glint/internal/token"
)

const upperLexerScript = `
function tokenize(text)
	local tokens = {}
	local line = 0
	for word in string.gmatch(text, "[^%s]+") do
		local kind = "identifier"
		if word == string.upper(word) then
			kind = "constant"
		end
		tokens[#tokens + 1] = { kind = kind, text = word, line = line }
	end
	return tokens
end
`

func TestLuaTokenize(t *testing.T) {
	l, err := NewLua("shout", upperLexerScript)
	if err != nil {
		t.Fatalf("NewLua() error = %v", err)
	}
	defer l.Close()

	if l.Language() != "shout" {
		t.Errorf("Language() = %q, want 'shout'", l.Language())
	}

	toks, err := l.Tokenize("FOO bar")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2", len(toks))
	}
	if toks[0].Kind != token.KindConstant || toks[0].Text != "FOO" {
		t.Errorf("token 0 = (%v, %q), want (constant, FOO)", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.KindIdentifier || toks[1].Text != "bar" {
		t.Errorf("token 1 = (%v, %q), want (identifier, bar)", toks[1].Kind, toks[1].Text)
	}
}

func TestLuaMissingTokenizeFunction(t *testing.T) {
	_, err := NewLua("bad", `x = 1`)
	if err == nil {
		t.Fatal("NewLua() should fail when tokenize() is missing")
	}
}

func TestLuaCompileError(t *testing.T) {
	_, err := NewLua("bad", `function tokenize(`)
	if err == nil {
		t.Fatal("NewLua() should fail on syntax error")
	}
	var terr *TokenizeError
	if !errors.As(err, &terr) {
		t.Errorf("error type = %T, want *TokenizeError", err)
	}
}

func TestLuaRuntimeError(t *testing.T) {
	l, err := NewLua("boom", `function tokenize(text) error("boom") end`)
	if err != nil {
		t.Fatalf("NewLua() error = %v", err)
	}
	defer l.Close()

	if _, err := l.Tokenize("anything"); err == nil {
		t.Error("Tokenize() should surface the script error")
	}
}

func TestLuaBadReturnShape(t *testing.T) {
	l, err := NewLua("bad", `function tokenize(text) return "nope" end`)
	if err != nil {
		t.Fatalf("NewLua() error = %v", err)
	}
	defer l.Close()

	if _, err := l.Tokenize("anything"); err == nil {
		t.Error("Tokenize() should reject a non-table result")
	}
}

func TestLuaAfterClose(t *testing.T) {
	l, err := NewLua("shout", upperLexerScript)
	if err != nil {
		t.Fatalf("NewLua() error = %v", err)
	}
	l.Close()

	if _, err := l.Tokenize("FOO"); err == nil {
		t.Error("Tokenize() after Close should fail")
	}
}
