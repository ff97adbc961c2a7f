package parser

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/glint/internal/token"
)

// LuaLexer runs a user-provided Lua script as a tokenizer. The script
// must define a global function:
//
//	function tokenize(text)
//	  return { {kind="keyword", text="let", line=0}, ... }
//	end
//
// Kind names use the scope-style names from the token package. Script
// errors and malformed results surface as tokenizer failures, which
// the highlight engine absorbs without corrupting its cache.
type LuaLexer struct {
	mu       sync.Mutex
	language string
	state    *lua.LState
}

// NewLua compiles the script and verifies it defines tokenize().
func NewLua(language, script string) (*LuaLexer, error) {
	L := lua.NewState()
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, &TokenizeError{Language: language, Err: err}
	}
	if _, ok := L.GetGlobal("tokenize").(*lua.LFunction); !ok {
		L.Close()
		return nil, &TokenizeError{
			Language: language,
			Err:      fmt.Errorf("script does not define tokenize()"),
		}
	}
	return &LuaLexer{language: language, state: L}, nil
}

// Language returns the language name.
func (l *LuaLexer) Language() string {
	return l.language
}

// Close releases the Lua state.
func (l *LuaLexer) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != nil {
		l.state.Close()
		l.state = nil
	}
}

// Tokenize calls the script's tokenize() and converts the result.
func (l *LuaLexer) Tokenize(text string) ([]token.Token, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == nil {
		return nil, &TokenizeError{Language: l.language, Err: fmt.Errorf("lexer closed")}
	}
	L := l.state

	if err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("tokenize"),
		NRet:    1,
		Protect: true,
	}, lua.LString(text)); err != nil {
		return nil, &TokenizeError{Language: l.language, Err: err}
	}

	ret := L.Get(-1)
	L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, &TokenizeError{
			Language: l.language,
			Err:      fmt.Errorf("tokenize() returned %s, want table", ret.Type()),
		}
	}

	var tokens []token.Token
	var convErr error
	tbl.ForEach(func(_, v lua.LValue) {
		if convErr != nil {
			return
		}
		entry, ok := v.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("token entry is %s, want table", v.Type())
			return
		}
		tok, err := luaToken(entry)
		if err != nil {
			convErr = err
			return
		}
		tokens = append(tokens, tok)
	})
	if convErr != nil {
		return nil, &TokenizeError{Language: l.language, Err: convErr}
	}

	return tokens, nil
}

// luaToken converts one {kind, text, line} table.
func luaToken(tbl *lua.LTable) (token.Token, error) {
	kindVal := tbl.RawGetString("kind")
	kindName, ok := kindVal.(lua.LString)
	if !ok {
		return token.Token{}, fmt.Errorf("token kind is %s, want string", kindVal.Type())
	}

	textVal := tbl.RawGetString("text")
	text, ok := textVal.(lua.LString)
	if !ok {
		return token.Token{}, fmt.Errorf("token text is %s, want string", textVal.Type())
	}

	line := 0
	if lineVal, ok := tbl.RawGetString("line").(lua.LNumber); ok {
		line = int(lineVal)
	}

	return token.Token{
		Kind: token.KindFromName(string(kindName)),
		Text: string(text),
		Line: line,
	}, nil
}
