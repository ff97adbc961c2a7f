// Package parser defines the tokenizer interface consumed by the
// highlight engine and provides three implementations: a rule-based
// lexer, an adapter over chroma's lexer library, and a Lua-scriptable
// tokenizer.
package parser

import (
	"errors"
	"fmt"

	"github.com/dshills/glint/internal/token"
)

// Parser tokenizes text into classified tokens. Input may be a single
// line, a window of lines, or a whole document, joined with single
// newline separators. Implementations must index tokens by zero-based
// line within the given input.
type Parser interface {
	// Tokenize produces the token sequence for text. A failure means
	// the whole call produced nothing usable; partial results are
	// never returned alongside an error.
	Tokenize(text string) ([]token.Token, error)

	// Language returns the language this parser handles.
	Language() string
}

// ErrNoLexer indicates no lexer is registered for the requested
// language or file name.
var ErrNoLexer = errors.New("no lexer for language")

// TokenizeError wraps a tokenizer fault with its language context.
type TokenizeError struct {
	Language string
	Err      error
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("tokenize %s: %v", e.Language, e.Err)
}

func (e *TokenizeError) Unwrap() error {
	return e.Err
}
