package parser

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/glint/internal/token"
)

// ChromaLexer adapts a chroma lexer to the Parser interface.
type ChromaLexer struct {
	language string
	lexer    chroma.Lexer
}

// NewChroma returns a parser backed by the chroma lexer registered for
// the given language name or alias.
func NewChroma(language string) (*ChromaLexer, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, &TokenizeError{Language: language, Err: ErrNoLexer}
	}
	return &ChromaLexer{
		language: language,
		lexer:    chroma.Coalesce(lexer),
	}, nil
}

// ChromaForFile returns a parser for the chroma lexer matching a file
// name, or nil if none matches.
func ChromaForFile(filename string) *ChromaLexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return nil
	}
	return &ChromaLexer{
		language: lexer.Config().Name,
		lexer:    chroma.Coalesce(lexer),
	}
}

// Language returns the language name.
func (c *ChromaLexer) Language() string {
	return c.language
}

// Tokenize runs the chroma lexer and converts its stream, splitting
// multi-line token values so every emitted token carries the zero-based
// line it starts on. Pure-whitespace segments are dropped.
func (c *ChromaLexer) Tokenize(text string) ([]token.Token, error) {
	it, err := c.lexer.Tokenise(nil, text)
	if err != nil {
		return nil, &TokenizeError{Language: c.language, Err: err}
	}

	var tokens []token.Token
	line := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		kind := kindForChroma(tok.Type)
		for i, seg := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				line++
			}
			if strings.TrimSpace(seg) == "" {
				continue
			}
			tokens = append(tokens, token.Token{
				Kind: kind,
				Text: seg,
				Line: line,
			})
		}
	}

	return tokens, nil
}

// kindForChroma maps chroma token types onto glint kinds.
func kindForChroma(t chroma.TokenType) token.Kind {
	switch {
	case t == chroma.CommentMultiline:
		return token.KindCommentBlock
	case t == chroma.CommentSingle:
		return token.KindCommentLine
	case t.InCategory(chroma.Comment):
		return token.KindComment
	case t == chroma.LiteralStringEscape:
		return token.KindStringEscape
	case t.InCategory(chroma.LiteralString):
		return token.KindString
	case t == chroma.LiteralNumberHex:
		return token.KindNumberHex
	case t.InCategory(chroma.LiteralNumber):
		return token.KindNumber
	case t == chroma.KeywordDeclaration:
		return token.KindKeywordDeclaration
	case t == chroma.KeywordConstant:
		return token.KindConstantLanguage
	case t == chroma.KeywordType:
		return token.KindTypeBuiltin
	case t.InCategory(chroma.Keyword):
		return token.KindKeyword
	case t.InCategory(chroma.Operator):
		return token.KindOperator
	case t.InCategory(chroma.Punctuation):
		return token.KindPunctuation
	case t == chroma.NameFunction:
		return token.KindFunction
	case t == chroma.NameBuiltin:
		return token.KindFunctionBuiltin
	case t == chroma.NameClass:
		return token.KindTypeName
	case t == chroma.NameConstant:
		return token.KindConstant
	case t.InCategory(chroma.Name):
		return token.KindIdentifier
	case t.InCategory(chroma.Error):
		return token.KindError
	default:
		return token.KindNone
	}
}
