// Package token defines the token model shared by tokenizers, the
// highlight engine, and renderers.
package token

// Kind represents the semantic category of a token.
type Kind uint16

// Token kinds. These follow TextMate/VS Code scope naming conventions
// at a high level.
const (
	KindNone Kind = iota

	// Comments
	KindComment
	KindCommentLine
	KindCommentBlock

	// Strings
	KindString
	KindStringEscape

	// Numbers
	KindNumber
	KindNumberHex

	// Keywords
	KindKeyword
	KindKeywordControl     // if, else, for, while, switch, case, return
	KindKeywordDeclaration // var, let, const, func, type, struct, class

	// Operators and punctuation
	KindOperator
	KindPunctuation

	// Identifiers
	KindIdentifier
	KindConstant
	KindConstantLanguage // true, false, nil, null

	// Functions and types
	KindFunction
	KindFunctionBuiltin
	KindTypeName
	KindTypeBuiltin

	// Other
	KindWhitespace
	KindMeta
	KindError

	// Sentinel for iteration
	kindCount
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsComment returns true if this is a comment kind.
func (k Kind) IsComment() bool {
	return k >= KindComment && k <= KindCommentBlock
}

// IsString returns true if this is a string kind.
func (k Kind) IsString() bool {
	return k >= KindString && k <= KindStringEscape
}

// IsKeyword returns true if this is a keyword kind.
func (k Kind) IsKeyword() bool {
	return k >= KindKeyword && k <= KindKeywordDeclaration
}

// Token represents a classified substring produced by tokenization.
type Token struct {
	// Kind is the semantic category of the token.
	Kind Kind

	// Text is the literal substring the token covers.
	Text string

	// Line is the zero-based line index within the tokenized span.
	// For a single-line input it is always 0; for joined multi-line
	// input it identifies the line the token starts on.
	Line int
}

// Equal reports whether two token sequences are equal: same length and
// each position's (kind, text) pair matches. Position in the sequence,
// not the line index, is the comparison key.
func Equal(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Text != b[i].Text {
			return false
		}
	}
	return true
}

// IndexByLine groups tokens by their line index.
func IndexByLine(toks []Token) map[int][]Token {
	byLine := make(map[int][]Token)
	for _, tok := range toks {
		byLine[tok.Line] = append(byLine[tok.Line], tok)
	}
	return byLine
}

// KindFromName converts a scope-style name to a Kind. Hierarchical
// names fall back segment by segment: "comment.block.documentation"
// resolves to KindCommentBlock via "comment.block".
func KindFromName(name string) Kind {
	for len(name) > 0 {
		if k, ok := nameToKind[name]; ok {
			return k
		}
		// Remove last segment
		trimmed := false
		for i := len(name) - 1; i >= 0; i-- {
			if name[i] == '.' {
				name = name[:i]
				trimmed = true
				break
			}
		}
		if !trimmed {
			break
		}
	}
	return KindNone
}

// kindNames maps kinds to their scope-style names.
var kindNames = []string{
	KindNone: "none",

	KindComment:      "comment",
	KindCommentLine:  "comment.line",
	KindCommentBlock: "comment.block",

	KindString:       "string",
	KindStringEscape: "string.escape",

	KindNumber:    "number",
	KindNumberHex: "number.hex",

	KindKeyword:            "keyword",
	KindKeywordControl:     "keyword.control",
	KindKeywordDeclaration: "keyword.declaration",

	KindOperator:    "operator",
	KindPunctuation: "punctuation",

	KindIdentifier:       "identifier",
	KindConstant:         "constant",
	KindConstantLanguage: "constant.language",

	KindFunction:        "function",
	KindFunctionBuiltin: "function.builtin",
	KindTypeName:        "type",
	KindTypeBuiltin:     "type.builtin",

	KindWhitespace: "whitespace",
	KindMeta:       "meta",
	KindError:      "error",
}

// nameToKind maps scope-style names to kinds.
var nameToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for i, name := range kindNames {
		if name != "" {
			m[name] = Kind(i)
		}
	}
	return m
}()
