package parser

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dshills/glint/internal/token"
)

// Rule defines a single-line highlighting rule.
type Rule struct {
	// Pattern is the regex pattern to match.
	Pattern *regexp.Regexp

	// Kind is the kind to assign to matches.
	Kind token.Kind
}

// lexerState tracks continuation of multi-line constructs across lines.
type lexerState uint8

const stateNormal lexerState = 0

// multiLineRule defines a construct that may span lines, like a block
// comment or a raw string.
type multiLineRule struct {
	start string
	end   string
	kind  token.Kind
	state lexerState
}

// span is a matched byte range on one line.
type span struct {
	start, end int
	kind       token.Kind
}

// RuleLexer is a regex and keyword driven lexer. It processes input
// line by line, carrying state across lines for multi-line constructs,
// so a construct opened on one line continues on the next.
type RuleLexer struct {
	language  string
	rules     []Rule
	keywords  map[string]token.Kind
	multiLine []multiLineRule
	operators string
}

// NewRuleLexer creates an empty rule lexer for the given language.
func NewRuleLexer(language string) *RuleLexer {
	return &RuleLexer{
		language: language,
		keywords: make(map[string]token.Kind),
	}
}

// AddRule adds a regex rule. Rules are tried in registration order.
func (l *RuleLexer) AddRule(pattern string, kind token.Kind) *RuleLexer {
	l.rules = append(l.rules, Rule{
		Pattern: regexp.MustCompile(pattern),
		Kind:    kind,
	})
	return l
}

// AddKeywords registers keywords with a specific kind.
func (l *RuleLexer) AddKeywords(kind token.Kind, keywords ...string) *RuleLexer {
	for _, kw := range keywords {
		l.keywords[kw] = kind
	}
	return l
}

// AddMultiLine adds a construct that may span line boundaries.
func (l *RuleLexer) AddMultiLine(start, end string, kind token.Kind) *RuleLexer {
	l.multiLine = append(l.multiLine, multiLineRule{
		start: start,
		end:   end,
		kind:  kind,
		state: lexerState(len(l.multiLine) + 1),
	})
	return l
}

// AddOperators registers single-byte operator characters.
func (l *RuleLexer) AddOperators(chars string) *RuleLexer {
	l.operators += chars
	return l
}

// Language returns the language name.
func (l *RuleLexer) Language() string {
	return l.language
}

// Tokenize lexes text line by line, carrying multi-line state.
func (l *RuleLexer) Tokenize(text string) ([]token.Token, error) {
	var tokens []token.Token
	state := stateNormal

	for i, line := range strings.Split(text, "\n") {
		var spans []span
		spans, state = l.lexLine(line, state)
		for _, sp := range spans {
			tokens = append(tokens, token.Token{
				Kind: sp.kind,
				Text: line[sp.start:sp.end],
				Line: i,
			})
		}
	}

	return tokens, nil
}

// lexLine lexes one line given the state left by the previous line.
func (l *RuleLexer) lexLine(line string, state lexerState) ([]span, lexerState) {
	var spans []span

	// Continuation of a multi-line construct
	if state != stateNormal {
		rule := l.multiLine[state-1]
		idx := strings.Index(line, rule.end)
		if idx < 0 {
			// Entire line is inside the construct
			if len(line) > 0 {
				spans = append(spans, span{0, len(line), rule.kind})
			}
			return spans, state
		}
		endPos := idx + len(rule.end)
		spans = append(spans, span{0, endPos, rule.kind})
		rest, nextState := l.lexNormal(line[endPos:])
		for _, sp := range rest {
			spans = append(spans, span{sp.start + endPos, sp.end + endPos, sp.kind})
		}
		return spans, nextState
	}

	return l.lexNormal(line)
}

// lexNormal lexes a line that does not begin inside a construct.
func (l *RuleLexer) lexNormal(line string) ([]span, lexerState) {
	var spans []span
	covered := make([]bool, len(line))
	state := stateNormal

	// Multi-line construct starts
	for _, rule := range l.multiLine {
		from := 0
		for from < len(line) {
			idx := strings.Index(line[from:], rule.start)
			if idx < 0 {
				break
			}
			idx += from
			if isCovered(covered, idx, idx+len(rule.start)) {
				from = idx + len(rule.start)
				continue
			}
			endIdx := strings.Index(line[idx+len(rule.start):], rule.end)
			if endIdx >= 0 {
				endPos := idx + len(rule.start) + endIdx + len(rule.end)
				spans = append(spans, span{idx, endPos, rule.kind})
				markCovered(covered, idx, endPos)
				from = endPos
			} else {
				spans = append(spans, span{idx, len(line), rule.kind})
				markCovered(covered, idx, len(line))
				state = rule.state
				from = len(line)
			}
		}
	}

	// Regex rules
	for _, rule := range l.rules {
		for _, match := range rule.Pattern.FindAllStringIndex(line, -1) {
			start, end := match[0], match[1]
			if end > start && !isCovered(covered, start, end) {
				spans = append(spans, span{start, end, rule.Kind})
				markCovered(covered, start, end)
			}
		}
	}

	// Identifiers and keywords
	spans = append(spans, l.findWords(line, covered)...)

	// Operators
	for i := 0; i < len(line); i++ {
		if covered[i] {
			continue
		}
		if strings.IndexByte(l.operators, line[i]) >= 0 {
			spans = append(spans, span{i, i + 1, token.KindOperator})
			covered[i] = true
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})

	return spans, state
}

// findWords scans for identifier-shaped words and classifies keywords.
func (l *RuleLexer) findWords(line string, covered []bool) []span {
	var spans []span

	i := 0
	for i < len(line) {
		if covered[i] {
			i++
			continue
		}
		r := rune(line[i])
		if !unicode.IsLetter(r) && r != '_' {
			i++
			continue
		}
		start := i
		for i < len(line) {
			r = rune(line[i])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			i++
		}
		word := line[start:i]
		kind := token.KindIdentifier
		if kw, ok := l.keywords[word]; ok {
			kind = kw
		}
		spans = append(spans, span{start, i, kind})
		markCovered(covered, start, i)
	}

	return spans
}

// isCovered checks if any byte in [start, end) is already claimed.
func isCovered(covered []bool, start, end int) bool {
	for i := start; i < end && i < len(covered); i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

// markCovered claims the range [start, end).
func markCovered(covered []bool, start, end int) {
	for i := start; i < end && i < len(covered); i++ {
		covered[i] = true
	}
}

// JavaScript returns a rule lexer for JavaScript-family sources.
func JavaScript() *RuleLexer {
	l := NewRuleLexer("javascript")

	l.AddMultiLine("/*", "*/", token.KindCommentBlock)
	l.AddMultiLine("`", "`", token.KindString)

	l.AddRule(`//.*$`, token.KindCommentLine)
	l.AddRule(`"(?:[^"\\]|\\.)*"`, token.KindString)
	l.AddRule(`'(?:[^'\\]|\\.)*'`, token.KindString)
	l.AddRule(`\b0[xX][0-9a-fA-F]+\b`, token.KindNumberHex)
	l.AddRule(`\b\d+\.?\d*(?:[eE][+-]?\d+)?\b`, token.KindNumber)

	l.AddKeywords(token.KindKeywordControl,
		"if", "else", "for", "while", "do", "switch", "case", "default",
		"break", "continue", "return", "throw", "try", "catch", "finally")
	l.AddKeywords(token.KindKeywordDeclaration,
		"var", "let", "const", "function", "class", "extends")
	l.AddKeywords(token.KindKeyword,
		"new", "delete", "typeof", "instanceof", "in", "of",
		"import", "export", "from", "async", "await", "yield", "this")
	l.AddKeywords(token.KindConstantLanguage,
		"true", "false", "null", "undefined", "NaN", "Infinity")

	l.AddOperators("+-*/%=<>!&|^~?:;,.(){}[]")

	return l
}

// Go returns a rule lexer for Go sources.
func Go() *RuleLexer {
	l := NewRuleLexer("go")

	l.AddMultiLine("/*", "*/", token.KindCommentBlock)
	l.AddMultiLine("`", "`", token.KindString)

	l.AddRule(`//.*$`, token.KindCommentLine)
	l.AddRule(`"(?:[^"\\]|\\.)*"`, token.KindString)
	l.AddRule(`'(?:[^'\\]|\\.)'`, token.KindString)
	l.AddRule(`\b0[xX][0-9a-fA-F]+\b`, token.KindNumberHex)
	l.AddRule(`\b\d+\.?\d*(?:[eE][+-]?\d+)?\b`, token.KindNumber)

	l.AddKeywords(token.KindKeywordControl,
		"if", "else", "for", "range", "switch", "case", "default",
		"break", "continue", "return", "goto", "fallthrough", "select")
	l.AddKeywords(token.KindKeywordDeclaration,
		"func", "var", "const", "type", "struct", "interface", "map", "chan")
	l.AddKeywords(token.KindKeyword,
		"package", "import", "defer", "go")
	l.AddKeywords(token.KindConstantLanguage,
		"true", "false", "nil", "iota")
	l.AddKeywords(token.KindTypeBuiltin,
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"bool", "byte", "rune", "string", "error", "any")
	l.AddKeywords(token.KindFunctionBuiltin,
		"make", "new", "len", "cap", "append", "copy", "delete",
		"close", "panic", "recover", "print", "println")

	l.AddOperators("+-*/%=<>!&|^~?:;,.(){}[]")

	return l
}
