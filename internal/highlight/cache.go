package highlight

import (
	"github.com/cespare/xxhash/v2"

	"github.com/dshills/glint/internal/document"
	"github.com/dshills/glint/internal/token"
)

// entry holds the last-known tokenization of a line. tokens is the
// result of tokenizing text in whatever context the entry was last
// computed; if text no longer matches the live line, the entry is
// stale and will be overwritten by the next pass.
type entry struct {
	text   string
	hash   uint64
	tokens []token.Token
}

// store is the cache of line entries keyed by stable identity. It has
// no side effects beyond memory and never fails. Callers synchronize
// access; the engine holds its mutex around every call.
type store struct {
	entries map[document.LineID]entry
}

func newStore() *store {
	return &store{entries: make(map[document.LineID]entry)}
}

// Get returns the cached token sequence for an identity.
func (s *store) Get(id document.LineID) ([]token.Token, bool) {
	ent, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return ent.tokens, true
}

// Text returns the source text an entry was computed from.
func (s *store) Text(id document.LineID) (string, bool) {
	ent, ok := s.entries[id]
	if !ok {
		return "", false
	}
	return ent.text, true
}

// TextMatches reports whether the cached entry was computed from the
// given text, using the stored hash as a cheap first check.
func (s *store) TextMatches(id document.LineID, text string) bool {
	ent, ok := s.entries[id]
	if !ok {
		return false
	}
	return ent.hash == xxhash.Sum64String(text) && ent.text == text
}

// Set overwrites the entry for an identity.
func (s *store) Set(id document.LineID, text string, tokens []token.Token) {
	s.entries[id] = entry{
		text:   text,
		hash:   xxhash.Sum64String(text),
		tokens: tokens,
	}
}

// Clear drops all entries. Invalidation is all-or-nothing.
func (s *store) Clear() {
	s.entries = make(map[document.LineID]entry)
}

// Len returns the number of entries.
func (s *store) Len() int {
	return len(s.entries)
}
