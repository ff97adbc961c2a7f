// Package document provides an ordered line model with stable line
// identities. Line identity survives reordering and edits; positional
// indices do not.
package document

import (
	"strings"
	"sync"
	"sync/atomic"
)

// LineID is an opaque stable identity for a line. It is allocated once
// when the line is created and never reused.
type LineID uint64

// lineIDCounter is the global identity allocator.
var lineIDCounter atomic.Uint64

// NewLineID allocates a fresh line identity.
func NewLineID() LineID {
	return LineID(lineIDCounter.Add(1))
}

// Line pairs a stable identity with the line's current text.
type Line struct {
	ID   LineID
	Text string
}

// Join concatenates line texts with a single newline separator.
func Join(lines []Line) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.Text)
	}
	return b.String()
}

// Document is an ordered sequence of lines with stable identities.
// All methods are safe for concurrent use.
type Document struct {
	mu    sync.RWMutex
	lines []Line
}

// New creates a document from text, splitting on newlines. An empty
// string yields a single empty line.
func New(text string) *Document {
	parts := strings.Split(text, "\n")
	lines := make([]Line, len(parts))
	for i, part := range parts {
		lines[i] = Line{ID: NewLineID(), Text: part}
	}
	return &Document{lines: lines}
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Line returns the line at the given position.
func (d *Document) Line(pos int) (Line, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if pos < 0 || pos >= len(d.lines) {
		return Line{}, false
	}
	return d.lines[pos], true
}

// Snapshot returns a value copy of all lines. The copy is immutable
// from the document's point of view: later edits do not affect it.
func (d *Document) Snapshot() []Line {
	d.mu.RLock()
	defer d.mu.RUnlock()

	lines := make([]Line, len(d.lines))
	copy(lines, d.lines)
	return lines
}

// Text returns the full document text joined with newlines.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Join(d.lines)
}

// SetLineText replaces the text of the line at pos, keeping its
// identity. Returns false if pos is out of range.
func (d *Document) SetLineText(pos int, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pos < 0 || pos >= len(d.lines) {
		return false
	}
	d.lines[pos].Text = text
	return true
}

// InsertLine inserts a new line with a fresh identity at pos. Lines at
// and after pos shift down; their identities are unchanged. pos may
// equal LineCount to append.
func (d *Document) InsertLine(pos int, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pos < 0 || pos > len(d.lines) {
		return false
	}
	line := Line{ID: NewLineID(), Text: text}
	d.lines = append(d.lines, Line{})
	copy(d.lines[pos+1:], d.lines[pos:])
	d.lines[pos] = line
	return true
}

// RemoveLine deletes the line at pos. Identities of remaining lines are
// unchanged.
func (d *Document) RemoveLine(pos int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pos < 0 || pos >= len(d.lines) {
		return false
	}
	d.lines = append(d.lines[:pos], d.lines[pos+1:]...)
	return true
}

// Replace swaps the entire content for new text. Every line receives a
// fresh identity.
func (d *Document) Replace(text string) {
	parts := strings.Split(text, "\n")
	lines := make([]Line, len(parts))
	for i, part := range parts {
		lines[i] = Line{ID: NewLineID(), Text: part}
	}

	d.mu.Lock()
	d.lines = lines
	d.mu.Unlock()
}
