// Package highlight implements an incremental, asynchronous
// tokenization cache for syntax highlighting.
//
// The engine keeps last-known tokens per line identity, recomputes them
// off the keystroke path through a debounced scheduler, prioritizes the
// visible region of large documents, and reports exactly which line
// positions changed so a renderer repaints only what it must.
package highlight

import (
	"sync"
	"time"

	"github.com/dshills/glint/internal/document"
	"github.com/dshills/glint/internal/parser"
	"github.com/dshills/glint/internal/sched"
	"github.com/dshills/glint/internal/token"
)

// Defaults for the scheduling and viewport knobs.
const (
	// DefaultDebounceDelay coalesces bursts of change notifications.
	DefaultDebounceDelay = 50 * time.Millisecond

	// DefaultViewportThreshold is the line count at or above which a
	// visible-range hint triggers the two-pass path.
	DefaultViewportThreshold = 500

	// DefaultViewportBuffer extends the visible range on each side
	// during the window pass.
	DefaultViewportBuffer = 50
)

// Range is a half-open line position range [Start, End).
type Range struct {
	Start int
	End   int
}

// Clamp bounds the range to [0, n). A range lying entirely past n
// collapses to the empty range [n, n).
func (r Range) Clamp(n int) Range {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.Start > n {
		r.Start = n
	}
	if r.End > n {
		r.End = n
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

// Expand grows the range by buf lines on each side.
func (r Range) Expand(buf int) Range {
	return Range{Start: r.Start - buf, End: r.End + buf}
}

// ChangedFunc receives the sorted set of line positions whose rendered
// tokens changed. It may be invoked zero, one, or two times per
// scheduled recomputation: once for the window pass and once for the
// whole-document pass when the two-pass path triggers. Each delivery is
// independently valid; applying both is safe.
type ChangedFunc func(positions []int)

// Options configures an Engine.
type Options struct {
	// Parser is the initial tokenizer. May be nil.
	Parser parser.Parser

	// DebounceDelay overrides DefaultDebounceDelay when > 0.
	DebounceDelay time.Duration

	// ViewportThreshold overrides DefaultViewportThreshold when > 0.
	ViewportThreshold int

	// ViewportBuffer overrides DefaultViewportBuffer when > 0.
	ViewportBuffer int

	// FrameInterval is passed to the owned scheduler when Scheduler is
	// nil. Zero selects the scheduler default.
	FrameInterval time.Duration

	// Scheduler supplies an external scheduler. When nil the engine
	// owns one and stops it on Close.
	Scheduler *sched.Scheduler
}

// Engine is the tokenization cache and scheduling pipeline. All
// methods are safe for concurrent use; async passes run on the
// scheduler's single goroutine.
type Engine struct {
	mu sync.Mutex

	parser     parser.Parser
	generation uint64

	cache *store

	scheduler *sched.Scheduler
	ownSched  bool

	// At most one of each pending unit. Arming a slot always cancels
	// its current occupant first.
	debounce *sched.Handle
	frame    *sched.Handle
	idle     *sched.Handle

	debounceDelay     time.Duration
	viewportThreshold int
	viewportBuffer    int

	closed bool
}

// New creates an engine.
func New(opts Options) *Engine {
	e := &Engine{
		parser:            opts.Parser,
		cache:             newStore(),
		scheduler:         opts.Scheduler,
		debounceDelay:     opts.DebounceDelay,
		viewportThreshold: opts.ViewportThreshold,
		viewportBuffer:    opts.ViewportBuffer,
	}
	if e.debounceDelay <= 0 {
		e.debounceDelay = DefaultDebounceDelay
	}
	if e.viewportThreshold <= 0 {
		e.viewportThreshold = DefaultViewportThreshold
	}
	if e.viewportBuffer <= 0 {
		e.viewportBuffer = DefaultViewportBuffer
	}
	if e.scheduler == nil {
		e.scheduler = sched.New(opts.FrameInterval)
		e.ownSched = true
	}
	return e
}

// Close cancels pending work and stops the owned scheduler.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancelPendingLocked()
	own := e.ownSched
	s := e.scheduler
	e.mu.Unlock()

	if own {
		s.Stop()
	}
}

// SetParser replaces the active parser. A different parser reference
// invalidates the entire cache and cancels all pending work, since
// cached tokens under the old parser are unsafe to keep. Passing the
// current parser is a no-op.
func (e *Engine) SetParser(p parser.Parser) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p == e.parser {
		return
	}
	e.parser = p
	e.generation++
	e.cache.Clear()
	e.cancelPendingLocked()
}

// Parser returns the active parser.
func (e *Engine) Parser() parser.Parser {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parser
}

// LineTokens returns the cached token sequence for a line identity.
// O(1); never triggers computation. The returned slice is shared and
// must not be modified.
func (e *Engine) LineTokens(id document.LineID) ([]token.Token, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.Get(id)
}

// CachedText returns the text a line's cached tokens were computed
// from, so callers can detect stale entries.
func (e *Engine) CachedText(id document.LineID) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.Text(id)
}

// TokenizeSync tokenizes the whole document synchronously and rewrites
// the entire cache. Intended for first paint only; cost grows with
// document size. On tokenizer failure the cache is left exactly as it
// was.
func (e *Engine) TokenizeSync(lines []document.Line) {
	e.mu.Lock()
	p := e.parser
	gen := e.generation
	e.mu.Unlock()

	if p == nil {
		return
	}

	toks, err := p.Tokenize(document.Join(lines))
	if err != nil {
		return
	}
	byLine := token.IndexByLine(toks)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.generation != gen {
		return
	}
	e.cache.Clear()
	for i, line := range lines {
		e.cache.Set(line.ID, line.Text, byLine[i])
	}
}

// TokenizeLineSync tokenizes one line in isolation and caches the
// result. This is the per-keystroke fast path: correct for single-line
// constructs, approximate for constructs spanning lines, which the
// debounced passes correct later. Tokens reporting a line index other
// than 0 are dropped. On tokenizer failure the existing entry is left
// untouched.
//
// When the cached entry was already computed from this exact text the
// call is a no-op, keeping whatever tokens a contextful pass produced.
func (e *Engine) TokenizeLineSync(id document.LineID, text string) {
	e.mu.Lock()
	p := e.parser
	gen := e.generation
	match := e.cache.TextMatches(id, text)
	e.mu.Unlock()

	if match {
		return
	}

	if p == nil {
		return
	}

	toks, err := p.Tokenize(text)
	if err != nil {
		return
	}

	var filtered []token.Token
	for _, tok := range toks {
		if tok.Line == 0 {
			filtered = append(filtered, tok)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen {
		return
	}
	e.cache.Set(id, text, filtered)
}

// ScheduleAsync schedules a debounced re-tokenization of the given
// lines. Any previously scheduled work is cancelled first; only the
// most recent call in a burst survives. The engine captures a snapshot
// of the lines now, so concurrent edits to the live document cannot
// corrupt the pass.
//
// When visible is non-nil and the document is large, the expanded
// visible window is tokenized first and the whole document follows in
// idle time; otherwise a single whole-document pass runs. onChanged is
// delivered frame-aligned and only when something changed.
func (e *Engine) ScheduleAsync(lines []document.Line, onChanged ChangedFunc, visible *Range) {
	snapshot := make([]document.Line, len(lines))
	copy(snapshot, lines)

	var vis *Range
	if visible != nil {
		v := *visible
		vis = &v
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	e.cancelPendingLocked()

	p := e.parser
	gen := e.generation
	e.debounce = e.scheduler.After(e.debounceDelay, func() {
		e.runScheduled(snapshot, p, gen, onChanged, vis)
	})
}

// CancelPending cancels any outstanding debounce timer, frame-aligned
// callback, and idle callback. Safe to call when none are pending.
func (e *Engine) CancelPending() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelPendingLocked()
}

// InvalidateAll drops every cache entry and cancels pending work.
func (e *Engine) InvalidateAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cache.Clear()
	e.generation++
	e.cancelPendingLocked()
}

// CacheLen returns the number of cached line entries.
func (e *Engine) CacheLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.Len()
}

// cancelPendingLocked empties all three pending-work slots.
func (e *Engine) cancelPendingLocked() {
	if e.debounce != nil {
		e.debounce.Cancel()
		e.debounce = nil
	}
	if e.frame != nil {
		e.frame.Cancel()
		e.frame = nil
	}
	if e.idle != nil {
		e.idle.Cancel()
		e.idle = nil
	}
}
