package highlight

import (
	"github.com/dshills/glint/internal/document"
	"github.com/dshills/glint/internal/parser"
	"github.com/dshills/glint/internal/token"
)

// runScheduled executes when the debounce timer fires. It runs on the
// scheduler goroutine. The snapshot was captured at schedule time; if
// the parser generation has moved on since, the request is stale and
// the fire is a no-op.
func (e *Engine) runScheduled(snapshot []document.Line, p parser.Parser, gen uint64, onChanged ChangedFunc, visible *Range) {
	e.mu.Lock()
	e.debounce = nil
	stale := e.closed || e.generation != gen || p == nil
	e.mu.Unlock()
	if stale {
		return
	}

	if visible != nil && len(snapshot) >= e.viewportThreshold {
		e.windowPass(snapshot, p, gen, onChanged, *visible)
		return
	}

	e.fullPass(snapshot, p, gen, onChanged)
}

// fullPass tokenizes the entire snapshot and diffs every position.
func (e *Engine) fullPass(snapshot []document.Line, p parser.Parser, gen uint64, onChanged ChangedFunc) {
	toks, err := p.Tokenize(document.Join(snapshot))
	if err != nil {
		// Abandon the pass; the cache keeps its previous state and the
		// next edit triggers a fresh attempt.
		return
	}

	changed, ok := e.applyRange(snapshot, token.IndexByLine(toks), Range{0, len(snapshot)}, 0, gen)
	if ok && len(changed) > 0 {
		e.notifyChanged(onChanged, changed, gen)
	}
}

// windowPass is pass 1 of the two-pass path: tokenize the expanded
// visible window first, then hand the whole document to idle time.
// The window pass bounds latency to the visible area; the idle pass
// guarantees eventual whole-document correctness, fixing any cross-line
// construct the window could not see.
func (e *Engine) windowPass(snapshot []document.Line, p parser.Parser, gen uint64, onChanged ChangedFunc, visible Range) {
	window := visible.Expand(e.viewportBuffer).Clamp(len(snapshot))

	toks, err := p.Tokenize(document.Join(snapshot[window.Start:window.End]))
	if err == nil {
		// Token lines are window-local; applyRange remaps them to
		// absolute positions via the window's start offset.
		changed, ok := e.applyRange(snapshot, token.IndexByLine(toks), window, window.Start, gen)
		if !ok {
			return
		}
		if len(changed) > 0 {
			e.notifyChanged(onChanged, changed, gen)
		}
	}
	// A failed window pass still schedules pass 2; the passes fail
	// independently.

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.generation != gen {
		return
	}
	if e.idle != nil {
		e.idle.Cancel()
	}
	e.idle = e.scheduler.Idle(func() {
		e.mu.Lock()
		e.idle = nil
		stale := e.closed || e.generation != gen
		e.mu.Unlock()
		if stale {
			return
		}
		e.fullPass(snapshot, p, gen, onChanged)
	})
}

// applyRange diffs freshly computed tokens against the cache for every
// position in rng and unconditionally overwrites each entry. byLine is
// keyed by position minus offset. Returns the sorted changed positions;
// ok is false when the parser generation moved on and nothing was
// written.
func (e *Engine) applyRange(snapshot []document.Line, byLine map[int][]token.Token, rng Range, offset int, gen uint64) (changed []int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.generation != gen {
		return nil, false
	}

	for pos := rng.Start; pos < rng.End; pos++ {
		line := snapshot[pos]
		newToks := byLine[pos-offset]

		prev, exists := e.cache.Get(line.ID)
		if !exists || !token.Equal(prev, newToks) {
			changed = append(changed, pos)
		}
		// An empty token set is a valid, cached result: the line was
		// computed, not skipped.
		e.cache.Set(line.ID, line.Text, newToks)
	}

	return changed, true
}

// notifyChanged delivers the changed set on the next frame boundary so
// results never tear an in-progress paint. The frame slot holds at
// most one callback; arming cancels the previous occupant.
func (e *Engine) notifyChanged(onChanged ChangedFunc, changed []int, gen uint64) {
	if onChanged == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.generation != gen {
		return
	}
	if e.frame != nil {
		e.frame.Cancel()
	}
	e.frame = e.scheduler.NextFrame(func() {
		e.mu.Lock()
		e.frame = nil
		stale := e.closed || e.generation != gen
		e.mu.Unlock()
		if stale {
			return
		}
		onChanged(changed)
	})
}
