package main

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/glint/internal/config"
	"github.com/dshills/glint/internal/document"
	"github.com/dshills/glint/internal/highlight"
	"github.com/dshills/glint/internal/parser"
	"github.com/dshills/glint/internal/theme"
)

// viewer is a read-only terminal file viewer. Scrolling schedules
// viewport-first tokenization; change notifications repaint only the
// lines whose tokens differ.
type viewer struct {
	screen  tcell.Screen
	doc     *document.Document
	eng     *highlight.Engine
	th      *theme.Theme
	watcher *fileWatcher

	path     string
	tabWidth int
	topLine  int
	height   int
	width    int

	// pending accumulates line positions from engine notifications
	// until the event loop drains them; changed signals that pending
	// is non-empty. Accumulating instead of handing over a slice means
	// a burst of notifications can never outrun the event loop and
	// drop a repaint.
	pendingMu sync.Mutex
	pending   map[int]struct{}
	changed   chan struct{}
}

func newViewer(path string, p parser.Parser, th *theme.Theme, cfg *config.Config) (*viewer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}

	watcher, err := newFileWatcher(path)
	if err != nil {
		screen.Fini()
		return nil, err
	}

	v := &viewer{
		screen: screen,
		doc:    document.New(string(data)),
		eng: highlight.New(highlight.Options{
			Parser:            p,
			DebounceDelay:     cfg.DebounceDelay(),
			ViewportThreshold: cfg.Engine.ViewportThreshold,
			ViewportBuffer:    cfg.Engine.ViewportBuffer,
			FrameInterval:     cfg.FrameInterval(),
		}),
		th:       th,
		watcher:  watcher,
		path:     path,
		tabWidth: cfg.Viewer.TabWidth,
		pending:  make(map[int]struct{}),
		changed:  make(chan struct{}, 1),
	}
	return v, nil
}

func (v *viewer) close() {
	v.eng.Close()
	_ = v.watcher.stop()
	v.screen.Fini()
}

func (v *viewer) run() error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	v.screen.SetStyle(v.th.Base())
	v.width, v.height = v.screen.Size()

	reload, err := v.watcher.start()
	if err != nil {
		return err
	}

	// First paint is synchronous so the initial view is styled at once.
	v.eng.TokenizeSync(v.doc.Snapshot())
	v.drawAll()

	events := make(chan tcell.Event, 8)
	quit := make(chan struct{})
	go v.screen.ChannelEvents(events, quit)
	defer close(quit)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if done := v.handleEvent(ev); done {
				return nil
			}

		case <-reload:
			v.reloadFile()

		case <-v.changed:
			v.drawChanged(v.takePending())
		}
	}
}

func (v *viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.width, v.height = ev.Size()
		v.screen.Sync()
		v.drawAll()
		v.reschedule()

	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
			return true
		case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
			v.scrollBy(-1)
		case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
			v.scrollBy(1)
		case ev.Key() == tcell.KeyPgUp:
			v.scrollBy(-v.contentHeight())
		case ev.Key() == tcell.KeyPgDn || ev.Rune() == ' ':
			v.scrollBy(v.contentHeight())
		case ev.Key() == tcell.KeyHome || ev.Rune() == 'g':
			v.scrollTo(0)
		case ev.Key() == tcell.KeyEnd || ev.Rune() == 'G':
			v.scrollTo(v.doc.LineCount())
		}
	}
	return false
}

// contentHeight is the viewport height excluding the status line.
func (v *viewer) contentHeight() int {
	if v.height <= 1 {
		return v.height
	}
	return v.height - 1
}

func (v *viewer) scrollBy(delta int) {
	v.scrollTo(v.topLine + delta)
}

func (v *viewer) scrollTo(top int) {
	max := v.doc.LineCount() - v.contentHeight()
	if top > max {
		top = max
	}
	if top < 0 {
		top = 0
	}
	if top == v.topLine {
		return
	}
	v.topLine = top
	v.drawAll()
	v.reschedule()
}

// reschedule asks the engine for a fresh viewport-first pass.
func (v *viewer) reschedule() {
	visible := highlight.Range{Start: v.topLine, End: v.topLine + v.contentHeight()}
	v.eng.ScheduleAsync(v.doc.Snapshot(), v.notifyChanged, &visible)
}

// notifyChanged runs on the scheduler goroutine; merge the positions
// into the pending set and wake the event loop instead of touching the
// screen here.
func (v *viewer) notifyChanged(positions []int) {
	v.pendingMu.Lock()
	for _, pos := range positions {
		v.pending[pos] = struct{}{}
	}
	v.pendingMu.Unlock()

	select {
	case v.changed <- struct{}{}:
	default:
	}
}

// takePending drains the pending set into a sorted position list.
func (v *viewer) takePending() []int {
	v.pendingMu.Lock()
	positions := make([]int, 0, len(v.pending))
	for pos := range v.pending {
		positions = append(positions, pos)
	}
	clear(v.pending)
	v.pendingMu.Unlock()

	sort.Ints(positions)
	return positions
}

func (v *viewer) reloadFile() {
	data, err := os.ReadFile(v.path)
	if err != nil {
		// The file may be mid-rename; the next event will catch up.
		return
	}
	v.doc.Replace(string(data))
	v.scrollTo(v.topLine) // clamp against the new length
	v.drawAll()
	v.reschedule()
}

func (v *viewer) drawAll() {
	v.screen.Clear()
	for row := 0; row < v.contentHeight(); row++ {
		v.drawLine(row, v.topLine+row)
	}
	v.drawStatus()
	v.screen.Show()
}

// drawChanged repaints only the visible lines among the changed
// positions.
func (v *viewer) drawChanged(positions []int) {
	painted := false
	for _, pos := range positions {
		row := pos - v.topLine
		if row < 0 || row >= v.contentHeight() {
			continue
		}
		v.drawLine(row, pos)
		painted = true
	}
	if painted {
		v.screen.Show()
	}
}

func (v *viewer) drawLine(row, pos int) {
	base := v.th.Base()
	for x := 0; x < v.width; x++ {
		v.screen.SetContent(x, row, ' ', nil, base)
	}

	line, ok := v.doc.Line(pos)
	if !ok {
		return
	}

	toks, _ := v.eng.LineTokens(line.ID)
	kinds := kindsForLine(line.Text, toks)

	col := 0
	for off, r := range line.Text {
		if col >= v.width {
			break
		}
		if r == '\t' {
			next := (col/v.tabWidth + 1) * v.tabWidth
			for ; col < next && col < v.width; col++ {
				v.screen.SetContent(col, row, ' ', nil, base)
			}
			continue
		}
		style := v.th.TcellStyle(v.th.StyleFor(kinds[off]))
		v.screen.SetContent(col, row, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
}

func (v *viewer) drawStatus() {
	if v.height < 1 {
		return
	}
	row := v.height - 1
	lang := "plain"
	if p := v.eng.Parser(); p != nil {
		lang = p.Language()
	}
	text := fmt.Sprintf(" %s  [%s]  %d/%d ", v.path, lang, v.topLine+1, v.doc.LineCount())
	style := v.th.Base().Reverse(true)

	col := 0
	for _, r := range text {
		if col >= v.width {
			break
		}
		v.screen.SetContent(col, row, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	for ; col < v.width; col++ {
		v.screen.SetContent(col, row, ' ', nil, style)
	}
}
