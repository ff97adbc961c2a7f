// Package sched provides a cooperative scheduler with three deferred
// execution tiers: delayed one-shot timers, frame-aligned callbacks,
// and idle callbacks that run only when nothing else is pending.
//
// All callbacks run sequentially on a single goroutine, so work
// scheduled here never races with itself. Within the loop, due timers
// run before frame callbacks, and idle callbacks run only when no
// timer is due and no frame callback is queued.
package sched

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// handleState tracks the lifecycle of a scheduled callback.
type handleState uint8

const (
	statePending handleState = iota
	stateCancelled
	stateFired
)

// Handle represents a single scheduled callback. A handle is owned by
// whoever scheduled it and can be cancelled until it fires.
type Handle struct {
	mu    sync.Mutex
	state handleState
	fn    func()
	due   time.Time // timer tier only
}

// Cancel prevents the callback from running. It is safe to call
// repeatedly and after the callback has fired. Returns true if the
// callback was still pending.
func (h *Handle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != statePending {
		return false
	}
	h.state = stateCancelled
	h.fn = nil
	return true
}

// pending reports whether the handle is still awaiting execution.
func (h *Handle) pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == statePending
}

// run executes the callback unless it was cancelled.
func (h *Handle) run() {
	h.mu.Lock()
	if h.state != statePending {
		h.mu.Unlock()
		return
	}
	h.state = stateFired
	fn := h.fn
	h.fn = nil
	h.mu.Unlock()

	fn()
}

// Scheduler runs deferred callbacks on one goroutine with three
// priority tiers.
type Scheduler struct {
	mu            sync.Mutex
	frameInterval time.Duration
	timers        []*Handle
	frames        []*Handle
	idles         []*Handle
	nextFrame     time.Time
	wake          chan struct{}
	done          chan struct{}
	stopped       bool
}

// New creates a scheduler and starts its run loop. frameInterval <= 0
// selects DefaultFrameInterval.
func New(frameInterval time.Duration) *Scheduler {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	s := &Scheduler{
		frameInterval: frameInterval,
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	go s.loop()
	return s
}

// After schedules fn to run once after the given delay.
func (s *Scheduler) After(delay time.Duration, fn func()) *Handle {
	h := &Handle{fn: fn, due: time.Now().Add(delay)}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		h.Cancel()
		return h
	}
	s.timers = append(s.timers, h)
	s.mu.Unlock()

	s.wakeLoop()
	return h
}

// NextFrame schedules fn to run at the next frame boundary.
func (s *Scheduler) NextFrame(fn func()) *Handle {
	h := &Handle{fn: fn}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		h.Cancel()
		return h
	}
	if s.nextFrame.IsZero() || s.nextFrame.Before(time.Now()) {
		s.nextFrame = time.Now().Add(s.frameInterval)
	}
	s.frames = append(s.frames, h)
	s.mu.Unlock()

	s.wakeLoop()
	return h
}

// Idle schedules fn to run when no timer is due and no frame callback
// is queued. Idle work always yields to the other tiers.
func (s *Scheduler) Idle(fn func()) *Handle {
	h := &Handle{fn: fn}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		h.Cancel()
		return h
	}
	s.idles = append(s.idles, h)
	s.mu.Unlock()

	s.wakeLoop()
	return h
}

// Stop cancels all pending callbacks and terminates the run loop. It
// blocks until the loop has exited. Safe to call repeatedly.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.stopped = true
	pending := make([]*Handle, 0, len(s.timers)+len(s.frames)+len(s.idles))
	pending = append(pending, s.timers...)
	pending = append(pending, s.frames...)
	pending = append(pending, s.idles...)
	s.timers, s.frames, s.idles = nil, nil, nil
	s.mu.Unlock()

	for _, h := range pending {
		h.Cancel()
	}
	s.wakeLoop()
	<-s.done
}

// wakeLoop nudges the run loop without blocking.
func (s *Scheduler) wakeLoop() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// loop is the scheduler's single execution thread.
func (s *Scheduler) loop() {
	defer close(s.done)

	wait := time.NewTimer(time.Hour)
	defer wait.Stop()

	for {
		runnable, sleep, ok := s.collect()
		if !ok {
			return
		}

		if len(runnable) > 0 {
			for _, h := range runnable {
				h.run()
			}
			continue
		}

		if !wait.Stop() {
			select {
			case <-wait.C:
			default:
			}
		}
		wait.Reset(sleep)

		select {
		case <-s.wake:
		case <-wait.C:
		}
	}
}

// collect gathers runnable handles in priority order and computes how
// long the loop may sleep when nothing is runnable. ok is false once
// the scheduler is stopped.
func (s *Scheduler) collect() (runnable []*Handle, sleep time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, 0, false
	}

	now := time.Now()

	// Tier 1: due timers.
	rest := s.timers[:0]
	for _, h := range s.timers {
		if !h.pending() {
			continue
		}
		if !h.due.After(now) {
			runnable = append(runnable, h)
		} else {
			rest = append(rest, h)
		}
	}
	s.timers = rest

	if len(runnable) > 0 {
		return runnable, 0, true
	}

	// Tier 2: frame callbacks, released at the frame boundary.
	if len(s.frames) > 0 && !s.nextFrame.After(now) {
		runnable = s.frames
		s.frames = nil
		s.nextFrame = now.Add(s.frameInterval)
		return runnable, 0, true
	}

	// Tier 3: one idle callback, only when nothing else is waiting to run.
	if len(s.idles) > 0 && len(s.frames) == 0 && !s.timerDueWithin(now, s.frameInterval) {
		h := s.idles[0]
		s.idles = s.idles[1:]
		return []*Handle{h}, 0, true
	}

	// Nothing runnable: compute the next deadline.
	sleep = time.Hour
	for _, h := range s.timers {
		if d := h.due.Sub(now); d < sleep {
			sleep = d
		}
	}
	if len(s.frames) > 0 {
		if d := s.nextFrame.Sub(now); d < sleep {
			sleep = d
		}
	}
	if len(s.idles) > 0 && sleep > s.frameInterval {
		// Re-check the idle tier within one frame.
		sleep = s.frameInterval
	}
	if sleep < 0 {
		sleep = 0
	}
	return nil, sleep, true
}

// timerDueWithin reports whether any pending timer comes due within d.
func (s *Scheduler) timerDueWithin(now time.Time, d time.Duration) bool {
	for _, h := range s.timers {
		if h.pending() && h.due.Sub(now) <= d {
			return true
		}
	}
	return false
}
