package catalog

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet window applied to search input.
const DefaultDebounce = 400 * time.Millisecond

// Timer is the part of *time.Timer the Gate needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through StdAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// StdAfterFunc schedules f on the runtime timer.
func StdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Gate absorbs rapid search-term changes and emits at most one term per quiet window.
// A term equal to the previously emitted one is swallowed.
//
// Each Push cancels the pending timer and arms a new one. Every timer carries the
// generation it was armed with; a timer that fires after being superseded or after
// Close finds a newer generation and does nothing.
type Gate struct {
	mu      sync.Mutex
	window  time.Duration
	emit    func(string)
	after   AfterFunc
	timer   Timer
	gen     uint64
	last    string
	emitted bool
	closed  bool
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithAfterFunc replaces the timer source, mainly for tests.
func WithAfterFunc(fn AfterFunc) GateOption {
	return func(g *Gate) {
		if fn != nil {
			g.after = fn
		}
	}
}

// NewGate creates a gate calling emit with settled terms. A non-positive window
// falls back to DefaultDebounce.
func NewGate(window time.Duration, emit func(string), opts ...GateOption) *Gate {
	if window <= 0 {
		window = DefaultDebounce
	}
	g := &Gate{window: window, emit: emit, after: StdAfterFunc}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Push records a new input value and restarts the quiet window.
func (g *Gate) Push(term string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	if g.timer != nil {
		g.timer.Stop()
	}
	g.gen++
	gen := g.gen
	g.timer = g.after(g.window, func() { g.fire(gen, term) })
}

// Pending reports whether a term is waiting for its quiet window to elapse.
func (g *Gate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer != nil
}

// Close cancels any pending emission. Later pushes are ignored.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *Gate) fire(gen uint64, term string) {
	g.mu.Lock()
	if g.closed || gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.timer = nil
	if g.emitted && term == g.last {
		g.mu.Unlock()
		return
	}
	g.last = term
	g.emitted = true
	g.mu.Unlock()

	g.emit(term)
}
