package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// fakeClock drives Gate timers by hand.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due timers on the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// stubListing answers every query through respond and records the requests.
type stubListing struct {
	mu      sync.Mutex
	calls   []ListingRequest
	respond func(req ListingRequest) ([]byte, error)
}

func (s *stubListing) Query(_ context.Context, req ListingRequest) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	respond := s.respond
	s.mu.Unlock()
	if respond == nil {
		return []byte(`{"items":[],"totalCount":0}`), nil
	}
	return respond(req)
}

func (s *stubListing) Calls() []ListingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ListingRequest, len(s.calls))
	copy(out, s.calls)
	return out
}

// pagedBody builds an items/totalCount body whose titles name the page they came from.
func pagedBody(req ListingRequest, total int) []byte {
	type rec struct {
		DocumentID int64  `json:"documentId"`
		Title      string `json:"title"`
	}
	items := []rec{}
	for i := 0; i < req.PageSize; i++ {
		n := (req.PageNumber-1)*req.PageSize + i
		if n >= total {
			break
		}
		items = append(items, rec{DocumentID: int64(n + 1), Title: fmt.Sprintf("p%d-%d", req.PageNumber, i)})
	}
	b, _ := json.Marshal(map[string]any{"items": items, "totalCount": total})
	return b
}

type reply struct {
	body []byte
	err  error
}

// gatedListing blocks every call until the test releases it, so replies can be
// delivered in any order.
type gatedListing struct {
	started chan ListingRequest
	mu      sync.Mutex
	release map[int]chan reply
}

func newGatedListing() *gatedListing {
	return &gatedListing{started: make(chan ListingRequest, 16), release: make(map[int]chan reply)}
}

func (g *gatedListing) ch(page int) chan reply {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.release[page]
	if !ok {
		c = make(chan reply, 1)
		g.release[page] = c
	}
	return c
}

func (g *gatedListing) Query(ctx context.Context, req ListingRequest) ([]byte, error) {
	c := g.ch(req.PageNumber)
	g.started <- req
	select {
	case r := <-c:
		return r.body, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedListing) Release(page int, body []byte, err error) {
	g.ch(page) <- reply{body: body, err: err}
}
