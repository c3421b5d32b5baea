package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Kind distinguishes the admin catalog screen from the user browse screen.
type Kind string

const (
	KindAdmin Kind = "admin"
	KindUser  Kind = "user"
)

// Valid reports whether k names a known screen.
func (k Kind) Valid() bool {
	return k == KindAdmin || k == KindUser
}

// ViewOptions configures a View.
type ViewOptions struct {
	PageSize  int
	Debounce  time.Duration
	AfterFunc AfterFunc
	Logger    zerolog.Logger
	Metrics   *Metrics
}

// View binds a QueryHolder, a Gate and a Fetcher for one catalog screen.
// Paging and filter calls fetch synchronously and return the Status; search input
// goes through the gate and fetches from the timer goroutine.
type View struct {
	id      string
	kind    Kind
	holder  *QueryHolder
	fetcher *Fetcher
	gate    *Gate
	log     zerolog.Logger
	metrics *Metrics

	// base context for debounced fetches; canceled by Close
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	subs   map[chan Snapshot]struct{}
	closed bool
}

// NewView creates an inactive view. Call Activate to load the first page.
func NewView(id string, kind Kind, svc ListingService, opts ViewOptions) *View {
	holder := NewQueryHolder(DefaultQueryState(opts.PageSize))
	log := opts.Logger.With().Str("view_id", id).Str("view_kind", string(kind)).Logger()
	ctx, cancel := context.WithCancel(context.Background())

	v := &View{
		id:      id,
		kind:    kind,
		holder:  holder,
		fetcher: NewFetcher(svc, holder, WithLogger(log), WithMetrics(opts.Metrics)),
		log:     log,
		metrics: opts.Metrics,
		ctx:     ctx,
		cancel:  cancel,
		subs:    make(map[chan Snapshot]struct{}),
	}
	v.gate = NewGate(opts.Debounce, v.onSearch, WithAfterFunc(opts.AfterFunc))
	v.metrics.viewOpened()
	return v
}

// ID returns the view identifier.
func (v *View) ID() string { return v.id }

// Kind returns which screen the view backs.
func (v *View) Kind() Kind { return v.kind }

// Activate loads the first page with the default query.
func (v *View) Activate(ctx context.Context) Status {
	return v.fetch(ctx)
}

// Search feeds free-text input into the debounce gate. The fetch happens once the
// input has been quiet for the gate's window.
func (v *View) Search(term string) {
	v.gate.Push(term)
}

// NextPage advances one page and fetches it. ok is false when the move was rejected,
// in which case nothing is fetched.
func (v *View) NextPage(ctx context.Context) (Status, bool) {
	if !v.holder.NextPage() {
		return Status{}, false
	}
	return v.fetch(ctx), true
}

// PrevPage goes back one page and fetches it. At page 1 nothing happens.
func (v *View) PrevPage(ctx context.Context) (Status, bool) {
	if !v.holder.PrevPage() {
		return Status{}, false
	}
	return v.fetch(ctx), true
}

// GoToPage jumps to page n and fetches it.
func (v *View) GoToPage(ctx context.Context, n int) (Status, bool) {
	if !v.holder.SetPage(n) {
		return Status{}, false
	}
	return v.fetch(ctx), true
}

// ApplyFilters replaces the filters, returns to page 1 and fetches.
func (v *View) ApplyFilters(ctx context.Context, category, department string) Status {
	v.holder.SetFilters(category, department)
	return v.fetch(ctx)
}

// Refresh refetches the current query, e.g. after a book was added or removed.
func (v *View) Refresh(ctx context.Context) Status {
	return v.fetch(ctx)
}

// Snapshot returns the current view state.
func (v *View) Snapshot() Snapshot {
	return v.fetcher.Snapshot()
}

// Subscribe returns a channel receiving a snapshot after every applied or failed fetch,
// and a function to stop receiving. Slow subscribers miss updates rather than block.
func (v *View) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if _, ok := v.subs[ch]; ok {
				delete(v.subs, ch)
				close(ch)
			}
		})
	}
}

// Closed reports whether Close has been called.
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Close tears the view down: pending search input is dropped, in-flight debounced
// fetches are canceled and subscribers are released.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	for ch := range v.subs {
		delete(v.subs, ch)
		close(ch)
	}
	v.mu.Unlock()

	v.gate.Close()
	v.cancel()
	v.metrics.viewClosed()
	v.log.Debug().Msg("catalog_view_closed")
}

func (v *View) onSearch(term string) {
	v.holder.SetSearchTerm(term)
	v.fetch(v.ctx)
}

func (v *View) fetch(ctx context.Context) Status {
	st := v.fetcher.FetchCurrent(ctx)
	if st.Outcome != OutcomeStale {
		v.broadcast(v.fetcher.Snapshot())
	}
	return st
}

func (v *View) broadcast(snap Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for ch := range v.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
