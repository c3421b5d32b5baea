package catalog

import "sync"

// DefaultPageSize is used when a view is created without an explicit page size.
const DefaultPageSize = 10

// QueryState is what the user currently wants to see.
type QueryState struct {
	PageNumber int    `json:"pageNumber"`
	PageSize   int    `json:"pageSize"`
	SearchTerm string `json:"searchTerm"`
	Category   string `json:"category"`
	Department string `json:"department"`
}

// DefaultQueryState returns page 1 with no search term and no filters.
func DefaultQueryState(pageSize int) QueryState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return QueryState{PageNumber: 1, PageSize: pageSize}
}

// QueryHolder is the single source of truth for a view's QueryState.
// PageNumber never drops below 1, and any change of search term or filters resets it to 1.
//
// Once a total count is known, moves past the last page it implies are rejected
// instead of requesting an empty page.
type QueryHolder struct {
	mu         sync.RWMutex
	state      QueryState
	total      int
	totalKnown bool
	version    uint64
}

// NewQueryHolder creates a holder starting at initial, repairing an invalid page or size.
func NewQueryHolder(initial QueryState) *QueryHolder {
	if initial.PageNumber < 1 {
		initial.PageNumber = 1
	}
	if initial.PageSize <= 0 {
		initial.PageSize = DefaultPageSize
	}
	return &QueryHolder{state: initial}
}

// State returns a copy of the current query.
func (h *QueryHolder) State() QueryState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Version counts the accepted changes to the state.
func (h *QueryHolder) Version() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.version
}

func (h *QueryHolder) current() (QueryState, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state, h.version
}

// SetPage moves to page n. It reports false and leaves the state untouched when
// n < 1 or n lies beyond the last known page.
func (h *QueryHolder) SetPage(n int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.setPageLocked(n)
}

// NextPage moves forward by exactly one page.
func (h *QueryHolder) NextPage() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.setPageLocked(h.state.PageNumber + 1)
}

// PrevPage moves back by exactly one page; at page 1 it is a no-op.
func (h *QueryHolder) PrevPage() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.setPageLocked(h.state.PageNumber - 1)
}

// SetSearchTerm replaces the free-text term and resets to page 1.
func (h *QueryHolder) SetSearchTerm(term string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.SearchTerm = term
	h.resetLocked()
	h.version++
}

// SetFilters replaces the category and department filters and resets to page 1.
// An empty value means "no filter".
func (h *QueryHolder) SetFilters(category, department string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Category = category
	h.state.Department = department
	h.resetLocked()
	h.version++
}

// LastPage returns the last page implied by the most recent total count.
// ok is false until a fetch has succeeded.
func (h *QueryHolder) LastPage() (last int, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.totalKnown {
		return 0, false
	}
	return h.lastPageLocked(), true
}

// HasPrev reports whether PrevPage would be accepted.
func (h *QueryHolder) HasPrev() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.PageNumber > 1
}

// HasNext reports whether NextPage would be accepted.
func (h *QueryHolder) HasNext() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.totalKnown {
		return true
	}
	return h.state.PageNumber < h.lastPageLocked()
}

// observeTotal records the total count of the last applied fetch.
func (h *QueryHolder) observeTotal(total int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total = total
	h.totalKnown = true
}

// resetLocked returns to page 1 and forgets the total, which belonged to the previous query.
func (h *QueryHolder) resetLocked() {
	h.state.PageNumber = 1
	h.total = 0
	h.totalKnown = false
}

func (h *QueryHolder) setPageLocked(n int) bool {
	if n < 1 {
		return false
	}
	if h.totalKnown && n > h.lastPageLocked() {
		return false
	}
	h.state.PageNumber = n
	h.version++
	return true
}

func (h *QueryHolder) lastPageLocked() int {
	last := (h.total + h.state.PageSize - 1) / h.state.PageSize
	if last < 1 {
		return 1
	}
	return last
}
