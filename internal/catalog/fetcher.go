package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ListingRequest is the payload sent to the listing collaborator, built verbatim from a QueryState.
type ListingRequest struct {
	PageNumber int    `json:"pageNumber"`
	PageSize   int    `json:"pageSize"`
	Category   string `json:"category"`
	Department string `json:"department"`
	SearchTerm string `json:"searchTerm"`
}

// RequestFor copies s into a ListingRequest.
func RequestFor(s QueryState) ListingRequest {
	return ListingRequest{
		PageNumber: s.PageNumber,
		PageSize:   s.PageSize,
		Category:   s.Category,
		Department: s.Department,
		SearchTerm: s.SearchTerm,
	}
}

// ListingService is the remote catalog listing. It returns the raw response body;
// shape validation happens in Normalize.
type ListingService interface {
	Query(ctx context.Context, req ListingRequest) ([]byte, error)
}

// TransportError wraps a failed listing call or an unusable listing body.
type TransportError struct {
	Seq uint64
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("listing fetch #%d: %v", e.Seq, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Outcome says what happened to a fetch's result.
type Outcome string

const (
	// OutcomeApplied means the result replaced the displayed list.
	OutcomeApplied Outcome = "applied"
	// OutcomeStale means a newer fetch was issued meanwhile; the result was dropped.
	OutcomeStale Outcome = "stale"
	// OutcomeFailed means the latest fetch failed; the previous list is still shown.
	OutcomeFailed Outcome = "failed"
)

// Status is the explicit result of one fetch, handed to the view instead of
// toggling global loading flags or notification banners.
type Status struct {
	Seq     uint64     `json:"seq"`
	Outcome Outcome    `json:"outcome"`
	Query   QueryState `json:"query"`
	Err     error      `json:"-"`
	Message string     `json:"message,omitempty"`
}

// Snapshot is the view state derived from the last applied fetch.
type Snapshot struct {
	Query      QueryState       `json:"query"`
	Items      []DocumentRecord `json:"items"`
	TotalCount int              `json:"totalCount"`
	Loading    bool             `json:"loading"`
	AppliedSeq uint64           `json:"appliedSeq"`
	LastError  string           `json:"lastError,omitempty"`
	HasPrev    bool             `json:"hasPrev"`
	HasNext    bool             `json:"hasNext"`
}

const fetchFailedMessage = "Error fetching books."

// Fetcher turns query states into listing calls and reconciles the replies.
// Only the reply to the most recently issued fetch is ever applied; the list and the
// total are replaced together.
type Fetcher struct {
	svc     ListingService
	holder  *QueryHolder
	log     zerolog.Logger
	metrics *Metrics

	mu      sync.Mutex
	issued  uint64
	settled uint64
	applied uint64
	result  ListResult
	lastErr error
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) FetcherOption {
	return func(f *Fetcher) { f.log = l }
}

// WithMetrics attaches catalog metrics.
func WithMetrics(m *Metrics) FetcherOption {
	return func(f *Fetcher) { f.metrics = m }
}

// NewFetcher creates a Fetcher writing totals back into holder.
func NewFetcher(svc ListingService, holder *QueryHolder, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		svc:    svc,
		holder: holder,
		log:    zerolog.Nop(),
		result: ListResult{Items: []DocumentRecord{}},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues a listing call for state and applies its result if no newer fetch
// was issued in the meantime. Errors never escape as panics or returned errors;
// they are reported in the Status and the previous list stays in place.
func (f *Fetcher) Fetch(ctx context.Context, state QueryState) Status {
	f.mu.Lock()
	seq := f.issue()
	f.mu.Unlock()
	return f.run(ctx, seq, state, false, 0)
}

// FetchCurrent reads the holder's state and issues a fetch for it in one step, so the
// latest issued sequence number always belongs to the latest state. A reply that
// arrives after the holder changed again is dropped even if no newer fetch was
// issued yet.
func (f *Fetcher) FetchCurrent(ctx context.Context) Status {
	f.mu.Lock()
	seq := f.issue()
	state, version := f.holder.current()
	f.mu.Unlock()
	return f.run(ctx, seq, state, true, version)
}

// Snapshot returns the current list together with the holder's query.
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	items := make([]DocumentRecord, len(f.result.Items))
	copy(items, f.result.Items)
	snap := Snapshot{
		Items:      items,
		TotalCount: f.result.TotalCount,
		Loading:    f.issued != f.settled,
		AppliedSeq: f.applied,
	}
	if f.lastErr != nil {
		snap.LastError = fetchFailedMessage
	}
	f.mu.Unlock()

	snap.Query = f.holder.State()
	snap.HasPrev = f.holder.HasPrev()
	snap.HasNext = f.holder.HasNext()
	return snap
}

func (f *Fetcher) issue() uint64 {
	f.issued++
	return f.issued
}

// run performs fetch seq for state. When tracked is set the reply only counts while
// the holder is still at version.
func (f *Fetcher) run(ctx context.Context, seq uint64, state QueryState, tracked bool, version uint64) Status {
	ctx, span := otel.Tracer("libraryfront/catalog").Start(ctx, "catalog.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("catalog.seq", int64(seq)),
		attribute.Int("catalog.page", state.PageNumber),
		attribute.Int("catalog.page_size", state.PageSize),
	)

	res, err := f.query(ctx, state)
	if err != nil {
		err = &TransportError{Seq: seq, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
	}

	st := f.reconcile(seq, state, tracked, version, res, err)
	span.SetAttributes(attribute.String("catalog.outcome", string(st.Outcome)))
	f.metrics.observeFetch(st.Outcome)

	ev := f.log.Debug()
	if st.Outcome == OutcomeFailed {
		ev = f.log.Warn().Err(err)
	}
	ev.Uint64("seq", seq).
		Str("outcome", string(st.Outcome)).
		Int("page", state.PageNumber).
		Str("search_term", state.SearchTerm).
		Msg("catalog_fetch")

	return st
}

func (f *Fetcher) query(ctx context.Context, state QueryState) (ListResult, error) {
	if f.svc == nil {
		return ListResult{}, errors.New("no listing service configured")
	}
	raw, err := f.svc.Query(ctx, RequestFor(state))
	if err != nil {
		return ListResult{}, err
	}
	return Normalize(raw)
}

func (f *Fetcher) reconcile(seq uint64, state QueryState, tracked bool, version uint64, res ListResult, err error) Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := Status{Seq: seq, Query: state, Err: err}
	if seq != f.issued {
		st.Outcome = OutcomeStale
		return st
	}

	f.settled = seq
	// the holder changed after this fetch was issued; its own fetch is on the way
	if tracked && f.holder.Version() != version {
		if err == nil && sameQuery(f.holder.State(), state) {
			f.holder.observeTotal(res.TotalCount)
		}
		st.Outcome = OutcomeStale
		return st
	}

	if err != nil {
		f.lastErr = err
		st.Outcome = OutcomeFailed
		st.Message = fetchFailedMessage
		return st
	}

	f.result = res
	f.applied = seq
	f.lastErr = nil
	f.holder.observeTotal(res.TotalCount)
	st.Outcome = OutcomeApplied
	return st
}

// sameQuery reports whether a and b select the same result set, ignoring the page.
func sameQuery(a, b QueryState) bool {
	a.PageNumber, b.PageNumber = 0, 0
	return a == b
}
