package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitStarted(t *testing.T, g *gatedListing) ListingRequest {
	t.Helper()
	select {
	case req := <-g.started:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("listing call never started")
		return ListingRequest{}
	}
}

func waitStatus(t *testing.T, ch <-chan Status) Status {
	t.Helper()
	select {
	case st := <-ch:
		return st
	case <-time.After(2 * time.Second):
		t.Fatal("fetch never returned")
		return Status{}
	}
}

func TestRequestFor_CopiesState(t *testing.T) {
	req := RequestFor(QueryState{PageNumber: 3, PageSize: 30, SearchTerm: "go", Category: "Book", Department: "Math"})

	assert.Equal(t, ListingRequest{PageNumber: 3, PageSize: 30, SearchTerm: "go", Category: "Book", Department: "Math"}, req)
}

func TestFetcher_AppliesListAndTotalTogether(t *testing.T) {
	svc := &stubListing{respond: func(req ListingRequest) ([]byte, error) { return pagedBody(req, 25), nil }}
	holder := NewQueryHolder(DefaultQueryState(10))
	f := NewFetcher(svc, holder)

	st := f.FetchCurrent(context.Background())

	assert.Equal(t, OutcomeApplied, st.Outcome)
	assert.Equal(t, uint64(1), st.Seq)
	snap := f.Snapshot()
	assert.Len(t, snap.Items, 10)
	assert.Equal(t, 25, snap.TotalCount)
	assert.Equal(t, uint64(1), snap.AppliedSeq)
	assert.False(t, snap.Loading)
	assert.True(t, snap.HasNext)
	assert.False(t, snap.HasPrev)

	last, ok := holder.LastPage()
	assert.True(t, ok)
	assert.Equal(t, 3, last)

	require.Len(t, svc.Calls(), 1)
	assert.Equal(t, ListingRequest{PageNumber: 1, PageSize: 10}, svc.Calls()[0])
}

func TestFetcher_OutOfOrderRepliesKeepLatest(t *testing.T) {
	svc := newGatedListing()
	holder := NewQueryHolder(DefaultQueryState(10))
	f := NewFetcher(svc, holder)

	stateA := QueryState{PageNumber: 1, PageSize: 10, SearchTerm: "a"}
	stateB := QueryState{PageNumber: 2, PageSize: 10, SearchTerm: "ab"}

	doneA := make(chan Status, 1)
	go func() { doneA <- f.Fetch(context.Background(), stateA) }()
	waitStarted(t, svc)

	doneB := make(chan Status, 1)
	go func() { doneB <- f.Fetch(context.Background(), stateB) }()
	waitStarted(t, svc)

	assert.True(t, f.Snapshot().Loading)

	bodyB := pagedBody(RequestFor(stateB), 40)
	svc.Release(2, bodyB, nil)
	stB := waitStatus(t, doneB)
	assert.Equal(t, OutcomeApplied, stB.Outcome)

	svc.Release(1, pagedBody(RequestFor(stateA), 40), nil)
	stA := waitStatus(t, doneA)
	assert.Equal(t, OutcomeStale, stA.Outcome)

	want, err := Normalize(bodyB)
	require.NoError(t, err)
	snap := f.Snapshot()
	assert.Equal(t, want.Items, snap.Items)
	assert.Equal(t, stB.Seq, snap.AppliedSeq)
	assert.False(t, snap.Loading)
}

func TestFetcher_StaleFailureIsNotSurfaced(t *testing.T) {
	svc := newGatedListing()
	f := NewFetcher(svc, NewQueryHolder(DefaultQueryState(10)))

	doneA := make(chan Status, 1)
	go func() { doneA <- f.Fetch(context.Background(), QueryState{PageNumber: 1, PageSize: 10}) }()
	waitStarted(t, svc)

	doneB := make(chan Status, 1)
	go func() { doneB <- f.Fetch(context.Background(), QueryState{PageNumber: 2, PageSize: 10}) }()
	waitStarted(t, svc)

	svc.Release(2, pagedBody(ListingRequest{PageNumber: 2, PageSize: 10}, 15), nil)
	waitStatus(t, doneB)
	svc.Release(1, nil, errors.New("connection reset"))
	stA := waitStatus(t, doneA)

	assert.Equal(t, OutcomeStale, stA.Outcome)
	assert.Error(t, stA.Err)
	assert.Empty(t, f.Snapshot().LastError)
}

func TestFetcher_ReplyForReplacedFiltersIsDropped(t *testing.T) {
	svc := newGatedListing()
	holder := NewQueryHolder(DefaultQueryState(10))
	f := NewFetcher(svc, holder)

	done := make(chan Status, 1)
	go func() { done <- f.FetchCurrent(context.Background()) }()
	old := waitStarted(t, svc)

	holder.SetFilters("Articles", "")
	svc.Release(1, pagedBody(old, 95), nil)
	st := waitStatus(t, done)

	assert.Equal(t, OutcomeStale, st.Outcome)
	snap := f.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, uint64(0), snap.AppliedSeq)
	assert.Equal(t, "Articles", snap.Query.Category)
	_, known := holder.LastPage()
	assert.False(t, known, "total of the old filters must not survive")

	go func() { done <- f.FetchCurrent(context.Background()) }()
	req := waitStarted(t, svc)
	assert.Equal(t, "Articles", req.Category)
	svc.Release(1, pagedBody(req, 12), nil)
	st = waitStatus(t, done)

	assert.Equal(t, OutcomeApplied, st.Outcome)
	assert.Equal(t, 12, f.Snapshot().TotalCount)
	last, known := holder.LastPage()
	assert.True(t, known)
	assert.Equal(t, 2, last)
}

func TestFetcher_ReplyForPreviousPageKeepsTotal(t *testing.T) {
	svc := newGatedListing()
	holder := NewQueryHolder(DefaultQueryState(10))
	f := NewFetcher(svc, holder)

	done := make(chan Status, 1)
	go func() { done <- f.FetchCurrent(context.Background()) }()
	old := waitStarted(t, svc)

	require.True(t, holder.NextPage())
	svc.Release(1, pagedBody(old, 95), nil)
	st := waitStatus(t, done)

	assert.Equal(t, OutcomeStale, st.Outcome)
	assert.Empty(t, f.Snapshot().Items)
	last, known := holder.LastPage()
	assert.True(t, known)
	assert.Equal(t, 10, last)
}

func TestFetcher_FailureKeepsLastKnownGood(t *testing.T) {
	boom := errors.New("backend down")
	fail := false
	svc := &stubListing{respond: func(req ListingRequest) ([]byte, error) {
		if fail {
			return nil, boom
		}
		return pagedBody(req, 12), nil
	}}
	f := NewFetcher(svc, NewQueryHolder(DefaultQueryState(10)))

	require.Equal(t, OutcomeApplied, f.FetchCurrent(context.Background()).Outcome)
	before := f.Snapshot()

	fail = true
	st := f.FetchCurrent(context.Background())

	assert.Equal(t, OutcomeFailed, st.Outcome)
	assert.Equal(t, "Error fetching books.", st.Message)
	assert.ErrorIs(t, st.Err, boom)
	var te *TransportError
	require.ErrorAs(t, st.Err, &te)
	assert.Equal(t, st.Seq, te.Seq)

	after := f.Snapshot()
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.TotalCount, after.TotalCount)
	assert.Equal(t, before.AppliedSeq, after.AppliedSeq)
	assert.Equal(t, "Error fetching books.", after.LastError)
	assert.False(t, after.Loading)

	fail = false
	assert.Equal(t, OutcomeApplied, f.FetchCurrent(context.Background()).Outcome)
	assert.Empty(t, f.Snapshot().LastError)
}

func TestFetcher_MalformedBodyIsTransportFailure(t *testing.T) {
	svc := &stubListing{respond: func(ListingRequest) ([]byte, error) { return []byte(`{"rows":[]}`), nil }}
	f := NewFetcher(svc, NewQueryHolder(DefaultQueryState(10)))

	st := f.FetchCurrent(context.Background())

	assert.Equal(t, OutcomeFailed, st.Outcome)
	assert.ErrorIs(t, st.Err, ErrUnrecognizedShape)
	assert.Empty(t, f.Snapshot().Items)
}

func TestFetcher_NilServiceFails(t *testing.T) {
	f := NewFetcher(nil, NewQueryHolder(DefaultQueryState(10)))

	st := f.FetchCurrent(context.Background())

	assert.Equal(t, OutcomeFailed, st.Outcome)
	assert.NotNil(t, f.Snapshot().Items)
}

func TestFetcher_RecordsOutcomeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	fail := false
	svc := &stubListing{respond: func(req ListingRequest) ([]byte, error) {
		if fail {
			return nil, errors.New("down")
		}
		return pagedBody(req, 3), nil
	}}
	f := NewFetcher(svc, NewQueryHolder(DefaultQueryState(10)), WithMetrics(m))

	f.FetchCurrent(context.Background())
	fail = true
	f.FetchCurrent(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("failed")))
}

func TestNewMetrics_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeFetch(OutcomeApplied)
		m.viewOpened()
		m.viewClosed()
	})
}
