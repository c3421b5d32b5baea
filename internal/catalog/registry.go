package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	MaxViews  int
	TTL       time.Duration
	PageSizes map[Kind]int
	Debounce  time.Duration
	AfterFunc AfterFunc
	Logger    zerolog.Logger
	Metrics   *Metrics
}

// Registry keeps the open stateful views in an expirable LRU. A view that expires,
// is pushed out by capacity or is removed explicitly gets closed.
type Registry struct {
	views *expirable.LRU[string, *View]
	svc   ListingService
	opts  RegistryOptions
	log   zerolog.Logger
}

// NewRegistry creates a registry whose views query svc.
func NewRegistry(svc ListingService, opts RegistryOptions) *Registry {
	if opts.MaxViews <= 0 {
		opts.MaxViews = 1000
	}
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Minute
	}
	r := &Registry{svc: svc, opts: opts, log: opts.Logger}
	r.views = expirable.NewLRU[string, *View](opts.MaxViews, func(_ string, v *View) {
		v.Close()
	}, opts.TTL)
	return r
}

// Open creates a view of the given kind, loads its first page and registers it.
func (r *Registry) Open(ctx context.Context, kind Kind) (*View, Status) {
	v := NewView(uuid.NewString(), kind, r.svc, ViewOptions{
		PageSize:  r.opts.PageSizes[kind],
		Debounce:  r.opts.Debounce,
		AfterFunc: r.opts.AfterFunc,
		Logger:    r.log,
		Metrics:   r.opts.Metrics,
	})
	r.views.Add(v.ID(), v)
	st := v.Activate(ctx)
	r.log.Info().
		Str("view_id", v.ID()).
		Str("view_kind", string(kind)).
		Str("outcome", string(st.Outcome)).
		Msg("catalog_view_opened")
	return v, st
}

// Get returns the view with id and restarts its expiry clock.
func (r *Registry) Get(id string) (*View, bool) {
	v, ok := r.views.Get(id)
	if !ok {
		return nil, false
	}
	r.views.Add(id, v)
	// a Close or expiry between Get and Add leaves a closed view re-inserted
	if v.Closed() {
		r.views.Remove(id)
		return nil, false
	}
	return v, true
}

// Close removes and closes the view with id.
func (r *Registry) Close(id string) bool {
	return r.views.Remove(id)
}

// Len returns the number of open views.
func (r *Registry) Len() int {
	return r.views.Len()
}

// Purge closes every view.
func (r *Registry) Purge() {
	r.views.Purge()
}
