package service

import (
	"context"

	"github.com/rs/zerolog"

	"libraryfront/internal/catalog"
)

// CatalogPage is one stateless listing response.
type CatalogPage struct {
	catalog.Snapshot
	Display []catalog.DisplayRecord `json:"display"`
	Status  catalog.Status          `json:"status"`
}

// CatalogService answers one-shot listing queries without keeping view state.
type CatalogService interface {
	// List fetches the page described by q. A failed fetch is reported in the page's
	// Status and LastError, never as a returned error.
	List(ctx context.Context, q catalog.QueryState) *CatalogPage
}

type catalogService struct {
	listing catalog.ListingService
	log     zerolog.Logger
	metrics *catalog.Metrics
}

// NewCatalogService constructs a CatalogService on top of listing.
func NewCatalogService(listing catalog.ListingService, log zerolog.Logger, metrics *catalog.Metrics) CatalogService {
	return &catalogService{listing: listing, log: log, metrics: metrics}
}

func (s *catalogService) List(ctx context.Context, q catalog.QueryState) *CatalogPage {
	holder := catalog.NewQueryHolder(q)
	f := catalog.NewFetcher(s.listing, holder, catalog.WithLogger(s.log), catalog.WithMetrics(s.metrics))
	st := f.FetchCurrent(ctx)
	snap := f.Snapshot()
	return &CatalogPage{Snapshot: snap, Display: catalog.Display(snap.Items), Status: st}
}
