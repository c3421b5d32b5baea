package catalog

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds catalog instrumentation. A nil *Metrics records nothing.
type Metrics struct {
	fetches     *prometheus.CounterVec
	activeViews prometheus.Gauge
	evictions   prometheus.Counter
}

// NewMetrics registers the catalog collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_fetches_total",
				Help: "Catalog listing fetches by outcome (applied, stale, failed).",
			},
			[]string{"outcome"},
		),
		activeViews: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_active_views",
			Help: "Number of open stateful catalog views.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_view_evictions_total",
			Help: "Catalog views closed by expiry, capacity or explicit teardown.",
		}),
	}
	for _, c := range []prometheus.Collector{m.fetches, m.activeViews, m.evictions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeFetch(o Outcome) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(string(o)).Inc()
}

func (m *Metrics) viewOpened() {
	if m == nil {
		return
	}
	m.activeViews.Inc()
}

func (m *Metrics) viewClosed() {
	if m == nil {
		return
	}
	m.activeViews.Dec()
	m.evictions.Inc()
}
