package backend

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

// Metrics instruments backend calls. A nil *Metrics records nothing.
type Metrics struct {
	calls   *prometheus.HistogramVec
	breaker prometheus.Gauge
}

// NewMetrics registers the backend collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_call_duration_seconds",
				Help:    "Latency of catalog backend calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "outcome"},
		),
		breaker: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "backend_breaker_state",
			Help: "Backend circuit breaker state (0 closed, 1 half-open, 2 open).",
		}),
	}
	if err := reg.Register(m.calls); err != nil {
		return nil, err
	}
	if err := reg.Register(m.breaker); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observeCall(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrUnavailable):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	m.calls.WithLabelValues(op, outcome).Observe(d.Seconds())
}

func (m *Metrics) breakerState(s gobreaker.State) {
	if m == nil {
		return
	}
	switch s {
	case gobreaker.StateClosed:
		m.breaker.Set(0)
	case gobreaker.StateHalfOpen:
		m.breaker.Set(1)
	case gobreaker.StateOpen:
		m.breaker.Set(2)
	}
}
