// Package metrics exposes simulator counters over Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quantfold/fxsim/sizing"
)

// Set holds the simulator's instruments. Construct one per process;
// registering twice on the same registerer panics by Prometheus
// convention.
type Set struct {
	registry *prometheus.Registry

	Steps     prometheus.Counter
	Blocked   prometheus.Counter
	Composite prometheus.Gauge
	FinalSize prometheus.Gauge
}

// NewSet registers the metric family on a private registry so tests
// can build sets freely.
func NewSet() *Set {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Set{
		registry: reg,
		Steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "fxsim_steps_total",
			Help: "Bars replayed.",
		}),
		Blocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "fxsim_blocked_total",
			Help: "Sizing decisions vetoed by a component.",
		}),
		Composite: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fxsim_composite_multiplier",
			Help: "Composite multiplier of the latest decision.",
		}),
		FinalSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fxsim_final_units",
			Help: "Final sized units of the latest decision.",
		}),
	}
}

// ObserveStep records one sizing decision.
func (s *Set) ObserveStep(d sizing.Decision) {
	s.Steps.Inc()
	if !d.Allowed {
		s.Blocked.Inc()
	}
	s.Composite.Set(d.Multiplier)
	s.FinalSize.Set(d.Final)
}

// Handler serves the set's registry.
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on addr in a background goroutine. The
// returned server can be shut down by the caller.
func (s *Set) StartServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
