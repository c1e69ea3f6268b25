package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus metrics for the research pipeline. A nil
// *Registry is valid and records nothing, so wiring stays optional.
type Registry struct {
	registry *prometheus.Registry

	SourceFetches  *prometheus.CounterVec
	ModuleDuration *prometheus.HistogramVec
	ReportsTotal   prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
}

// NewRegistry creates a registry with all pipeline metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,

		SourceFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openresearch_source_fetches_total",
				Help: "Source fetch outcomes by provider",
			},
			[]string{"source", "outcome"},
		),

		ModuleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "openresearch_module_duration_seconds",
				Help:    "Module build duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
			},
			[]string{"module"},
		),

		ReportsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "openresearch_reports_total",
				Help: "Reports assembled",
			},
		),

		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "openresearch_report_cache_hits_total",
				Help: "Report cache hits",
			},
		),

		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "openresearch_report_cache_misses_total",
				Help: "Report cache misses",
			},
		),
	}

	reg.MustRegister(
		r.SourceFetches,
		r.ModuleDuration,
		r.ReportsTotal,
		r.CacheHits,
		r.CacheMisses,
	)

	return r
}

// Handler serves the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveSourceFetch records one source fetch outcome.
func (r *Registry) ObserveSourceFetch(source, outcome string) {
	if r == nil {
		return
	}
	r.SourceFetches.WithLabelValues(source, outcome).Inc()
}

// ObserveModule records one module build duration.
func (r *Registry) ObserveModule(module string, d time.Duration) {
	if r == nil {
		return
	}
	r.ModuleDuration.WithLabelValues(module).Observe(d.Seconds())
}

// ObserveReport records one assembled report.
func (r *Registry) ObserveReport() {
	if r == nil {
		return
	}
	r.ReportsTotal.Inc()
}

// ObserveCache records a cache lookup outcome.
func (r *Registry) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.CacheHits.Inc()
	} else {
		r.CacheMisses.Inc()
	}
}
