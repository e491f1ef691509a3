// # internal/observability/metrics.go
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glspecgen_parse_seconds",
		Help:    "Time spent parsing one registry file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"registry"})

	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glspecgen_generations_total",
		Help: "Total number of header generation runs.",
	}, []string{"result"})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "glspecgen_generation_seconds",
		Help:    "End to end time of one generation run.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glspecgen_watcher_events_total",
		Help: "Total number of file system change batches received in watch mode.",
	})

	FunctionCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "glspecgen_functions_total",
		Help: "Number of functions assembled in the last successful run.",
	})

	EnumerationCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "glspecgen_enumerations_total",
		Help: "Number of enumeration blocks assembled in the last successful run.",
	})
)

// Serve exposes the metrics endpoint; used by watch mode only.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
