// Package inspect provides an HTTP surface for looking at a running graph:
// a JSON stats snapshot, a Prometheus scrape endpoint, and a health check.
package inspect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/conterra/cellgraph/pkg/cell"
)

// Config configures the inspection handler.
type Config struct {
	// MetricsHandler serves GET /metrics.
	// Default: promhttp.Handler().
	MetricsHandler http.Handler
}

// Option configures the inspection handler.
type Option func(*Config)

// WithMetricsHandler replaces the Prometheus scrape handler, for registries
// other than the default one.
func WithMetricsHandler(h http.Handler) Option {
	return func(c *Config) {
		c.MetricsHandler = h
	}
}

// statsSnapshot is the JSON shape served by /statz.
type statsSnapshot struct {
	Cells            uint64 `json:"cells"`
	Writes           uint64 `json:"writes"`
	Recomputes       uint64 `json:"recomputes"`
	SettlePasses     uint64 `json:"settle_passes"`
	SettledConsumers uint64 `json:"settled_consumers"`
	WatcherRuns      uint64 `json:"watcher_runs"`
	ObserverFailures uint64 `json:"observer_failures"`
	Attaches         uint64 `json:"attaches"`
	Detaches         uint64 `json:"detaches"`
}

// Handler returns an http.Handler exposing:
//
//	GET /statz    graph counters as JSON
//	GET /metrics  Prometheus scrape endpoint
//	GET /healthz  liveness check
func Handler(opts ...Option) http.Handler {
	config := Config{
		MetricsHandler: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(&config)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/statz", func(w http.ResponseWriter, _ *http.Request) {
		s := cell.ReadStats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statsSnapshot{
			Cells:            s.Cells,
			Writes:           s.Writes,
			Recomputes:       s.Recomputes,
			SettlePasses:     s.SettlePasses,
			SettledConsumers: s.SettledConsumers,
			WatcherRuns:      s.WatcherRuns,
			ObserverFailures: s.ObserverFailures,
			Attaches:         s.Attaches,
			Detaches:         s.Detaches,
		})
	})

	r.Method(http.MethodGet, "/metrics", config.MetricsHandler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
