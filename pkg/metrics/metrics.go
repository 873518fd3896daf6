// Package metrics exposes the graph's lifetime counters as Prometheus
// collectors. Values are polled from cell.ReadStats at scrape time, so
// registration adds no overhead to the graph itself.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/conterra/cellgraph/pkg/cell"
)

// Config configures the Prometheus collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "cellgraph").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "cellgraph",
		Registry:  prometheus.DefaultRegisterer,
	}
}

var (
	registerMu sync.Mutex
	registered bool
)

// Register installs the collectors on the configured registry. Safe to call
// more than once; only the first call registers.
//
// Metrics exposed:
//   - cellgraph_cells_total: producers created
//   - cellgraph_writes_total: dirtying mutations
//   - cellgraph_recomputes_total: derived compute runs
//   - cellgraph_settle_passes_total: settle passes
//   - cellgraph_settled_consumers_total: consumer invocations by settle passes
//   - cellgraph_watcher_runs_total: watcher callback executions
//   - cellgraph_observer_failures_total: panics recovered from observers
//   - cellgraph_attaches_total / cellgraph_detaches_total: synchronized-cell hooks
//   - cellgraph_active_subscriptions: attaches minus detaches
//
// Example:
//
//	metrics.Register(metrics.WithNamespace("myapp"))
//	http.Handle("/metrics", promhttp.Handler())
func Register(opts ...Option) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	registerMu.Lock()
	defer registerMu.Unlock()
	if registered {
		return
	}
	registered = true

	factory := promauto.With(config.Registry)

	counter := func(name, help string, read func(cell.Stats) uint64) {
		factory.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, func() float64 {
			return float64(read(cell.ReadStats()))
		})
	}

	counter("cells_total", "Total number of producers created",
		func(s cell.Stats) uint64 { return s.Cells })
	counter("writes_total", "Total number of dirtying mutations",
		func(s cell.Stats) uint64 { return s.Writes })
	counter("recomputes_total", "Total number of derived compute runs",
		func(s cell.Stats) uint64 { return s.Recomputes })
	counter("settle_passes_total", "Total number of settle passes",
		func(s cell.Stats) uint64 { return s.SettlePasses })
	counter("settled_consumers_total", "Total consumer invocations performed by settle passes",
		func(s cell.Stats) uint64 { return s.SettledConsumers })
	counter("watcher_runs_total", "Total number of watcher callback executions",
		func(s cell.Stats) uint64 { return s.WatcherRuns })
	counter("observer_failures_total", "Total panics recovered from observer callbacks",
		func(s cell.Stats) uint64 { return s.ObserverFailures })
	counter("attaches_total", "Total synchronized-cell attach hook invocations",
		func(s cell.Stats) uint64 { return s.Attaches })
	counter("detaches_total", "Total synchronized-cell detach hook invocations",
		func(s cell.Stats) uint64 { return s.Detaches })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "active_subscriptions",
		Help:        "Synchronized-cell subscriptions currently attached",
		ConstLabels: config.ConstLabels,
	}, func() float64 {
		s := cell.ReadStats()
		return float64(s.Attaches) - float64(s.Detaches)
	})
}
