package cell

import (
	"context"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Stats is a snapshot of the graph's lifetime counters. All fields are
// monotonically increasing.
type Stats struct {
	// Cells counts producers created (cells, derived, external).
	Cells uint64

	// Writes counts dirtying mutations: unequal Set/Update, Touch, Trigger.
	Writes uint64

	// Recomputes counts derived compute runs.
	Recomputes uint64

	// SettlePasses counts non-empty settle passes.
	SettlePasses uint64

	// SettledConsumers counts consumer invocations performed by settle passes.
	SettledConsumers uint64

	// WatcherRuns counts watcher callback executions, including initial runs
	// and sync-dispatch runs.
	WatcherRuns uint64

	// ObserverFailures counts panics recovered from observer callbacks.
	ObserverFailures uint64

	// Attaches and Detaches count synchronized-cell hook invocations.
	Attaches uint64
	Detaches uint64
}

var stats struct {
	cells            atomic.Uint64
	writes           atomic.Uint64
	recomputes       atomic.Uint64
	settlePasses     atomic.Uint64
	settledConsumers atomic.Uint64
	watcherRuns      atomic.Uint64
	observerFailures atomic.Uint64
	attaches         atomic.Uint64
	detaches         atomic.Uint64
}

// ReadStats returns a snapshot of the lifetime counters. Safe to call from
// any goroutine; metric exporters poll it.
func ReadStats() Stats {
	return Stats{
		Cells:            stats.cells.Load(),
		Writes:           stats.writes.Load(),
		Recomputes:       stats.recomputes.Load(),
		SettlePasses:     stats.settlePasses.Load(),
		SettledConsumers: stats.settledConsumers.Load(),
		WatcherRuns:      stats.watcherRuns.Load(),
		ObserverFailures: stats.observerFailures.Load(),
		Attaches:         stats.attaches.Load(),
		Detaches:         stats.detaches.Load(),
	}
}

func recordCell()            { stats.cells.Add(1) }
func recordWrite()           { stats.writes.Add(1) }
func recordRecompute()       { stats.recomputes.Add(1) }
func recordWatcherRun()      { stats.watcherRuns.Add(1) }
func recordObserverFailure() { stats.observerFailures.Add(1) }
func recordAttach()          { stats.attaches.Add(1) }
func recordDetach()          { stats.detaches.Add(1) }

func recordSettle(fired int) {
	stats.settlePasses.Add(1)
	stats.settledConsumers.Add(uint64(fired))
}

var (
	tracerMu sync.RWMutex
	tracer   trace.Tracer
)

// SetTracer installs an OpenTelemetry tracer; every settle pass then emits a
// span carrying queued and fired consumer counts. Passing nil disables
// tracing.
func SetTracer(t trace.Tracer) {
	tracerMu.Lock()
	defer tracerMu.Unlock()
	tracer = t
}

func startSettleSpan(queued int) trace.Span {
	tracerMu.RLock()
	t := tracer
	tracerMu.RUnlock()

	if t == nil {
		return nil
	}
	_, span := t.Start(context.Background(), "cellgraph.settle",
		trace.WithAttributes(attribute.Int("cellgraph.queued", queued)))
	return span
}

func endSettleSpan(span trace.Span, fired int) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Int("cellgraph.fired", fired))
	span.End()
}
