package cell

import "sync/atomic"

// Watcher is a side-effecting observer of the graph. Its callback runs once
// at construction, tracking every cell it reads, and re-runs whenever one of
// those cells is dirtied.
//
// By default a watcher is batched: dirtying queues it into the current settle
// pass and it fires at most once per pass, after all writes of the
// originating operation have applied. The Sync option switches it to fire
// inline on every dirtying write instead.
//
// A panic escaping the callback never reaches the write that triggered it;
// it is forwarded to the process-wide error reporter and the watcher stays
// armed for the next dirtying.
type Watcher struct {
	id uint64

	// fn is the observer callback.
	fn func()

	// edges are the (producer, version) pairs read during the most recent
	// run. Rebuilt every run so dropped reads stop notifying.
	edges []edge

	// sync selects inline dispatch instead of settle-pass dispatch.
	sync bool

	// pending means the watcher is queued in a settle pass.
	pending atomic.Bool

	// disposed means Destroy was called.
	disposed atomic.Bool
}

// WatcherOption configures a Watcher at construction.
type WatcherOption interface {
	isWatcherOption()
	applyWatcher(w *Watcher)
}

type watcherOptionFunc func(*Watcher)

func (f watcherOptionFunc) isWatcherOption() {}

func (f watcherOptionFunc) applyWatcher(w *Watcher) { f(w) }

// Sync makes the watcher fire inline on every dirtying write, including
// writes inside an explicit batch. Use it when the observer must see each
// intermediate state rather than the settled one.
func Sync() WatcherOption {
	return watcherOptionFunc(func(w *Watcher) {
		w.sync = true
	})
}

// Watch creates a watcher over fn. The callback runs immediately, tracking
// its reads, and re-runs when any of them changes. The returned watcher must
// be destroyed to release its edges.
//
// Example:
//
//	total := cell.Derive(func() int { return a.Get() + b.Get() })
//	w := cell.Watch(func() { fmt.Println("total:", total.Get()) })
//	defer w.Destroy()
func Watch(fn func(), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		id: nextID(),
		fn: fn,
	}
	for _, opt := range opts {
		opt.applyWatcher(w)
	}
	w.run()
	return w
}

// OnChange creates a watcher that establishes dependencies through deps but
// invokes fn only on subsequent changes, never on the initial run.
func OnChange(deps func(), fn func(), opts ...WatcherOption) *Watcher {
	first := true
	return Watch(func() {
		deps()
		if first {
			first = false
			return
		}
		fn()
	}, opts...)
}

// ID returns the unique identifier for this watcher.
// Implements the Listener interface.
func (w *Watcher) ID() uint64 {
	return w.id
}

// MarkDirty schedules (or, for a sync watcher, performs) a re-run.
// Implements the Listener interface.
func (w *Watcher) MarkDirty() {
	if w.disposed.Load() {
		return
	}

	if w.sync {
		w.run()
		return
	}

	if w.pending.CompareAndSwap(false, true) {
		getTrackingContext().enqueue(w)
	}
}

// addDependency records a producer read during the current run.
// Implements the dependent interface.
func (w *Watcher) addDependency(src Source, ver uint64) {
	id := src.ID()
	for _, e := range w.edges {
		if e.src.ID() == id {
			return
		}
	}
	w.edges = append(w.edges, edge{src: src, ver: ver})
}

// settleRun fires the watcher from a settle pass, after confirming that a
// dependency actually changed. Dirtying is a may-have-changed signal; a
// derived cell whose recompute produced an equality-equal result leaves its
// version where it was, and the callback must stay quiet.
// Implements the settleable interface.
func (w *Watcher) settleRun() {
	if w.disposed.Load() {
		return
	}
	w.pending.Store(false)

	if len(w.edges) > 0 && !w.edgesChanged() {
		return
	}
	w.run()
}

// edgesChanged refreshes every recorded producer and reports whether any
// value version advanced past the one observed during the last run.
func (w *Watcher) edgesChanged() (changed bool) {
	defer func() {
		if recover() != nil {
			// A failing refresh counts as a change: the run hits the same
			// failure and reports it through the normal path.
			changed = true
		}
	}()

	for _, e := range w.edges {
		if e.src.refresh() != e.ver {
			return true
		}
	}
	return false
}

// run executes the callback under a fresh tracking scope, rebuilding the edge
// set from exactly what was read. A panic is captured, reported, and does not
// propagate; edges collected before the panic stay live so the watcher fires
// again.
func (w *Watcher) run() {
	if w.disposed.Load() {
		return
	}
	w.pending.Store(false)

	recordWatcherRun()

	oldEdges := w.edges
	w.edges = nil
	prev := setCurrentListener(w)

	func() {
		defer func() {
			setCurrentListener(prev)
			if r := recover(); r != nil {
				recordObserverFailure()
				reportObserverFailure(w.id, r)
			}
		}()
		w.fn()
	}()

	// Destroy may have been called from inside the callback. It already
	// released the edges collected during this run; release the previous
	// run's edges here instead of pruning against them.
	if w.disposed.Load() {
		for _, old := range oldEdges {
			old.src.node().unsubscribe(w)
		}
		return
	}

	// Prune edges not re-read this run, after the run completed, so a
	// synchronized dependency never sees a spurious detach/attach blip.
	for _, old := range oldEdges {
		if !w.hasEdge(old.src.ID()) {
			old.src.node().unsubscribe(w)
		}
	}
}

// hasEdge reports whether the current edge set contains the given producer.
func (w *Watcher) hasEdge(id uint64) bool {
	for _, e := range w.edges {
		if e.src.ID() == id {
			return true
		}
	}
	return false
}

// Destroy disposes the watcher: its edges are released synchronously and no
// further runs are scheduled. Idempotent, and safe to call from inside the
// watcher's own callback; a queued settle-pass invocation is suppressed.
func (w *Watcher) Destroy() {
	if w.disposed.Swap(true) {
		return
	}

	for _, e := range w.edges {
		e.src.node().unsubscribe(w)
	}
	w.edges = nil
}

var (
	_ Listener   = (*Watcher)(nil)
	_ dependent  = (*Watcher)(nil)
	_ settleable = (*Watcher)(nil)
)
