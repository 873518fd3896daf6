package cell

import (
	"sync"
	"sync/atomic"
)

// Derived is a cached computation whose dependencies are tracked
// automatically. It is lazy: the compute function never runs at construction
// and only runs on read when a dependency actually changed since the last
// run.
//
// A derived cell is both a producer (other consumers may read it) and a
// consumer (it records edges to everything it reads while computing). Its
// edge set is rebuilt on every recomputation, so dependencies that stop
// being read stop notifying it.
type Derived[T any] struct {
	base cellBase

	// compute produces the cell's value from other cells.
	compute func() T

	// value/version hold the cached result; version advances only when a
	// recomputation produced an unequal result, which is what lets
	// downstream consumers short-circuit unchanged intermediate values.
	value   T
	version uint64
	mu      sync.RWMutex

	// stale means the cache may be out of date and must be validated on
	// the next read.
	stale atomic.Bool

	// computing guards against reads of this cell from inside its own
	// recomputation (directly or through a dependency cycle).
	computing bool

	// initialized becomes true after the first successful recomputation.
	initialized bool

	// edges are the (producer, version) pairs read during the most recent
	// recomputation.
	edges []edge

	// lastPass deduplicates staleness re-propagation: within one settle
	// pass the cell fans out at most once while it stays stale.
	lastPass uint64

	// equal decides whether a recomputation result is a change.
	equal func(T, T) bool
}

// Derive creates a derived cell over the given compute function. The
// computation does not run until the first read.
func Derive[T any](compute func() T) *Derived[T] {
	recordCell()
	d := &Derived[T]{
		base:    cellBase{id: nextID()},
		compute: compute,
	}
	d.stale.Store(true)
	return d
}

// WithEquals configures the derived cell with a custom equality function and
// returns the cell for chaining.
func (d *Derived[T]) WithEquals(fn func(T, T) bool) *Derived[T] {
	d.equal = fn
	return d
}

// ID returns the unique identifier of this cell.
func (d *Derived[T]) ID() uint64 {
	return d.base.id
}

// Get returns the cell's value, recomputing first if a dependency changed,
// and registers a dependency edge for the active consumer.
//
// The subscription is registered before validation so that an edge survives
// even when the compute function fails; the panic still propagates to the
// caller.
func (d *Derived[T]) Get() T {
	l := getCurrentListener()
	if l != nil {
		d.base.subscribe(l)
	}

	ver := d.refresh()

	if l != nil {
		if dep, ok := l.(dependent); ok {
			dep.addDependency(d, ver)
		}
	}

	d.mu.RLock()
	v := d.value
	d.mu.RUnlock()
	return v
}

// Peek returns the cell's value without registering a dependency. It still
// validates and recomputes as needed; use a dirty watcher when recomputation
// must be avoided.
func (d *Derived[T]) Peek() T {
	d.refresh()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.value
}

// MarkDirty invalidates the cache and propagates possible staleness to
// subscribers. Implements the Listener interface.
//
// Fanout is deduplicated per settle pass: while the cell stays stale it
// notifies its subscribers once per pass, so dirty watchers downstream fire
// once per pass in which the value could have changed without the cache ever
// being recomputed.
func (d *Derived[T]) MarkDirty() {
	tc := getTrackingContext()
	becameStale := d.stale.CompareAndSwap(false, true)
	if !becameStale && d.lastPass == tc.pass {
		return
	}
	d.lastPass = tc.pass
	d.base.fanout()
}

// addDependency records a producer read during the current recomputation.
// Implements the dependent interface.
func (d *Derived[T]) addDependency(src Source, ver uint64) {
	id := src.ID()
	for _, e := range d.edges {
		if e.src.ID() == id {
			return
		}
	}
	d.edges = append(d.edges, edge{src: src, ver: ver})
}

// refresh brings the cached value up to date and returns its version.
//
// A stale cell first validates its recorded edges: every producer is itself
// refreshed and its current version compared to the version observed during
// the last recomputation. Only a real version advance triggers recompute;
// upstream churn that settled back to equal values marks the cell clean
// without running compute (the diamond short-circuit).
func (d *Derived[T]) refresh() uint64 {
	if d.computing {
		panic(&CycleError{NodeID: d.base.id})
	}

	if d.stale.Load() {
		if d.initialized && !d.dependencyChanged() {
			d.stale.Store(false)
		} else {
			d.recompute()
		}
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// dependencyChanged reports whether any recorded dependency's value version
// advanced since the last recomputation, refreshing each producer along the
// way.
func (d *Derived[T]) dependencyChanged() bool {
	for _, e := range d.edges {
		if e.src.refresh() != e.ver {
			return true
		}
	}
	return false
}

// recompute runs the compute function under a fresh tracking scope,
// replacing the edge set with exactly what was read. The version advances
// only if the result is unequal to the cached value.
func (d *Derived[T]) recompute() {
	recordRecompute()

	d.computing = true
	prev := setCurrentListener(d)
	oldEdges := d.edges
	d.edges = nil

	defer func() {
		setCurrentListener(prev)
		d.computing = false
		if r := recover(); r != nil {
			// Abort only this recomputation: keep the previous edge set
			// and leave the cell stale for the next read.
			d.edges = oldEdges
			panic(r)
		}
	}()

	next := d.compute()

	// Prune edges that were not re-read this run, after the run, so a
	// synchronized dependency never sees a spurious 1→0→1 count blip.
	for _, old := range oldEdges {
		if !d.hasEdge(old.src.ID()) {
			old.src.node().unsubscribe(d)
		}
	}

	d.mu.Lock()
	if !d.initialized || !d.equals(d.value, next) {
		d.value = next
		d.version++
	}
	d.initialized = true
	d.mu.Unlock()

	d.stale.Store(false)
}

// hasEdge reports whether the current edge set contains the given producer.
func (d *Derived[T]) hasEdge(id uint64) bool {
	for _, e := range d.edges {
		if e.src.ID() == id {
			return true
		}
	}
	return false
}

// equals applies the configured or default equality function.
func (d *Derived[T]) equals(a, b T) bool {
	if d.equal != nil {
		return d.equal(a, b)
	}
	return defaultEquals(a, b)
}

func (d *Derived[T]) node() *cellBase { return &d.base }

func (d *Derived[T]) getAny() any { return d.Get() }

var (
	_ Source    = (*Derived[int])(nil)
	_ dependent = (*Derived[int])(nil)
)
