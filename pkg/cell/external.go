package cell

import (
	"sync"
	"sync/atomic"
)

// External wraps a foreign pull function as a source cell. The value is
// pulled lazily on first read and cached until Trigger invalidates it;
// Trigger itself never pulls, so the laziness contract matches derived
// cells exactly.
type External[T any] struct {
	base cellBase

	// pull fetches the current foreign value. It runs untracked.
	pull func() T

	// value/version cache the last pulled result; version advances only when
	// a re-pull produced an unequal value.
	value   T
	version uint64
	mu      sync.RWMutex

	// stale means the cache must be re-pulled on the next read.
	stale atomic.Bool

	// initialized becomes true after the first pull.
	initialized bool

	// equal decides whether a re-pull constitutes a change.
	equal func(T, T) bool
}

// NewExternal creates an external cell over the given pull function. The
// function does not run until the first read.
func NewExternal[T any](pull func() T) *External[T] {
	recordCell()
	x := &External[T]{
		base: cellBase{id: nextID()},
		pull: pull,
	}
	x.stale.Store(true)
	return x
}

// WithEquals configures the external cell with a custom equality function and
// returns the cell for chaining.
func (x *External[T]) WithEquals(fn func(T, T) bool) *External[T] {
	x.equal = fn
	return x
}

// ID returns the unique identifier of this cell.
func (x *External[T]) ID() uint64 {
	return x.base.id
}

// Get returns the cell's value, re-pulling first if the cell was triggered,
// and registers a dependency edge for the active consumer.
func (x *External[T]) Get() T {
	l := getCurrentListener()
	if l != nil {
		x.base.subscribe(l)
	}

	ver := x.refresh()

	if l != nil {
		if dep, ok := l.(dependent); ok {
			dep.addDependency(x, ver)
		}
	}

	x.mu.RLock()
	v := x.value
	x.mu.RUnlock()
	return v
}

// Peek returns the cell's value without registering a dependency, still
// re-pulling if the cell was triggered.
func (x *External[T]) Peek() T {
	x.refresh()
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.value
}

// Trigger marks the cached value out of date and notifies consumers through
// the normal write protocol. The foreign value is not pulled here;
// recomputation happens lazily on the next read.
//
// Call Trigger from the execution context that owns the graph. A foreign
// event arriving on another goroutine must be handed off to that context
// first.
func (x *External[T]) Trigger() {
	x.stale.Store(true)
	recordWrite()
	x.base.notifyWrite()
}

// ConsumerCount returns the number of consumers currently subscribed to this
// cell.
func (x *External[T]) ConsumerCount() int {
	return x.base.subscriberCount()
}

// refresh brings the cache up to date and returns its version.
func (x *External[T]) refresh() uint64 {
	if x.stale.Load() {
		x.repull()
	}

	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.version
}

// repull runs the pull function untracked and stores the result, advancing
// the version only on an actual change.
func (x *External[T]) repull() {
	prev := setCurrentListener(nil)
	v := x.pull()
	setCurrentListener(prev)

	x.mu.Lock()
	if !x.initialized || !x.equals(x.value, v) {
		x.value = v
		x.version++
	}
	x.initialized = true
	x.mu.Unlock()

	x.stale.Store(false)
}

// equals applies the configured or default equality function.
func (x *External[T]) equals(a, b T) bool {
	if x.equal != nil {
		return x.equal(a, b)
	}
	return defaultEquals(a, b)
}

func (x *External[T]) node() *cellBase { return &x.base }

func (x *External[T]) getAny() any { return x.Get() }

var _ Source = (*External[int])(nil)

// Teardown releases whatever an attach callback set up.
type Teardown func()

// Synchronized is an external cell that manages a foreign subscription from
// its own consumer count. The attach callback runs exactly once when the
// count transitions 0→1 and receives a function equivalent to Trigger; the
// Teardown it returns runs exactly once when the count drops back to 0.
// A later re-subscription runs attach again.
//
// Counting is synchronous with edge changes, so re-entrant subscribe and
// unsubscribe from inside a running watcher keep it exact.
type Synchronized[T any] struct {
	External[T]
}

// NewSynchronized creates a synchronized cell over a pull function and an
// attach callback.
//
// Example:
//
//	temp := cell.NewSynchronized(sensor.Read, func(trigger func()) cell.Teardown {
//	    stop := sensor.OnChange(trigger)
//	    return stop
//	})
func NewSynchronized[T any](pull func() T, attach func(trigger func()) Teardown) *Synchronized[T] {
	recordCell()
	s := &Synchronized[T]{}
	s.External = External[T]{
		base: cellBase{id: nextID()},
		pull: pull,
	}
	s.stale.Store(true)

	var teardown Teardown
	s.External.base.onAttach = func() {
		recordAttach()
		teardown = attach(s.Trigger)
	}
	s.External.base.onDetach = func() {
		recordDetach()
		if teardown != nil {
			teardown()
			teardown = nil
		}
	}
	return s
}

// WithEquals configures the synchronized cell with a custom equality function
// and returns the cell for chaining.
func (s *Synchronized[T]) WithEquals(fn func(T, T) bool) *Synchronized[T] {
	s.equal = fn
	return s
}

var _ Source = (*Synchronized[int])(nil)
