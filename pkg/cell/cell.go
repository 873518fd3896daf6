package cell

import "sync"

// cellBase provides type-erased subscriber management. It is embedded in
// every producer kind (Cell, Derived, External) to share edge bookkeeping
// and the subscription-count hooks used by synchronized cells.
type cellBase struct {
	id uint64

	// subs are the listeners subscribed to this producer.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.Mutex

	// onAttach fires when the subscriber count transitions 0→1,
	// onDetach when it returns to 0. Both run outside subMu so a hook may
	// re-enter the graph (subscribe, unsubscribe, write) safely.
	onAttach func()
	onDetach func()
}

// subscribe adds a listener, deduplicating by listener ID. The 0→1 count
// transition invokes the attach hook synchronously.
func (b *cellBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	b.subMu.Lock()
	lid := l.ID()
	for _, existing := range b.subs {
		if existing.ID() == lid {
			b.subMu.Unlock()
			return
		}
	}
	b.subs = append(b.subs, l)
	first := len(b.subs) == 1
	b.subMu.Unlock()

	if first && b.onAttach != nil {
		b.onAttach()
	}
}

// unsubscribe removes a listener. The 1→0 count transition invokes the
// detach hook synchronously.
func (b *cellBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	b.subMu.Lock()
	lid := l.ID()
	removed := false
	for i, existing := range b.subs {
		if existing.ID() == lid {
			b.subs[i] = b.subs[len(b.subs)-1]
			b.subs = b.subs[:len(b.subs)-1]
			removed = true
			break
		}
	}
	last := removed && len(b.subs) == 0
	b.subMu.Unlock()

	if last && b.onDetach != nil {
		b.onDetach()
	}
}

// subscriberCount returns the number of active subscriber edges.
func (b *cellBase) subscriberCount() int {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	return len(b.subs)
}

// fanout notifies every subscriber that this producer may have changed.
// The subscriber set is snapshotted before iterating so a notification
// handler may subscribe or unsubscribe without corrupting the walk.
func (b *cellBase) fanout() {
	b.subMu.Lock()
	subs := make([]Listener, len(b.subs))
	copy(subs, b.subs)
	b.subMu.Unlock()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// notifyWrite runs the write-side notification protocol: advance to a new
// settle pass when this is a top-level mutation, push staleness through the
// graph, and settle before returning. Writes inside a batch or a running
// settle pass only push staleness; settlement belongs to the enclosing
// scope.
func (b *cellBase) notifyWrite() {
	tc := getTrackingContext()
	top := tc.beginWrite()
	b.fanout()
	if top {
		tc.settle()
	}
}

// Cell is a writable reactive value container. Reading it during a tracked
// scope registers a dependency edge from the cell to the active consumer.
type Cell[T any] struct {
	base cellBase

	// value is the current cell value; version advances on every actual
	// change and lets derived consumers validate their cache cheaply.
	value   T
	version uint64
	mu      sync.RWMutex

	// equal decides whether a write constitutes a change.
	// nil means defaultEquals.
	equal func(T, T) bool
}

// New creates a cell holding the given initial value.
func New[T any](initial T) *Cell[T] {
	recordCell()
	return &Cell[T]{
		base:  cellBase{id: nextID()},
		value: initial,
	}
}

// WithEquals configures the cell with a custom equality function and returns
// the cell for chaining. Use it when identity comparison or DeepEqual has the
// wrong semantics for T.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// ID returns the unique identifier of this cell.
func (c *Cell[T]) ID() uint64 {
	return c.base.id
}

// Get returns the current value and registers a dependency edge for the
// active consumer, if any.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	v := c.value
	ver := c.version
	c.mu.RUnlock()

	if l := getCurrentListener(); l != nil {
		c.base.subscribe(l)
		if dep, ok := l.(dependent); ok {
			dep.addDependency(c, ver)
		}
	}
	return v
}

// Peek returns the current value without registering a dependency.
func (c *Cell[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores a new value. If the value equality-compares equal to the
// current one, the stored value is retained as-is and no consumer is
// notified.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	changed := !c.equals(c.value, value)
	if changed {
		c.value = value
		c.version++
	}
	c.mu.Unlock()

	if changed {
		recordWrite()
		c.base.notifyWrite()
	}
}

// Update applies fn to the current value and stores the result, with the
// same equality suppression as Set.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	next := fn(c.value)
	changed := !c.equals(c.value, next)
	if changed {
		c.value = next
		c.version++
	}
	c.mu.Unlock()

	if changed {
		recordWrite()
		c.base.notifyWrite()
	}
}

// Touch marks the cell changed without altering its value, notifying every
// consumer as if an unequal write had occurred. Collections use this when a
// slot's identity goes away (key removal, index shifting) even though no
// plain write happened.
func (c *Cell[T]) Touch() {
	c.mu.Lock()
	c.version++
	c.mu.Unlock()

	recordWrite()
	c.base.notifyWrite()
}

// equals applies the configured or default equality function.
func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

func (c *Cell[T]) node() *cellBase { return &c.base }

func (c *Cell[T]) refresh() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

func (c *Cell[T]) getAny() any { return c.Get() }

var _ Source = (*Cell[int])(nil)
