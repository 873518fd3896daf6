package cell

import "sync/atomic"

// DirtyWatcher is a zero-recompute change-notification primitive. It holds a
// single edge to one producer and invokes its callback once per settle pass
// in which that producer (or anything it transitively depends on) was
// dirtied. The producer's cached value is never refreshed on its behalf; the
// cache stays exactly as stale as the application's own reads leave it.
type DirtyWatcher struct {
	id  uint64
	src Source
	fn  func()

	pending  atomic.Bool
	disposed atomic.Bool
}

// WatchDirty creates a dirty watcher on src. One setup read of src is
// performed purely to register the dependency edge; a panic raised by that
// read (a failing compute, for example) is discarded since only the edge
// matters, not the value.
func WatchDirty(src Source, fn func()) *DirtyWatcher {
	dw := &DirtyWatcher{
		id:  nextID(),
		src: src,
		fn:  fn,
	}

	func() {
		defer func() {
			_ = recover()
		}()
		withListener(dw, func() {
			src.getAny()
		})
	}()

	return dw
}

// ID returns the unique identifier for this watcher.
// Implements the Listener interface.
func (dw *DirtyWatcher) ID() uint64 {
	return dw.id
}

// MarkDirty queues the callback into the current settle pass.
// Implements the Listener interface.
func (dw *DirtyWatcher) MarkDirty() {
	if dw.disposed.Load() {
		return
	}
	if dw.pending.CompareAndSwap(false, true) {
		getTrackingContext().enqueue(dw)
	}
}

// settleRun fires the callback from a settle pass. A panic is reported to
// the process-wide error hook and does not propagate.
func (dw *DirtyWatcher) settleRun() {
	if dw.disposed.Load() {
		return
	}
	dw.pending.Store(false)

	defer func() {
		if r := recover(); r != nil {
			recordObserverFailure()
			reportObserverFailure(dw.id, r)
		}
	}()
	dw.fn()
}

// Destroy removes the watcher's edge synchronously and suppresses any
// pending invocation. Idempotent, and safe to call from inside the callback.
func (dw *DirtyWatcher) Destroy() {
	if dw.disposed.Swap(true) {
		return
	}
	dw.src.node().unsubscribe(dw)
}

var (
	_ Listener   = (*DirtyWatcher)(nil)
	_ settleable = (*DirtyWatcher)(nil)
)
