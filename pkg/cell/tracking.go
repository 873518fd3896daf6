package cell

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine: the listener
// currently collecting dependencies, batch nesting, and the pending settle
// queue. Each goroutine gets its own context so tracked reads on helper
// goroutines do not interfere with each other.
type trackingContext struct {
	// currentListener is what is currently tracking dependencies.
	// nil means reads do not register edges.
	currentListener Listener

	// batchDepth tracks nested Batch() calls. When > 0, consumer
	// notifications queue instead of settling immediately.
	batchDepth int

	// settling is true while a settle pass is draining the queue. Writes
	// performed from inside a running consumer fold into that pass instead
	// of starting a nested one.
	settling bool

	// pass identifies the current settle pass. It advances once per
	// top-level mutation (bare write, Trigger, or outermost Batch entry)
	// and is used to deduplicate staleness re-propagation through derived
	// chains within a single pass.
	pass uint64

	// queue holds consumers dirtied during the current batch or settle
	// pass, in first-dirtied order.
	queue []settleable

	// queued tracks which consumers are in the queue and not yet run.
	queued map[uint64]bool
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// goroutineID extracts the current goroutine's ID from the runtime stack
// header ("goroutine <id> ..."). Implementation detail, never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use.
func getTrackingContext() *trackingContext {
	gid := goroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{queued: make(map[uint64]bool)}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// getCurrentListener returns the listener currently collecting dependencies,
// or nil when no tracking is active.
func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener swaps the current listener and returns the previous one
// so it can be restored.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

// withListener runs fn with l as the current tracking listener.
func withListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// Untracked runs fn without registering dependencies for any reads performed
// inside it. For a single read, Peek on the cell is the clearer choice.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// enqueue adds a consumer to the pending queue unless it is already queued
// and has not run yet. A consumer that already ran in this pass may be
// re-queued by a later dirtying; an observer that unconditionally re-dirties
// its own transitive dependencies can therefore diverge (documented hazard).
func (tc *trackingContext) enqueue(c settleable) {
	id := c.ID()
	if tc.queued[id] {
		return
	}
	tc.queued[id] = true
	tc.queue = append(tc.queue, c)
}

// settle drains the pending queue, invoking each consumer once in
// first-dirtied order. Consumers dirtied while the pass runs are appended to
// the same queue and processed before the pass completes.
func (tc *trackingContext) settle() {
	if len(tc.queue) == 0 {
		return
	}

	span := startSettleSpan(len(tc.queue))

	tc.settling = true
	fired := 0
	for i := 0; i < len(tc.queue); i++ {
		c := tc.queue[i]
		delete(tc.queued, c.ID())
		c.settleRun()
		fired++
	}
	tc.queue = tc.queue[:0]
	tc.settling = false

	recordSettle(fired)
	endSettleSpan(span, fired)
}

// beginWrite advances the pass counter when a top-level mutation starts.
// Returns true when the caller owns settlement for this mutation.
func (tc *trackingContext) beginWrite() bool {
	if tc.batchDepth > 0 || tc.settling {
		return false
	}
	tc.pass++
	return true
}
