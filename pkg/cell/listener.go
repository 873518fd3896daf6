package cell

// Listener is anything that can be notified when a producer it depends on
// changes. It is implemented by derived cells, watchers, and dirty watchers.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies may have
	// changed. Derived cells invalidate their cache; watchers schedule a run.
	MarkDirty()

	// ID returns a unique identifier for this listener, used to deduplicate
	// pending notifications within a settle pass.
	ID() uint64
}

// Source is a readable node in the graph: *Cell, *Derived, *External or
// *Synchronized. The interface is satisfiable only inside this package; it
// exists so edges, watchers, and WatchDirty can refer to any producer kind.
type Source interface {
	// ID returns the unique identifier of the node.
	ID() uint64

	node() *cellBase
	refresh() uint64
	getAny() any
}

// dependent is a listener that records (producer, version) edges while it
// executes, so its edge set can be validated and pruned on the next run.
type dependent interface {
	Listener
	addDependency(src Source, ver uint64)
}

// edge is one producer→consumer dependency, tagged with the producer's value
// version observed when the edge was recorded.
type edge struct {
	src Source
	ver uint64
}

// settleable is a consumer that can be queued into a settle pass.
type settleable interface {
	ID() uint64
	settleRun()
}
