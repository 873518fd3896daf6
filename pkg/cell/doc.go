// Package cell implements a fine-grained reactive dependency graph.
//
// State is modeled as cells that automatically track their readers. Reading
// a cell during a tracked scope (a derived computation or a watcher run)
// registers a dependency edge, and later writes to the cell notify exactly
// the consumers that depend on it.
//
// # Core Types
//
// Cell[T] is a writable reactive value:
//
//	count := cell.New(0)
//	value := count.Get() // read (registers an edge in tracked scopes)
//	count.Set(5)         // write (notifies dependents if the value changed)
//
// Derived[T] is a cached computation over other cells:
//
//	doubled := cell.Derive(func() int { return count.Get() * 2 })
//	value := doubled.Get() // recomputes only when a dependency changed
//
// Watch runs a side effect when its dependencies change:
//
//	w := cell.Watch(func() {
//	    fmt.Println("count:", count.Get())
//	})
//	defer w.Destroy()
//
// # Batching
//
// Multiple writes can be grouped into a single settle pass:
//
//	cell.Batch(func() {
//	    first.Set("a")
//	    second.Set("b")
//	})
//
// A write outside any batch behaves as an implicit single-write batch: the
// settle pass completes before Set returns.
//
// # Execution Model
//
// The graph is a single-execution-context model. Dependency tracking state is
// per goroutine, and the graph is not safe for uncoordinated mutation from
// multiple goroutines. Foreign event sources hand changes to the graph via
// External/Synchronized cells and their Trigger method.
package cell
