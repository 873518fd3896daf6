// Package cellgraph provides the public API for the cellgraph reactive
// runtime.
//
// This is the recommended import for most applications:
//
//	import "github.com/conterra/cellgraph"
//
// Usage:
//
//	count := cellgraph.New(0)
//	double := cellgraph.Derive(func() int { return count.Get() * 2 })
//	w := cellgraph.Watch(func() { fmt.Println(double.Get()) })
//	defer w.Destroy()
//	count.Set(21)
package cellgraph

import (
	"github.com/conterra/cellgraph/pkg/cell"
	"github.com/conterra/cellgraph/pkg/collection"
)

// =============================================================================
// Graph core (pkg/cell)
// =============================================================================

type Cell[T any] = cell.Cell[T]
type Derived[T any] = cell.Derived[T]
type External[T any] = cell.External[T]
type Synchronized[T any] = cell.Synchronized[T]
type Watcher = cell.Watcher
type WatcherOption = cell.WatcherOption
type DirtyWatcher = cell.DirtyWatcher
type Source = cell.Source
type Teardown = cell.Teardown
type Stats = cell.Stats
type ErrorReporter = cell.ErrorReporter
type CycleError = cell.CycleError

// New creates a cell holding the given initial value.
func New[T any](initial T) *Cell[T] {
	return cell.New(initial)
}

// Derive creates a lazy derived cell over the given compute function.
func Derive[T any](compute func() T) *Derived[T] {
	return cell.Derive(compute)
}

// NewExternal creates an external cell over the given pull function.
func NewExternal[T any](pull func() T) *External[T] {
	return cell.NewExternal(pull)
}

// NewSynchronized creates a synchronized cell over a pull function and an
// attach callback.
func NewSynchronized[T any](pull func() T, attach func(trigger func()) Teardown) *Synchronized[T] {
	return cell.NewSynchronized(pull, attach)
}

// Watch creates a watcher over fn. The callback runs immediately and re-runs
// when any cell it read changes.
func Watch(fn func(), opts ...WatcherOption) *Watcher {
	return cell.Watch(fn, opts...)
}

// OnChange creates a watcher that tracks deps but invokes fn only on
// subsequent changes.
func OnChange(deps func(), fn func(), opts ...WatcherOption) *Watcher {
	return cell.OnChange(deps, fn, opts...)
}

// Sync makes a watcher fire inline on every dirtying write.
func Sync() WatcherOption {
	return cell.Sync()
}

// WatchDirty creates a zero-recompute dirty watcher on src.
func WatchDirty(src Source, fn func()) *DirtyWatcher {
	return cell.WatchDirty(src, fn)
}

// Batch runs fn as a single transaction, settling once at the outermost
// exit.
func Batch(fn func()) {
	cell.Batch(fn)
}

// Untracked runs fn without registering dependencies for reads inside it.
func Untracked(fn func()) {
	cell.Untracked(fn)
}

// SetErrorReporter installs a process-wide reporter for observer failures.
func SetErrorReporter(r ErrorReporter) {
	cell.SetErrorReporter(r)
}

// ResetErrorReporter restores the default stderr reporter.
func ResetErrorReporter() {
	cell.ResetErrorReporter()
}

// ReadStats returns a snapshot of the graph's lifetime counters.
func ReadStats() Stats {
	return cell.ReadStats()
}

// =============================================================================
// Reactive collections (pkg/collection)
// =============================================================================

type Map[K comparable, V any] = collection.Map[K, V]
type Set[T comparable] = collection.Set[T]
type List[T any] = collection.List[T]
type Field = collection.Field
type RecordType = collection.RecordType
type Record = collection.Record
type OutOfBoundsError = collection.OutOfBoundsError
type AccessViolationError = collection.AccessViolationError
type SchemaError = collection.SchemaError

// NewMap creates a reactive map, optionally seeded from initial.
func NewMap[K comparable, V any](initial map[K]V) *Map[K, V] {
	return collection.NewMap(initial)
}

// NewSet creates a reactive set seeded with the given values.
func NewSet[T comparable](initial ...T) *Set[T] {
	return collection.NewSet(initial...)
}

// NewList creates a reactive list seeded with the given values.
func NewList[T any](initial ...T) *List[T] {
	return collection.NewList(initial...)
}

// NewRecordType validates a schema and resolves it into a RecordType.
func NewRecordType(schema map[string]Field) (*RecordType, error) {
	return collection.NewRecordType(schema)
}
