// Package collection provides reactive map, set, list, and record containers
// built on the cell graph, invalidating at the finest granularity the access
// pattern allows.
//
// Each container keeps one element cell per key or index plus a single
// structural cell. Reading an existing slot's value depends on that slot
// only; reads that reveal shape (size, iteration, absence checks) depend on
// the structural cell. Replacing a slot's value dirties just that slot,
// while adding or removing entries dirties the structural cell, so an
// observer of element j is never woken by a write to element i.
//
// Mutations run inside cell.Batch, so a shape change settles as one pass
// even though it touches several cells.
package collection
