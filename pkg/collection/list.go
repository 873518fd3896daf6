package collection

import "github.com/conterra/cellgraph/pkg/cell"

// List is a reactive ordered container with per-index invalidation.
//
// Index identity is positional. A mutation that shifts indices (insertion or
// removal anywhere but the end) discards every element cell from the
// mutation point onward and recreates them around the surviving values; the
// discarded cells are force-notified so consumers tracking them re-run and
// pick up the cells now living at those positions.
type List[T any] struct {
	slots     []*cell.Cell[T]
	structure *cell.Cell[uint64]
}

// NewList creates a reactive list seeded with the given values.
func NewList[T any](initial ...T) *List[T] {
	l := &List[T]{
		slots:     make([]*cell.Cell[T], 0, len(initial)),
		structure: cell.New(uint64(0)),
	}
	for _, v := range initial {
		l.slots = append(l.slots, cell.New(v))
	}
	return l
}

// At returns the element at index i, depending only on that index's slot.
// An index outside [0, Len) panics with *OutOfBoundsError.
func (l *List[T]) At(i int) T {
	l.check(i)
	return l.slots[i].Get()
}

// SetAt replaces the element at index i, dirtying only that index's slot.
// An index outside [0, Len) panics with *OutOfBoundsError.
func (l *List[T]) SetAt(i int, value T) {
	l.check(i)
	l.slots[i].Set(value)
}

// Len returns the element count. Depends on the list's structure.
func (l *List[T]) Len() int {
	l.structure.Get()
	return len(l.slots)
}

// Append adds value at the end. No index shifts, so only the structure is
// dirtied beyond the new slot's creation.
func (l *List[T]) Append(values ...T) {
	if len(values) == 0 {
		return
	}
	cell.Batch(func() {
		for _, v := range values {
			l.slots = append(l.slots, cell.New(v))
		}
		l.bump()
	})
}

// Insert places value at index i, shifting later elements up. Valid indices
// are [0, Len]; Insert(Len, v) is equivalent to Append(v). Every cell from i
// onward is discarded and recreated since its index no longer denotes the
// same logical element.
func (l *List[T]) Insert(i int, value T) {
	if i < 0 || i > len(l.slots) {
		panic(&OutOfBoundsError{Index: i, Length: len(l.slots)})
	}
	if i == len(l.slots) {
		l.Append(value)
		return
	}

	cell.Batch(func() {
		discarded := l.slots[i:]
		rebuilt := make([]*cell.Cell[T], 0, len(discarded)+1)
		rebuilt = append(rebuilt, cell.New(value))
		for _, old := range discarded {
			rebuilt = append(rebuilt, cell.New(old.Peek()))
		}

		l.slots = append(l.slots[:i:i], rebuilt...)
		for _, old := range discarded {
			old.Touch()
		}
		l.bump()
	})
}

// RemoveAt deletes the element at index i, shifting later elements down, and
// returns the removed value. Every cell from i onward is discarded and
// recreated. An index outside [0, Len) panics with *OutOfBoundsError.
func (l *List[T]) RemoveAt(i int) T {
	l.checkUntracked(i)

	removed := l.slots[i].Peek()
	cell.Batch(func() {
		discarded := l.slots[i:]
		rebuilt := make([]*cell.Cell[T], 0, len(discarded)-1)
		for _, old := range discarded[1:] {
			rebuilt = append(rebuilt, cell.New(old.Peek()))
		}

		l.slots = append(l.slots[:i:i], rebuilt...)
		for _, old := range discarded {
			old.Touch()
		}
		l.bump()
	})
	return removed
}

// Values returns a snapshot of the current elements. Depends on the list's
// structure and on every slot.
func (l *List[T]) Values() []T {
	l.structure.Get()
	values := make([]T, 0, len(l.slots))
	for _, slot := range l.slots {
		values = append(values, slot.Get())
	}
	return values
}

// ForEach invokes fn for every element in order, with the same dependencies
// as Values.
func (l *List[T]) ForEach(fn func(i int, value T)) {
	l.structure.Get()
	for i, slot := range l.slots {
		fn(i, slot.Get())
	}
}

// Clear removes every element in one settle pass.
func (l *List[T]) Clear() {
	if len(l.slots) == 0 {
		return
	}
	cell.Batch(func() {
		discarded := l.slots
		l.slots = nil
		for _, old := range discarded {
			old.Touch()
		}
		l.bump()
	})
}

// check validates i against the current length. An out-of-range probe is a
// shape question, so it registers a structural dependency before panicking.
func (l *List[T]) check(i int) {
	if i < 0 || i >= len(l.slots) {
		l.structure.Get()
		panic(&OutOfBoundsError{Index: i, Length: len(l.slots)})
	}
}

// checkUntracked validates i for mutation paths, which never register reads.
func (l *List[T]) checkUntracked(i int) {
	if i < 0 || i >= len(l.slots) {
		panic(&OutOfBoundsError{Index: i, Length: len(l.slots)})
	}
}

func (l *List[T]) bump() {
	l.structure.Update(func(v uint64) uint64 { return v + 1 })
}
