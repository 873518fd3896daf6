package collection

import "github.com/conterra/cellgraph/pkg/cell"

// Set is a reactive membership container. Each member is backed by its own
// cell so a consumer asking about one value is not woken by churn elsewhere
// in the set.
type Set[T comparable] struct {
	slots     map[T]*cell.Cell[bool]
	structure *cell.Cell[uint64]
}

// NewSet creates a reactive set seeded with the given values.
func NewSet[T comparable](initial ...T) *Set[T] {
	s := &Set[T]{
		slots:     make(map[T]*cell.Cell[bool], len(initial)),
		structure: cell.New(uint64(0)),
	}
	for _, v := range initial {
		if _, ok := s.slots[v]; !ok {
			s.slots[v] = cell.New(true)
		}
	}
	return s
}

// Has reports membership. Asking about a present value depends only on that
// value's slot; asking about an absent value depends on the set's structure.
func (s *Set[T]) Has(value T) bool {
	if slot, ok := s.slots[value]; ok {
		slot.Get()
		return true
	}
	s.structure.Get()
	return false
}

// Add inserts value, reporting whether it was newly added.
func (s *Set[T]) Add(value T) bool {
	if _, ok := s.slots[value]; ok {
		return false
	}
	cell.Batch(func() {
		s.slots[value] = cell.New(true)
		s.bump()
	})
	return true
}

// Remove deletes value, reporting whether it was present.
func (s *Set[T]) Remove(value T) bool {
	slot, ok := s.slots[value]
	if !ok {
		return false
	}
	cell.Batch(func() {
		delete(s.slots, value)
		slot.Touch()
		s.bump()
	})
	return true
}

// Len returns the number of members. Depends on the set's structure.
func (s *Set[T]) Len() int {
	s.structure.Get()
	return len(s.slots)
}

// Values returns the members in unspecified order. Depends on the set's
// structure.
func (s *Set[T]) Values() []T {
	s.structure.Get()
	values := make([]T, 0, len(s.slots))
	for v := range s.slots {
		values = append(values, v)
	}
	return values
}

// ForEach invokes fn for every member. Depends on the set's structure.
func (s *Set[T]) ForEach(fn func(value T)) {
	s.structure.Get()
	for v := range s.slots {
		fn(v)
	}
}

// Clear removes every member in one settle pass.
func (s *Set[T]) Clear() {
	if len(s.slots) == 0 {
		return
	}
	cell.Batch(func() {
		for v, slot := range s.slots {
			delete(s.slots, v)
			slot.Touch()
		}
		s.bump()
	})
}

func (s *Set[T]) bump() {
	s.structure.Update(func(v uint64) uint64 { return v + 1 })
}
