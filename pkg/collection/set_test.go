package collection

import (
	"testing"

	"github.com/conterra/cellgraph/pkg/cell"
)

func TestSetAddRemove(t *testing.T) {
	s := NewSet(1, 2, 2)

	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if !s.Has(1) {
		t.Error("Has(1) = false, want true")
	}

	if !s.Add(3) {
		t.Error("Add(3) = false, want true")
	}
	if s.Add(3) {
		t.Error("second Add(3) = true, want false")
	}

	if !s.Remove(1) {
		t.Error("Remove(1) = false, want true")
	}
	if s.Remove(1) {
		t.Error("second Remove(1) = true, want false")
	}
	if s.Has(1) {
		t.Error("Has(1) = true after removal")
	}
}

func TestSetMembershipSlotIndependence(t *testing.T) {
	s := NewSet("a", "b")

	runs := 0
	w := cell.Watch(func() {
		s.Has("a")
		runs++
	})
	defer w.Destroy()

	s.Remove("b")
	if runs != 1 {
		t.Errorf("watcher of a ran %d times after removing b, want 1", runs)
	}

	s.Remove("a")
	if runs != 2 {
		t.Errorf("watcher of a ran %d times after removing a, want 2", runs)
	}
}

func TestSetAbsentValueDependsOnStructure(t *testing.T) {
	s := NewSet[int]()
	var seen []bool
	w := cell.Watch(func() {
		seen = append(seen, s.Has(7))
	})
	defer w.Destroy()

	s.Add(7)
	if len(seen) != 2 || !seen[1] {
		t.Errorf("seen = %v, want [false true]", seen)
	}
}

func TestSetValues(t *testing.T) {
	s := NewSet(3, 1)
	values := s.Values()
	if len(values) != 2 {
		t.Errorf("Values() returned %d members, want 2", len(values))
	}

	count := 0
	s.ForEach(func(int) { count++ })
	if count != 2 {
		t.Errorf("ForEach visited %d members, want 2", count)
	}
}

func TestSetClear(t *testing.T) {
	s := NewSet(1, 2, 3)
	runs := 0
	w := cell.Watch(func() {
		s.Len()
		runs++
	})
	defer w.Destroy()

	s.Clear()
	if got := s.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
	if runs != 2 {
		t.Errorf("size watcher ran %d times for Clear, want 2", runs)
	}
}
