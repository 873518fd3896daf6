package collection

import (
	"testing"
)

func TestMapListSnapshot(t *testing.T) {
	src := NewList(1, 2, 3)
	doubled := MapList(src, func(v int) int { return v * 2 })

	if got := doubled.Values(); len(got) != 3 || got[0] != 2 || got[2] != 6 {
		t.Errorf("Values() = %v, want [2 4 6]", got)
	}

	// Results are snapshots, not kept in sync.
	src.SetAt(0, 100)
	if got := doubled.At(0); got != 2 {
		t.Errorf("At(0) = %d, want 2: query results must not track the source", got)
	}
}

func TestFilterList(t *testing.T) {
	src := NewList(1, 2, 3, 4)
	even := FilterList(src, func(v int) bool { return v%2 == 0 })

	if got := even.Values(); len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("Values() = %v, want [2 4]", got)
	}
}

func TestSliceList(t *testing.T) {
	src := NewList("a", "b", "c", "d")

	mid := SliceList(src, 1, 3)
	if got := mid.Values(); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Values() = %v, want [b c]", got)
	}

	empty := SliceList(src, 2, 2)
	if got := empty.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("SliceList with end beyond length did not panic")
		}
	}()
	SliceList(src, 0, 5)
}

func TestConcatLists(t *testing.T) {
	a := NewList(1, 2)
	b := NewList[int]()
	c := NewList(3)

	out := ConcatLists(a, b, c)
	if got := out.Values(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("Values() = %v, want [1 2 3]", got)
	}
}
