package cell

import (
	"testing"
)

func TestCellGetSet(t *testing.T) {
	c := New(42)

	if got := c.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}

	c.Set(100)
	if got := c.Get(); got != 100 {
		t.Errorf("Get() after Set = %d, want 100", got)
	}
}

func TestCellPeekDoesNotTrack(t *testing.T) {
	c := New(1)
	computes := 0
	d := Derive(func() int {
		computes++
		c.Peek()
		return 0
	})
	d.Get()

	c.Set(2)
	d.Get()

	if computes != 1 {
		t.Errorf("compute ran %d times, want 1: Peek must not register a dependency", computes)
	}
}

func TestCellUpdate(t *testing.T) {
	c := New(10)
	c.Update(func(v int) int { return v * 2 })

	if got := c.Get(); got != 20 {
		t.Errorf("Get() after Update = %d, want 20", got)
	}
}

func TestCellEqualitySuppression(t *testing.T) {
	c := New(5)
	runs := 0
	w := Watch(func() {
		c.Get()
		runs++
	})
	defer w.Destroy()

	c.Set(5)
	if runs != 1 {
		t.Errorf("watcher ran %d times after equal write, want 1", runs)
	}

	c.Set(6)
	if runs != 2 {
		t.Errorf("watcher ran %d times after unequal write, want 2", runs)
	}
}

func TestCellEqualWritePreservesStoredValue(t *testing.T) {
	type box struct{ n int }
	first := &box{1}
	c := New(first).WithEquals(func(a, b *box) bool { return a.n == b.n })

	c.Set(&box{1})
	if got := c.Get(); got != first {
		t.Error("equal write must retain the previously stored value")
	}
}

func TestCellWithEquals(t *testing.T) {
	// Compare only the integer part, so 1.2 -> 1.9 is not a change.
	c := New(1.2).WithEquals(func(a, b float64) bool {
		return int(a) == int(b)
	})

	runs := 0
	w := Watch(func() {
		c.Get()
		runs++
	})
	defer w.Destroy()

	c.Set(1.9)
	if runs != 1 {
		t.Errorf("watcher ran %d times, want 1: custom equality should suppress", runs)
	}

	c.Set(2.1)
	if runs != 2 {
		t.Errorf("watcher ran %d times, want 2", runs)
	}
}

func TestCellTouchNotifiesWithoutChange(t *testing.T) {
	c := New(7)
	runs := 0
	w := Watch(func() {
		c.Get()
		runs++
	})
	defer w.Destroy()

	c.Touch()
	if runs != 2 {
		t.Errorf("watcher ran %d times after Touch, want 2", runs)
	}
	if got := c.Get(); got != 7 {
		t.Errorf("Get() after Touch = %d, want 7", got)
	}
}

func TestUntrackedRead(t *testing.T) {
	a := New(1)
	b := New(2)
	runs := 0
	w := Watch(func() {
		a.Get()
		Untracked(func() {
			b.Get()
		})
		runs++
	})
	defer w.Destroy()

	b.Set(3)
	if runs != 1 {
		t.Errorf("watcher ran %d times after untracked dep changed, want 1", runs)
	}

	a.Set(2)
	if runs != 2 {
		t.Errorf("watcher ran %d times after tracked dep changed, want 2", runs)
	}
}

func TestCellIDsUnique(t *testing.T) {
	a := New(0)
	b := New(0)
	if a.ID() == b.ID() {
		t.Error("distinct cells must have distinct IDs")
	}
}
