package cell

import (
	"testing"
)

func TestBatchSingleSettle(t *testing.T) {
	a := New(1)
	b := New(2)
	runs := 0
	w := Watch(func() {
		a.Get()
		b.Get()
		runs++
	})
	defer w.Destroy()

	Batch(func() {
		a.Set(10)
		b.Set(20)
		if runs != 1 {
			t.Errorf("batched watcher ran %d times mid-batch, want 1", runs)
		}
	})

	if runs != 2 {
		t.Errorf("watcher ran %d times, want 2", runs)
	}
}

func TestBatchNesting(t *testing.T) {
	a := New(1)
	runs := 0
	w := Watch(func() {
		a.Get()
		runs++
	})
	defer w.Destroy()

	Batch(func() {
		a.Set(2)
		Batch(func() {
			a.Set(3)
		})
		if runs != 1 {
			t.Errorf("watcher ran %d times before outermost exit, want 1", runs)
		}
	})

	if runs != 2 {
		t.Errorf("watcher ran %d times, want 2: nested batches settle once", runs)
	}
	if got := a.Get(); got != 3 {
		t.Errorf("a = %d, want 3", got)
	}
}

func TestBatchWithoutWritesSettlesNothing(t *testing.T) {
	c := New(1)
	runs := 0
	w := Watch(func() {
		c.Get()
		runs++
	})
	defer w.Destroy()

	Batch(func() {})

	if runs != 1 {
		t.Errorf("watcher ran %d times after empty batch, want 1", runs)
	}
}

func TestIsBatching(t *testing.T) {
	if IsBatching() {
		t.Error("IsBatching() = true outside a batch")
	}
	Batch(func() {
		if !IsBatching() {
			t.Error("IsBatching() = false inside a batch")
		}
	})
}

func TestBareWriteIsImplicitBatch(t *testing.T) {
	c := New(1)
	runs := 0
	w := Watch(func() {
		c.Get()
		runs++
	})
	defer w.Destroy()

	c.Set(2)
	// Settlement completed before Set returned.
	if runs != 2 {
		t.Errorf("watcher ran %d times immediately after Set, want 2", runs)
	}
}
