package cell

import (
	"testing"
)

func TestWatchRunsImmediately(t *testing.T) {
	c := New(1)
	var seen []int
	w := Watch(func() {
		seen = append(seen, c.Get())
	})
	defer w.Destroy()

	if len(seen) != 1 || seen[0] != 1 {
		t.Errorf("seen = %v, want [1]", seen)
	}
}

func TestWatchRerunsOnChange(t *testing.T) {
	c := New(1)
	var seen []int
	w := Watch(func() {
		seen = append(seen, c.Get())
	})
	defer w.Destroy()

	c.Set(2)
	c.Set(3)

	want := []int{1, 2, 3}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestWatchEndToEnd(t *testing.T) {
	r1 := New(1)
	r2 := New(2)
	c := Derive(func() int { return r1.Get() + r2.Get() })

	var logged []int
	w := Watch(func() {
		logged = append(logged, c.Get())
	})
	defer w.Destroy()

	if len(logged) != 1 || logged[0] != 3 {
		t.Fatalf("logged = %v, want [3]", logged)
	}

	Batch(func() {
		r1.Set(2)
		r2.Set(3)
	})

	if len(logged) != 2 || logged[1] != 5 {
		t.Errorf("logged = %v, want [3 5]", logged)
	}
}

func TestWatchBatchedObservesFinalState(t *testing.T) {
	a := New(1)
	b := New(2)
	runs := 0
	w := Watch(func() {
		if runs > 0 {
			if got := a.Get() + b.Get(); got != 30 {
				t.Errorf("watcher observed %d mid-batch, want settled 30", got)
			}
		} else {
			a.Get()
			b.Get()
		}
		runs++
	})
	defer w.Destroy()

	Batch(func() {
		a.Set(10)
		b.Set(20)
	})

	if runs != 2 {
		t.Errorf("watcher ran %d times, want 2", runs)
	}
}

func TestWatchSyncFiresPerWrite(t *testing.T) {
	a := New(1)
	b := New(2)
	runs := 0
	w := Watch(func() {
		a.Get()
		b.Get()
		runs++
	}, Sync())
	defer w.Destroy()

	Batch(func() {
		a.Set(10)
		b.Set(20)
	})

	// Initial run plus one inline run per dirtying write.
	if runs != 3 {
		t.Errorf("sync watcher ran %d times, want 3", runs)
	}
}

func TestWatchFirstDirtiedOrder(t *testing.T) {
	a := New(1)
	b := New(2)
	var order []string

	wa := Watch(func() {
		a.Get()
		order = append(order, "a")
	})
	defer wa.Destroy()
	wb := Watch(func() {
		b.Get()
		order = append(order, "b")
	})
	defer wb.Destroy()
	order = order[:0]

	Batch(func() {
		b.Set(20)
		a.Set(10)
	})

	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Errorf("order = %v, want [b a]", order)
	}
}

func TestWatchDestroyStopsRuns(t *testing.T) {
	c := New(1)
	runs := 0
	w := Watch(func() {
		c.Get()
		runs++
	})

	w.Destroy()
	w.Destroy() // idempotent

	c.Set(2)
	if runs != 1 {
		t.Errorf("watcher ran %d times after Destroy, want 1", runs)
	}
}

func TestWatchDestroyFromOwnCallback(t *testing.T) {
	c := New(1)
	runs := 0
	var w *Watcher
	w = Watch(func() {
		c.Get()
		runs++
		if runs == 2 {
			w.Destroy()
		}
	})

	c.Set(2)
	c.Set(3)

	if runs != 2 {
		t.Errorf("watcher ran %d times, want 2", runs)
	}
}

func TestWatchReentrantWriteFoldsIntoPass(t *testing.T) {
	a := New(1)
	b := New(0)

	wa := Watch(func() {
		v := a.Get()
		if v > 1 {
			b.Set(v * 10)
		}
	})
	defer wa.Destroy()

	var seen []int
	wb := Watch(func() {
		seen = append(seen, b.Get())
	})
	defer wb.Destroy()

	a.Set(2)

	// wb fires within the same pass triggered by a.Set.
	if len(seen) != 2 || seen[1] != 20 {
		t.Errorf("seen = %v, want [0 20]", seen)
	}
}

func TestWatchObserverFailureIsolated(t *testing.T) {
	var reported []uint64
	SetErrorReporter(func(id uint64, recovered any) {
		reported = append(reported, id)
	})
	defer ResetErrorReporter()

	c := New(1)
	w := Watch(func() {
		if c.Get() > 1 {
			panic("observer blew up")
		}
	})
	defer w.Destroy()

	healthyRuns := 0
	w2 := Watch(func() {
		c.Get()
		healthyRuns++
	})
	defer w2.Destroy()

	c.Set(2) // must not panic out of Set

	if len(reported) != 1 || reported[0] != w.ID() {
		t.Errorf("reported = %v, want one failure from watcher %d", reported, w.ID())
	}
	if healthyRuns != 2 {
		t.Errorf("healthy watcher ran %d times, want 2: pass must complete", healthyRuns)
	}

	// The failing observer is not disabled.
	c.Set(3)
	if len(reported) != 2 {
		t.Errorf("reported %d failures, want 2", len(reported))
	}
}

func TestWatchUnchangedDerivedStaysQuiet(t *testing.T) {
	a := New(1)
	parityComputes := 0
	parity := Derive(func() int {
		parityComputes++
		return a.Get() % 2
	})

	runs := 0
	w := Watch(func() {
		parity.Get()
		runs++
	})
	defer w.Destroy()

	// The upstream write forces a recompute, but the result is equal, so
	// the watcher must not fire.
	a.Set(3)
	if parityComputes != 2 {
		t.Fatalf("parity computed %d times, want 2", parityComputes)
	}
	if runs != 1 {
		t.Errorf("watcher ran %d times after unchanged derived, want 1", runs)
	}

	a.Set(4)
	if runs != 2 {
		t.Errorf("watcher ran %d times after changed derived, want 2", runs)
	}
}

func TestWatchMixedEdgesFireOnAnyChange(t *testing.T) {
	a := New(1)
	constant := Derive(func() int { a.Get(); return 42 })
	b := New("x")

	runs := 0
	w := Watch(func() {
		constant.Get()
		b.Get()
		runs++
	})
	defer w.Destroy()

	a.Set(2) // constant revalidates equal; nothing else changed
	if runs != 1 {
		t.Errorf("watcher ran %d times, want 1", runs)
	}

	b.Set("y") // the plain-cell edge advanced
	if runs != 2 {
		t.Errorf("watcher ran %d times, want 2", runs)
	}
}

func TestOnChangeSkipsInitialRun(t *testing.T) {
	c := New(1)
	fired := 0
	w := OnChange(
		func() { c.Get() },
		func() { fired++ },
	)
	defer w.Destroy()

	if fired != 0 {
		t.Errorf("callback fired %d times on initial run, want 0", fired)
	}

	c.Set(2)
	if fired != 1 {
		t.Errorf("callback fired %d times after change, want 1", fired)
	}
}
