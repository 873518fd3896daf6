package cell

import (
	"testing"
)

func TestExternalLazyPull(t *testing.T) {
	pulls := 0
	x := NewExternal(func() int {
		pulls++
		return 7
	})

	if pulls != 0 {
		t.Errorf("pull ran %d times before first read, want 0", pulls)
	}
	if got := x.Get(); got != 7 {
		t.Errorf("Get() = %d, want 7", got)
	}
	x.Get()
	if pulls != 1 {
		t.Errorf("pull ran %d times, want 1: value cached until triggered", pulls)
	}
}

func TestExternalTriggerIsLazy(t *testing.T) {
	pulls := 0
	value := 1
	x := NewExternal(func() int {
		pulls++
		return value
	})
	x.Get()

	value = 2
	x.Trigger()
	if pulls != 1 {
		t.Errorf("pull ran %d times after Trigger, want 1: Trigger must not pull", pulls)
	}

	if got := x.Get(); got != 2 {
		t.Errorf("Get() after Trigger = %d, want 2", got)
	}
	if pulls != 2 {
		t.Errorf("pull ran %d times, want 2", pulls)
	}
}

func TestExternalTriggerNotifiesConsumers(t *testing.T) {
	value := 1
	x := NewExternal(func() int { return value })

	var seen []int
	w := Watch(func() {
		seen = append(seen, x.Get())
	})
	defer w.Destroy()

	value = 5
	x.Trigger()

	if len(seen) != 2 || seen[1] != 5 {
		t.Errorf("seen = %v, want [1 5]", seen)
	}
}

func TestExternalEqualRepullShortCircuits(t *testing.T) {
	x := NewExternal(func() int { return 3 })
	computes := 0
	d := Derive(func() int {
		computes++
		return x.Get()
	})

	d.Get()
	x.Trigger()
	d.Get()

	if computes != 1 {
		t.Errorf("derived computed %d times, want 1: equal re-pull must not advance", computes)
	}
}

func TestSynchronizedAttachDetach(t *testing.T) {
	attaches := 0
	teardowns := 0
	s := NewSynchronized(
		func() int { return 1 },
		func(trigger func()) Teardown {
			attaches++
			return func() { teardowns++ }
		},
	)

	if attaches != 0 {
		t.Fatalf("attach ran %d times with zero consumers, want 0", attaches)
	}

	w1 := Watch(func() { s.Get() })
	if attaches != 1 {
		t.Errorf("attach ran %d times after first consumer, want 1", attaches)
	}

	w2 := Watch(func() { s.Get() })
	if attaches != 1 {
		t.Errorf("attach ran %d times after second consumer, want 1", attaches)
	}
	if got := s.ConsumerCount(); got != 2 {
		t.Errorf("ConsumerCount() = %d, want 2", got)
	}

	w1.Destroy()
	if teardowns != 0 {
		t.Errorf("teardown ran %d times with a consumer left, want 0", teardowns)
	}

	w2.Destroy()
	if teardowns != 1 {
		t.Errorf("teardown ran %d times after last consumer, want 1", teardowns)
	}

	// Re-subscribing attaches again.
	w3 := Watch(func() { s.Get() })
	defer w3.Destroy()
	if attaches != 2 {
		t.Errorf("attach ran %d times after re-subscription, want 2", attaches)
	}
}

func TestSynchronizedTriggerFeedsGraph(t *testing.T) {
	value := 10
	var trigger func()
	s := NewSynchronized(
		func() int { return value },
		func(tr func()) Teardown {
			trigger = tr
			return func() { trigger = nil }
		},
	)

	var seen []int
	w := Watch(func() {
		seen = append(seen, s.Get())
	})
	defer w.Destroy()

	if trigger == nil {
		t.Fatal("attach did not run")
	}

	value = 20
	trigger()

	if len(seen) != 2 || seen[1] != 20 {
		t.Errorf("seen = %v, want [10 20]", seen)
	}
}

func TestSynchronizedReentrantResubscribeKeepsCountExact(t *testing.T) {
	attaches := 0
	teardowns := 0
	s := NewSynchronized(
		func() int { return 1 },
		func(trigger func()) Teardown {
			attaches++
			return func() { teardowns++ }
		},
	)

	gate := New(true)
	w := Watch(func() {
		if gate.Get() {
			s.Get()
		}
	})
	defer w.Destroy()

	if attaches != 1 {
		t.Fatalf("attach ran %d times, want 1", attaches)
	}

	// The re-run stops reading s; its edge is pruned after the run.
	gate.Set(false)
	if teardowns != 1 {
		t.Errorf("teardown ran %d times after consumer stopped reading, want 1", teardowns)
	}

	gate.Set(true)
	if attaches != 2 {
		t.Errorf("attach ran %d times after consumer resumed reading, want 2", attaches)
	}
	if teardowns != 1 {
		t.Errorf("teardown ran %d times, want 1", teardowns)
	}
}
