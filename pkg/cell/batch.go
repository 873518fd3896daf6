package cell

// Batch runs fn as a single transaction: writes inside it dirty consumers
// immediately but settlement is deferred until the outermost batch exits, so
// every batched watcher fires at most once and observes the final post-write
// state.
//
// Batches nest; inner batches add to the same pending set and only the
// outermost exit settles. A batch opened while a settle pass is running folds
// its writes into that pass instead of starting a nested one.
//
// Example:
//
//	cell.Batch(func() {
//	    first.Set("Jane")
//	    last.Set("Doe")
//	})
func Batch(fn func()) {
	tc := getTrackingContext()

	if tc.batchDepth == 0 && !tc.settling {
		tc.pass++
	}
	tc.batchDepth++

	defer func() {
		tc.batchDepth--
		if tc.batchDepth == 0 && !tc.settling {
			tc.settle()
		}
	}()

	fn()
}

// IsBatching reports whether the calling goroutine is inside a Batch call.
func IsBatching() bool {
	return getTrackingContext().batchDepth > 0
}
