package collection

// Query helpers build new, independent lists computed eagerly over the
// source's current contents. Results are snapshots: they do not stay in
// sync with their sources. Run them inside a watcher to re-derive on change.

// MapList returns a new list holding fn applied to every element of src.
func MapList[T, U any](src *List[T], fn func(T) U) *List[U] {
	values := src.Values()
	mapped := make([]U, 0, len(values))
	for _, v := range values {
		mapped = append(mapped, fn(v))
	}
	return NewList(mapped...)
}

// FilterList returns a new list holding the elements of src for which fn
// reports true, in source order.
func FilterList[T any](src *List[T], fn func(T) bool) *List[T] {
	values := src.Values()
	kept := make([]T, 0, len(values))
	for _, v := range values {
		if fn(v) {
			kept = append(kept, v)
		}
	}
	return NewList(kept...)
}

// SliceList returns a new list holding src's elements in [start, end).
// Bounds outside [0, Len] panic with *OutOfBoundsError.
func SliceList[T any](src *List[T], start, end int) *List[T] {
	values := src.Values()
	if start < 0 || start > len(values) {
		panic(&OutOfBoundsError{Index: start, Length: len(values)})
	}
	if end < start || end > len(values) {
		panic(&OutOfBoundsError{Index: end, Length: len(values)})
	}
	return NewList(values[start:end]...)
}

// ConcatLists returns a new list holding the elements of every source list
// in order.
func ConcatLists[T any](lists ...*List[T]) *List[T] {
	out := NewList[T]()
	for _, l := range lists {
		out.Append(l.Values()...)
	}
	return out
}
