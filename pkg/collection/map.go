package collection

import "github.com/conterra/cellgraph/pkg/cell"

// Map is a reactive key-value container with per-key invalidation.
type Map[K comparable, V any] struct {
	// slots holds one cell per live key.
	slots map[K]*cell.Cell[V]

	// structure is dirtied by every shape change: key addition, removal,
	// and clear. Its value is a bump counter, never read for content.
	structure *cell.Cell[uint64]
}

// NewMap creates a reactive map, optionally seeded from initial. A nil
// initial map creates an empty container.
func NewMap[K comparable, V any](initial map[K]V) *Map[K, V] {
	m := &Map[K, V]{
		slots:     make(map[K]*cell.Cell[V], len(initial)),
		structure: cell.New(uint64(0)),
	}
	for k, v := range initial {
		m.slots[k] = cell.New(v)
	}
	return m
}

// Get returns the value for key. Reading an existing key depends only on
// that key's slot; reading an absent key depends on the map's structure, so
// the consumer re-runs when the key appears.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if slot, ok := m.slots[key]; ok {
		return slot.Get(), true
	}
	m.structure.Get()
	var zero V
	return zero, false
}

// Has reports whether key is present, with the same dependency granularity
// as Get.
func (m *Map[K, V]) Has(key K) bool {
	if slot, ok := m.slots[key]; ok {
		slot.Get()
		return true
	}
	m.structure.Get()
	return false
}

// Set stores value under key. Replacing an existing key's value dirties only
// that slot; introducing a new key dirties the structure.
func (m *Map[K, V]) Set(key K, value V) {
	if slot, ok := m.slots[key]; ok {
		slot.Set(value)
		return
	}
	cell.Batch(func() {
		m.slots[key] = cell.New(value)
		m.bump()
	})
}

// Update applies fn to the value under key. Absent keys are left untouched
// and reported false.
func (m *Map[K, V]) Update(key K, fn func(V) V) bool {
	slot, ok := m.slots[key]
	if !ok {
		return false
	}
	slot.Update(fn)
	return true
}

// Remove deletes key, reporting whether it was present. The discarded slot
// cell is force-notified so consumers tracking it re-run and observe the
// absence.
func (m *Map[K, V]) Remove(key K) bool {
	slot, ok := m.slots[key]
	if !ok {
		return false
	}
	cell.Batch(func() {
		delete(m.slots, key)
		slot.Touch()
		m.bump()
	})
	return true
}

// Len returns the number of keys. Depends on the map's structure.
func (m *Map[K, V]) Len() int {
	m.structure.Get()
	return len(m.slots)
}

// Keys returns the live keys in unspecified order. Depends on the map's
// structure.
func (m *Map[K, V]) Keys() []K {
	m.structure.Get()
	keys := make([]K, 0, len(m.slots))
	for k := range m.slots {
		keys = append(keys, k)
	}
	return keys
}

// ForEach invokes fn for every entry. Depends on the structure and on every
// visited slot.
func (m *Map[K, V]) ForEach(fn func(key K, value V)) {
	m.structure.Get()
	for k, slot := range m.slots {
		fn(k, slot.Get())
	}
}

// Values returns the current values in unspecified order, with the same
// dependencies as ForEach.
func (m *Map[K, V]) Values() []V {
	m.structure.Get()
	values := make([]V, 0, len(m.slots))
	for _, slot := range m.slots {
		values = append(values, slot.Get())
	}
	return values
}

// Clear removes every entry in one settle pass.
func (m *Map[K, V]) Clear() {
	if len(m.slots) == 0 {
		return
	}
	cell.Batch(func() {
		for k, slot := range m.slots {
			delete(m.slots, k)
			slot.Touch()
		}
		m.bump()
	})
}

func (m *Map[K, V]) bump() {
	m.structure.Update(func(v uint64) uint64 { return v + 1 })
}
