package world

// ID identifies a slot map entry. The low 32 bits index the sparse array
// and the high 32 bits hold the slot generation, so ids of removed entries
// never resolve again.
type ID uint64

func makeID(index, gen uint32) ID { return ID(uint64(gen)<<32 | uint64(index)) }

func (id ID) index() uint32 { return uint32(id) }
func (id ID) gen() uint32   { return uint32(id >> 32) }

type slot struct {
	dense int // -1 when free
	gen   uint32
}

// SlotMap stores values densely under stable ids. Iteration follows
// insertion order.
type SlotMap[T any] struct {
	sparse []slot
	free   []uint32
	ids    []ID
	values []T
}

// Insert stores the value built by fn and returns its id. fn receives the
// id first so values can carry it.
func (s *SlotMap[T]) Insert(fn func(id ID) T) ID {
	var index uint32
	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		index = uint32(len(s.sparse))
		s.sparse = append(s.sparse, slot{dense: -1})
	}
	sl := &s.sparse[index]
	sl.gen++
	id := makeID(index, sl.gen)

	sl.dense = len(s.values)
	s.ids = append(s.ids, id)
	s.values = append(s.values, fn(id))
	return id
}

// Has reports whether id is live.
func (s *SlotMap[T]) Has(id ID) bool {
	i := id.index()
	if int(i) >= len(s.sparse) {
		return false
	}
	sl := s.sparse[i]
	return sl.dense >= 0 && sl.gen == id.gen()
}

// Get returns the value stored under id.
func (s *SlotMap[T]) Get(id ID) (T, bool) {
	if !s.Has(id) {
		var zero T
		return zero, false
	}
	return s.values[s.sparse[id.index()].dense], true
}

// Remove deletes id. Later entries shift down to keep insertion order.
func (s *SlotMap[T]) Remove(id ID) bool {
	if !s.Has(id) {
		return false
	}
	at := s.sparse[id.index()].dense
	copy(s.ids[at:], s.ids[at+1:])
	copy(s.values[at:], s.values[at+1:])
	last := len(s.values) - 1
	var zero T
	s.values[last] = zero
	s.ids = s.ids[:last]
	s.values = s.values[:last]
	for i := at; i < len(s.ids); i++ {
		s.sparse[s.ids[i].index()].dense = i
	}
	s.sparse[id.index()].dense = -1
	s.free = append(s.free, id.index())
	return true
}

// Len returns the number of live entries.
func (s *SlotMap[T]) Len() int { return len(s.values) }

// IDs returns the live ids in insertion order. The slice is owned by the map.
func (s *SlotMap[T]) IDs() []ID { return s.ids }

// Values returns the live values in insertion order. The slice is owned by
// the map.
func (s *SlotMap[T]) Values() []T { return s.values }

// Clear removes every entry. Generations survive so old ids stay stale.
func (s *SlotMap[T]) Clear() {
	for _, id := range s.ids {
		s.sparse[id.index()].dense = -1
		s.free = append(s.free, id.index())
	}
	s.ids = s.ids[:0]
	clear(s.values)
	s.values = s.values[:0]
}
