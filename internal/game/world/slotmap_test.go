package world

import "testing"

func TestSlotMapInsertGet(t *testing.T) {
	var s SlotMap[string]
	a := s.Insert(func(ID) string { return "a" })
	b := s.Insert(func(ID) string { return "b" })

	if a == b {
		t.Fatal("ids must differ")
	}
	if v, ok := s.Get(b); !ok || v != "b" {
		t.Errorf("Get(b) = %q, %v", v, ok)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestSlotMapInsertSeesID(t *testing.T) {
	var s SlotMap[ID]
	id := s.Insert(func(id ID) ID { return id })
	if v, _ := s.Get(id); v != id {
		t.Errorf("stored id %d, want %d", v, id)
	}
}

func TestSlotMapRemoveKeepsOrder(t *testing.T) {
	var s SlotMap[int]
	ids := make([]ID, 5)
	for i := range ids {
		v := i
		ids[i] = s.Insert(func(ID) int { return v })
	}

	if !s.Remove(ids[1]) {
		t.Fatal("Remove returned false")
	}
	if s.Remove(ids[1]) {
		t.Error("second Remove should fail")
	}

	want := []int{0, 2, 3, 4}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("Values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values = %v, want %v", got, want)
		}
	}
	for i, id := range []ID{ids[0], ids[2], ids[3], ids[4]} {
		if v, ok := s.Get(id); !ok || v != want[i] {
			t.Errorf("Get(%d) = %d, %v", id, v, ok)
		}
	}
}

func TestSlotMapStaleID(t *testing.T) {
	var s SlotMap[int]
	old := s.Insert(func(ID) int { return 1 })
	s.Remove(old)
	fresh := s.Insert(func(ID) int { return 2 })

	if old.index() != fresh.index() {
		t.Fatalf("slot not reused: %d vs %d", old.index(), fresh.index())
	}
	if s.Has(old) {
		t.Error("stale id resolves")
	}
	if v, ok := s.Get(fresh); !ok || v != 2 {
		t.Errorf("Get(fresh) = %d, %v", v, ok)
	}
}

func TestSlotMapClear(t *testing.T) {
	var s SlotMap[int]
	id := s.Insert(func(ID) int { return 1 })
	s.Clear()

	if s.Len() != 0 || s.Has(id) {
		t.Error("Clear left entries behind")
	}
	s.Insert(func(ID) int { return 3 })
	if s.Len() != 1 {
		t.Errorf("Len = %d after reinsert", s.Len())
	}
}
