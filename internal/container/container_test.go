package container

import "testing"

func TestArrayCapacityNeverExceeded(t *testing.T) {
	a := NewArray[int](2)
	if !a.Push(1) || !a.Push(2) {
		t.Fatal("expected first two pushes to succeed")
	}
	if a.Push(3) {
		t.Fatal("expected push past capacity to fail")
	}
	if !a.IsFull() {
		t.Fatal("expected array to report full")
	}
}

func TestArrayRemoveSwapBack(t *testing.T) {
	a := NewArray[int](4)
	a.Push(1)
	a.Push(2)
	a.Push(3)
	if !a.RemoveSwapBack(0) {
		t.Fatal("remove should succeed")
	}
	if a.Num() != 2 {
		t.Fatalf("Num() = %d, want 2", a.Num())
	}
}

func TestMapSetGetDelete(t *testing.T) {
	m := NewMap[string, int](4, func(a, b string) bool { return a < b })
	m.Set("a", 1)
	m.Set("b", 2)
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v,%v want 1,true", v, ok)
	}
	if !m.Delete("a") {
		t.Fatal("delete should succeed")
	}
	if _, ok := m.Get("a"); ok {
		t.Fatal("a should be gone")
	}
}

func TestMapSortThenBinarySearch(t *testing.T) {
	m := NewMap[int, string](8, func(a, b int) bool { return a < b })
	for _, k := range []int{5, 1, 4, 2, 3} {
		m.Set(k, "v")
	}
	m.SortByKey()
	for _, k := range []int{1, 2, 3, 4, 5} {
		if _, ok := m.Get(k); !ok {
			t.Fatalf("missing key %d after sort", k)
		}
	}
}

func TestSetOperations(t *testing.T) {
	a := NewSet[int](4)
	a.Add(1)
	a.Add(2)
	b := NewSet[int](4)
	b.Add(2)
	b.Add(3)

	if !a.Intersects(b) {
		t.Fatal("expected intersection")
	}
	if a.IsDisjoint(b) {
		t.Fatal("expected not disjoint")
	}
	c := NewSet[int](2)
	c.Add(1)
	c.Add(2)
	if !c.IsSubsetOf(a) {
		t.Fatal("c should be subset of a")
	}
}

func TestRingQueueFIFO(t *testing.T) {
	r := NewRingQueue[int](3)
	r.Push(1)
	r.Push(2)
	r.Push(3)
	if r.Push(4) {
		t.Fatal("expected push past capacity to fail")
	}
	for _, want := range []int{1, 2, 3} {
		got, ok := r.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = %v,%v want %v,true", got, ok, want)
		}
	}
	if _, ok := r.Pop(); ok {
		t.Fatal("expected empty pop to fail")
	}
}

func TestMPMCQueueSingleThreaded(t *testing.T) {
	q := NewMPMCQueue[int](4) // rounds to 4
	for i := 0; i < 4; i++ {
		if !q.Enqueue(i) {
			t.Fatalf("enqueue %d should succeed", i)
		}
	}
	if q.Enqueue(99) {
		t.Fatal("expected enqueue past capacity to fail")
	}
	for i := 0; i < 4; i++ {
		v, ok := q.Dequeue()
		if !ok || v != i {
			t.Fatalf("dequeue = %v,%v want %v,true", v, ok, i)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected empty dequeue to fail")
	}
}

func TestMPMCQueueRoundsCapacityToPowerOfTwo(t *testing.T) {
	q := NewMPMCQueue[int](5)
	if q.Capacity() != 8 {
		t.Fatalf("Capacity() = %d, want 8", q.Capacity())
	}
}

func TestBlockAllocatorCompactKeepsHandlesResolvable(t *testing.T) {
	b := NewBlockAllocator[int](8)
	ids := []uint32{1, 2, 3, 4}
	for _, id := range ids {
		p, ok := b.Allocate(id)
		if !ok {
			t.Fatalf("allocate %d failed", id)
		}
		*p = int(id) * 10
	}
	b.Release(2)
	b.Compact()

	if b.Num() != 3 {
		t.Fatalf("Num() = %d, want 3", b.Num())
	}
	for _, id := range []uint32{1, 3, 4} {
		p, ok := b.Get(id)
		if !ok {
			t.Fatalf("id %d should resolve after compact", id)
		}
		if *p != int(id)*10 {
			t.Fatalf("id %d value = %d, want %d", id, *p, int(id)*10)
		}
	}
}

func TestChunkAllocatorAcquireRelease(t *testing.T) {
	c := NewChunkAllocator[[16]byte](2)
	i1, p1 := c.Acquire()
	if i1 < 0 || p1 == nil {
		t.Fatal("first acquire should succeed")
	}
	i2, _ := c.Acquire()
	if i2 < 0 {
		t.Fatal("second acquire should succeed")
	}
	if i3, _ := c.Acquire(); i3 >= 0 {
		t.Fatal("third acquire should fail, pool exhausted")
	}
	c.Release(i1)
	if i4, _ := c.Acquire(); i4 < 0 {
		t.Fatal("acquire after release should succeed")
	}
}

func TestArenaResetReclaimsAll(t *testing.T) {
	a := NewArena(16)
	if _, ok := a.Alloc(10); !ok {
		t.Fatal("alloc within capacity should succeed")
	}
	if _, ok := a.Alloc(10); ok {
		t.Fatal("alloc past capacity should fail")
	}
	a.Reset()
	if _, ok := a.Alloc(16); !ok {
		t.Fatal("alloc after reset should succeed")
	}
}

func TestArenaSliceAppendClearTruncate(t *testing.T) {
	a := NewArena(1024)
	s, ok := NewArenaSlice[int](a, 4, 8)
	if !ok {
		t.Fatal("expected ArenaSlice allocation within arena capacity to succeed")
	}
	for i := 0; i < 4; i++ {
		if !s.Append(i) {
			t.Fatalf("expected append %d within capacity to succeed", i)
		}
	}
	if s.Append(4) {
		t.Fatal("expected append past reserved capacity to fail")
	}
	if s.Len() != 4 {
		t.Fatalf("expected length 4, got %d", s.Len())
	}

	s.Truncate(2)
	if s.Len() != 2 || s.Slice()[0] != 0 || s.Slice()[1] != 1 {
		t.Fatalf("expected truncate to keep the first 2 elements, got %v", s.Slice())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatal("expected clear to empty the slice")
	}
	if !s.Append(42) {
		t.Fatal("expected append after clear to succeed within reserved capacity")
	}
}

func TestBVHQueryFindsOverlapping(t *testing.T) {
	b := NewBVH(4)
	bounds := []AABB{
		{0, 0, 10, 10},
		{100, 100, 110, 110},
		{5, 5, 15, 15},
	}
	b.Build(bounds, []int32{1, 2, 3})

	out := b.Query(AABB{0, 0, 6, 6}, nil)
	found := map[int32]bool{}
	for _, id := range out {
		found[id] = true
	}
	if !found[1] || !found[3] {
		t.Fatalf("expected leaves 1 and 3 in query result, got %v", out)
	}
	if found[2] {
		t.Fatalf("did not expect leaf 2 (far away) in result, got %v", out)
	}
}
