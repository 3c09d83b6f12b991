package kernel

import "testing"

func newTestTCB(id uint64, priority int) *TCB {
	return &TCB{
		ID:              id,
		Task:            newFakeTask("t", 1, 0.001),
		BasePriority:    priority,
		CurrentPriority: priority,
		readyIndex:      -1,
		state:           Ready,
	}
}

func TestReadyListPeekHighestPicksSmallestPriority(t *testing.T) {
	rl := NewReadyList()
	low := newTestTCB(1, 5)
	high := newTestTCB(2, 1)
	mid := newTestTCB(3, 3)

	rl.Add(low)
	rl.Add(high)
	rl.Add(mid)

	if got := rl.PeekHighest(); got != high {
		t.Fatalf("expected highest-priority TCB %v, got %v", high.ID, got.ID)
	}
	if rl.TopPriority() != 1 {
		t.Fatalf("expected top_priority 1, got %d", rl.TopPriority())
	}
}

func TestReadyListFIFOWithinPriority(t *testing.T) {
	rl := NewReadyList()
	a := newTestTCB(1, 2)
	b := newTestTCB(2, 2)
	c := newTestTCB(3, 2)

	rl.Add(a)
	rl.Add(b)
	rl.Add(c)

	if got := rl.RemoveHighest(); got != a {
		t.Fatalf("expected a first, got %v", got.ID)
	}
	if got := rl.RemoveHighest(); got != b {
		t.Fatalf("expected b second, got %v", got.ID)
	}
	if got := rl.RemoveHighest(); got != c {
		t.Fatalf("expected c third, got %v", got.ID)
	}
	if rl.Count() != 0 {
		t.Fatalf("expected empty ready list, count=%d", rl.Count())
	}
	if rl.TopPriority() != -1 {
		t.Fatalf("expected top_priority -1 on empty list, got %d", rl.TopPriority())
	}
}

func TestReadyListRemoveMiddleReindexes(t *testing.T) {
	rl := NewReadyList()
	a := newTestTCB(1, 4)
	b := newTestTCB(2, 4)
	c := newTestTCB(3, 4)
	rl.Add(a)
	rl.Add(b)
	rl.Add(c)

	rl.Remove(b)
	if rl.Contains(b) {
		t.Fatalf("expected b removed")
	}
	if got := rl.RemoveHighest(); got != a {
		t.Fatalf("expected a first after removing b, got %v", got.ID)
	}
	if got := rl.RemoveHighest(); got != c {
		t.Fatalf("expected c second after removing b, got %v", got.ID)
	}
}

func TestReadyListMoveToEndRotates(t *testing.T) {
	rl := NewReadyList()
	a := newTestTCB(1, 7)
	b := newTestTCB(2, 7)
	rl.Add(a)
	rl.Add(b)

	rl.MoveToEnd(a)

	if got := rl.RemoveHighest(); got != b {
		t.Fatalf("expected b first after rotating a to the end, got %v", got.ID)
	}
	if got := rl.RemoveHighest(); got != a {
		t.Fatalf("expected a second, got %v", got.ID)
	}
}

func TestReadyListBitmapTopPriorityCorrectness(t *testing.T) {
	rl := NewReadyList()
	priorities := []int{200, 5, 130, 5, 0, 254, 64}
	tcbs := make([]*TCB, 0, len(priorities))
	for i, p := range priorities {
		tcb := newTestTCB(uint64(i+1), p)
		tcbs = append(tcbs, tcb)
		rl.Add(tcb)
	}

	want := func() int {
		best := -1
		for _, tcb := range tcbs {
			if tcb.readyIndex == -1 {
				continue
			}
			if best == -1 || tcb.CurrentPriority < best {
				best = tcb.CurrentPriority
			}
		}
		return best
	}

	if rl.TopPriority() != want() {
		t.Fatalf("top_priority mismatch: got %d want %d", rl.TopPriority(), want())
	}

	for _, tcb := range tcbs {
		rl.Remove(tcb)
		if rl.TopPriority() != want() {
			t.Fatalf("top_priority mismatch after removing %d: got %d want %d", tcb.ID, rl.TopPriority(), want())
		}
	}

	if rl.TopPriority() != -1 {
		t.Fatalf("expected -1 once fully drained, got %d", rl.TopPriority())
	}
}

func TestReadyListAllIsPriorityAscending(t *testing.T) {
	rl := NewReadyList()
	rl.Add(newTestTCB(1, 10))
	rl.Add(newTestTCB(2, 2))
	rl.Add(newTestTCB(3, 6))

	all := rl.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].CurrentPriority > all[i].CurrentPriority {
			t.Fatalf("All() not priority-ascending: %v", all)
		}
	}
}

func TestReadyListCountAtPriority(t *testing.T) {
	rl := NewReadyList()
	rl.Add(newTestTCB(1, 3))
	rl.Add(newTestTCB(2, 3))
	rl.Add(newTestTCB(3, 9))

	if rl.CountAtPriority(3) != 2 {
		t.Fatalf("expected 2 at priority 3, got %d", rl.CountAtPriority(3))
	}
	if rl.CountAtPriority(9) != 1 {
		t.Fatalf("expected 1 at priority 9, got %d", rl.CountAtPriority(9))
	}
	if rl.CountAtPriority(250) != 0 {
		t.Fatalf("expected 0 at an empty priority, got %d", rl.CountAtPriority(250))
	}
}

func TestReadyListClear(t *testing.T) {
	rl := NewReadyList()
	a := newTestTCB(1, 1)
	rl.Add(a)
	rl.Clear()

	if rl.Count() != 0 || rl.TopPriority() != -1 {
		t.Fatalf("expected empty ready list after Clear")
	}
	if a.readyIndex != -1 {
		t.Fatalf("expected Clear to reset readyIndex on member TCBs")
	}
}
