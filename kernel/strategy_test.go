package kernel

import "testing"

func readyTCB(id uint64, priority int, arrival uint64) *TCB {
	tcb := newTestTCB(id, priority)
	tcb.arrivalSeq = arrival
	return tcb
}

func TestPriorityStrategySelectsSmallestPriority(t *testing.T) {
	s := NewPriorityStrategy()
	ready := []*TCB{readyTCB(1, 5, 1), readyTCB(2, 1, 2), readyTCB(3, 3, 3)}

	got := s.SelectNext(ready, nil)
	if got.ID != 2 {
		t.Fatalf("expected TCB 2 (priority 1), got %d", got.ID)
	}
	for _, r := range ready {
		if r.CurrentPriority < got.CurrentPriority {
			t.Fatalf("priority monotonicity violated: %d has lower priority than selected %d", r.ID, got.ID)
		}
	}
}

func TestPriorityStrategyTieGoesToIncumbent(t *testing.T) {
	s := NewPriorityStrategy()
	current := readyTCB(1, 2, 1)
	ready := []*TCB{readyTCB(2, 2, 2)} // equal priority to current

	got := s.SelectNext(ready, current)
	if got != current {
		t.Fatalf("expected tie to keep the incumbent, got %d", got.ID)
	}
}

func TestPriorityStrategyPreemptsOnStrictlyHigherPriority(t *testing.T) {
	s := NewPriorityStrategy()
	current := readyTCB(1, 5, 1)
	higher := readyTCB(2, 0, 2)

	got := s.SelectNext([]*TCB{higher}, current)
	if got != higher {
		t.Fatalf("expected preemption by strictly higher priority task, got %d", got.ID)
	}
}

func TestStrategyPurityDoesNotMutateTCBs(t *testing.T) {
	strategies := []Strategy{
		NewPriorityStrategy(),
		NewRoundRobinStrategy(0.005),
		NewFCFSStrategy(),
		NewSJFStrategy(),
	}

	for _, s := range strategies {
		a := readyTCB(1, 3, 1)
		b := readyTCB(2, 3, 2)
		before := []TCB{*a, *b}

		s.SelectNext([]*TCB{a, b}, nil)

		after := []*TCB{a, b}
		for i, tcb := range after {
			if tcb.CurrentPriority != before[i].CurrentPriority || tcb.state != before[i].state {
				t.Fatalf("%T mutated TCB %d: strategies must not mutate TCB state", s, tcb.ID)
			}
		}
	}
}

func TestFCFSOrdersByArrival(t *testing.T) {
	s := NewFCFSStrategy()
	ready := []*TCB{readyTCB(1, 9, 3), readyTCB(2, 0, 1), readyTCB(3, 5, 2)}

	got := s.SelectNext(ready, nil)
	if got.ID != 2 {
		t.Fatalf("expected earliest arrival (TCB 2), got %d", got.ID)
	}
}

func TestFCFSNeverPreemptsRunning(t *testing.T) {
	s := NewFCFSStrategy()
	current := readyTCB(1, 9, 5)
	ready := []*TCB{readyTCB(2, 0, 1)}

	got := s.SelectNext(ready, current)
	if got != current {
		t.Fatalf("FCFS must never preempt a running task")
	}
}

func TestSJFPicksSmallestRemainingWork(t *testing.T) {
	s := NewSJFStrategy()

	short := readyTCB(1, 9, 1)
	short.Task = &fakeTask{name: "short", total: 2, step: 0, wcet: 0.001}

	long := readyTCB(2, 9, 2)
	long.Task = &fakeTask{name: "long", total: 10, step: 0, wcet: 0.005}

	got := s.SelectNext([]*TCB{long, short}, nil)
	if got.ID != short.ID {
		t.Fatalf("expected shortest remaining work (TCB %d), got %d", short.ID, got.ID)
	}
}

func TestSJFTiesBrokenByArrival(t *testing.T) {
	s := NewSJFStrategy()

	a := readyTCB(1, 9, 5)
	a.Task = &fakeTask{name: "a", total: 4, wcet: 0.002}
	b := readyTCB(2, 9, 1)
	b.Task = &fakeTask{name: "b", total: 4, wcet: 0.002}

	got := s.SelectNext([]*TCB{a, b}, nil)
	if got.ID != b.ID {
		t.Fatalf("expected earlier arrival to break the tie (TCB %d), got %d", b.ID, got.ID)
	}
}

func TestRoundRobinIgnoresPriorityAndRotatesOnExpiry(t *testing.T) {
	s := NewRoundRobinStrategy(0.010)

	low := readyTCB(1, 200, 1)
	high := readyTCB(2, 0, 2)

	first := s.SelectNext([]*TCB{low, high}, nil)
	if first.ID != low.ID {
		t.Fatalf("expected RR to dispatch in arrival/queue order regardless of priority, got %d", first.ID)
	}

	// Running task keeps the CPU until its slice expires.
	again := s.SelectNext([]*TCB{high}, first)
	if again != first {
		t.Fatalf("expected RR to keep the incumbent mid-slice")
	}

	if !s.ChargeSlice(first, 0.010) {
		t.Fatalf("expected slice to expire after charging its full duration")
	}
	s.OnTimeSliceExpired(first)

	next := s.SelectNext([]*TCB{high}, first)
	if next.ID != high.ID {
		t.Fatalf("expected rotation to advance to the other task after expiry, got %d", next.ID)
	}
}

func TestRoundRobinResetClearsState(t *testing.T) {
	s := NewRoundRobinStrategy(0.010)
	a := readyTCB(1, 5, 1)
	s.SelectNext([]*TCB{a}, nil)

	s.Reset()

	if len(s.queue) != 0 || len(s.remaining) != 0 || s.cursor != 0 {
		t.Fatalf("expected Reset to clear rotation state")
	}
}
