package kernel

import "testing"

func missTCB(id uint64, missCount uint64, kind DeadlineKind) *TCB {
	tcb := &TCB{ID: id, DeadlineKind: kind, AbsoluteDeadline: 1.0}
	tcb.Stats.DeadlineMissCount = missCount
	return tcb
}

func TestDeadlineManagerClassifiesCriticalAtThreshold(t *testing.T) {
	dm := NewDeadlineManagerWithThreshold(3)

	tcb := missTCB(1, 3, DeadlineSoft) // the 3rd miss, already counted on the TCB
	dm.recordMiss(tcb, 1.002)

	events := dm.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 logged event, got %d", len(events))
	}
	if events[0].Kind != EventCritical {
		t.Fatalf("expected Critical at the threshold miss count, got %v", events[0].Kind)
	}
}

func TestDeadlineManagerClassifiesMissBelowThreshold(t *testing.T) {
	dm := NewDeadlineManagerWithThreshold(3)
	tcb := missTCB(1, 0, DeadlineHard)

	dm.recordMiss(tcb, 1.003)

	events := dm.Events()
	if len(events) != 1 || events[0].Kind != EventMiss {
		t.Fatalf("expected a single Miss event below threshold, got %+v", events)
	}
	if dm.HardMiss() != 1 {
		t.Fatalf("expected hard_miss counter to be 1, got %d", dm.HardMiss())
	}
}

func TestDeadlineManagerOverrunComputed(t *testing.T) {
	dm := NewDeadlineManager()
	tcb := missTCB(1, 0, DeadlineHard)
	tcb.AbsoluteDeadline = 1.0

	dm.recordMiss(tcb, 1.002)

	events := dm.Events()
	overrun := events[0].Overrun
	if diff := overrun - 0.002; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected overrun ~0.002, got %v", overrun)
	}
}

func TestDeadlineManagerFansOutToListeners(t *testing.T) {
	dm := NewDeadlineManager()

	var a, b int
	dm.Subscribe(func(DeadlineEvent) { a++ })
	dm.Subscribe(func(DeadlineEvent) { b++ })

	dm.recordMiss(missTCB(1, 0, DeadlineSoft), 1.0)
	dm.recordMiss(missTCB(2, 0, DeadlineSoft), 1.0)

	if a != 2 || b != 2 {
		t.Fatalf("expected both listeners to observe both events, got a=%d b=%d", a, b)
	}
}

func TestDeadlineManagerTotalMissAccumulates(t *testing.T) {
	dm := NewDeadlineManager()
	dm.recordMiss(missTCB(1, 0, DeadlineSoft), 1.0)
	dm.recordMiss(missTCB(1, 1, DeadlineHard), 1.0)

	if dm.TotalMiss() != 2 {
		t.Fatalf("expected total_miss 2, got %d", dm.TotalMiss())
	}
	if dm.HardMiss() != 1 {
		t.Fatalf("expected hard_miss 1, got %d", dm.HardMiss())
	}
}
