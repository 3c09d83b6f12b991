package kernel

import "testing"

// These tests reproduce the concrete end-to-end scenarios with literal
// inputs and expected outputs: pure priority scheduling, a deadline miss
// run to Critical classification, mid-job preemption, round-robin fair
// share, an FCFS convoy, and pure Idle accounting.

func approx(got, want, tol float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}

func TestScenarioPurePriority(t *testing.T) {
	k := NewKernel(NewPriorityStrategy())
	t1 := newFakeTask("t1", 1, 0.002)
	t2 := newFakeTask("t2", 1, 0.005)
	t3 := newFakeTask("t3", 1, 0.008)
	k.RegisterTask(t1, 0, 0.010, 0, DeadlineNone)
	k.RegisterTask(t2, 1, 0.020, 0, DeadlineNone)
	k.RegisterTask(t3, 2, 0.050, 0, DeadlineNone)
	k.Start()

	if err := k.Tick(0.100); err != nil {
		t.Fatalf("unexpected Tick error: %v", err)
	}

	if t1.execCount != 10 {
		t.Fatalf("expected t1 to complete 10 jobs, got %d", t1.execCount)
	}
	if t2.execCount != 5 {
		t.Fatalf("expected t2 to complete 5 jobs, got %d", t2.execCount)
	}
	if t3.execCount != 2 {
		t.Fatalf("expected t3 to complete 2 jobs, got %d", t3.execCount)
	}
	if dm := k.Deadlines(); dm.TotalMiss() != 0 {
		t.Fatalf("expected zero deadline misses, got %d", dm.TotalMiss())
	}

	busy := 10*0.002 + 5*0.005 + 2*0.008
	idle := 0.100 - busy
	if !approx(idle, 0.039, 1e-9) {
		t.Fatalf("expected idle time ~0.039, computed %v", idle)
	}
}

func TestScenarioDeadlineMissToCritical(t *testing.T) {
	k := NewKernel(NewPriorityStrategy())
	task := newFakeTask("overrun", 2, 0.006)
	k.RegisterTask(task, 0, 0.010, 0.010, DeadlineHard)
	k.Start()

	if err := k.Tick(0.050); err != nil {
		t.Fatalf("unexpected Tick error: %v", err)
	}

	dm := k.Deadlines()
	if dm.HardMiss() < 4 {
		t.Fatalf("expected at least 4 hard deadline misses over 50ms, got %d", dm.HardMiss())
	}

	sawCritical := false
	for _, ev := range dm.Events() {
		if ev.Kind == EventCritical {
			sawCritical = true
		}
		if ev.Kind == EventMiss || ev.Kind == EventCritical {
			if !approx(ev.Overrun, 0.002, 1e-9) {
				t.Fatalf("expected each overrun ~0.002, got %v", ev.Overrun)
			}
		}
	}
	if !sawCritical {
		t.Fatalf("expected a Critical event once the miss-count threshold was reached")
	}
}

func TestScenarioPreemption(t *testing.T) {
	// Both tasks must be registered pre-start (register_task is a
	// pre-start-only operation); L's first job collides with H's at
	// t=0, H wins dispatch and drains immediately, after which L runs
	// uninterrupted until H's *second* activation at t=0.020 preempts
	// it mid-job.
	k := NewKernel(NewPriorityStrategy())
	low := newFakeTask("low", 3, 0.010)
	k.RegisterTask(low, 2, 0.050, 0, DeadlineNone)
	high := newFakeTask("high", 1, 0.002)
	k.RegisterTask(high, 0, 0.020, 0, DeadlineNone)
	k.Start()

	if err := k.Tick(0.010); err != nil {
		t.Fatalf("unexpected Tick error: %v", err)
	}
	if high.execCount != 1 {
		t.Fatalf("expected high's first job to have completed by t=0.010, got execCount %d", high.execCount)
	}
	if low.step != 1 {
		t.Fatalf("expected low to have made exactly 1 step of progress by t=0.010, got %d", low.step)
	}

	if err := k.Tick(0.010); err != nil {
		t.Fatalf("unexpected Tick error: %v", err)
	}
	stepBeforePreemption := low.step
	if stepBeforePreemption != 2 {
		t.Fatalf("expected low to have reached step 2 by t=0.020, got %d", stepBeforePreemption)
	}

	switchesBefore := k.Statistics().SystemSnapshot().ContextSwitches
	execBefore := low.execCount
	if err := k.Tick(0.010); err != nil {
		t.Fatalf("unexpected Tick error: %v", err)
	}
	switchesAfter := k.Statistics().SystemSnapshot().ContextSwitches

	if switchesAfter-switchesBefore != 2 {
		t.Fatalf("expected exactly 2 context switches (low->high, high->low) for high's activation, got %d", switchesAfter-switchesBefore)
	}
	// Low resumes from the step it was preempted at (2) and advances by
	// exactly one more, completing its job — the completed job's own
	// reset_for_next_period then zeroes its step index back out.
	if low.execCount != execBefore+1 {
		t.Fatalf("expected low to execute exactly one more step after resuming, got execCount %d (was %d)", low.execCount, execBefore)
	}
	if low.step != 0 {
		t.Fatalf("expected low's job to complete and reset its step index to 0, got %d", low.step)
	}
}

func TestScenarioRoundRobinFairShare(t *testing.T) {
	k := NewKernel(NewRoundRobinStrategy(0.005))
	t1 := newFakeTask("t1", 1000000, 0.002)
	t2 := newFakeTask("t2", 1000000, 0.005)
	t3 := newFakeTask("t3", 1000000, 0.008)
	k.RegisterTask(t1, 0, 0.010, 0, DeadlineNone)
	k.RegisterTask(t2, 1, 0.020, 0, DeadlineNone)
	k.RegisterTask(t3, 2, 0.050, 0, DeadlineNone)
	k.Start()

	if err := k.Tick(0.300); err != nil {
		t.Fatalf("unexpected Tick error: %v", err)
	}

	snap1, _ := k.Statistics().Snapshot(1)
	snap2, _ := k.Statistics().Snapshot(2)
	snap3, _ := k.Statistics().Snapshot(3)

	shares := []float64{snap1.TotalExec, snap2.TotalExec, snap3.TotalExec}
	min, max := shares[0], shares[0]
	for _, s := range shares {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if max == 0 {
		t.Fatalf("expected nonzero execution time under round robin")
	}
	if (max-min)/max > 0.05 {
		t.Fatalf("expected execution shares within 5%% of each other under round robin, got %v", shares)
	}
}

func TestScenarioFCFSConvoy(t *testing.T) {
	// A is a short one-step periodic job that keeps arriving; B is a
	// long one-step job whose period is past the end of this window, so
	// it arrives exactly once. FCFS never preempts, so once B is
	// dispatched it must run its entire 0.050s step uninterrupted even
	// though A reactivates partway through.
	k := NewKernel(NewFCFSStrategy())
	a := newFakeTask("a", 1, 0.001)
	b := newFakeTask("b", 1, 0.050)
	k.RegisterTask(a, 0, 0.010, 0, DeadlineNone)
	k.RegisterTask(b, 0, 1.0, 0, DeadlineNone)
	k.Start()

	if err := k.Tick(0.100); err != nil {
		t.Fatalf("unexpected Tick error: %v", err)
	}

	if a.execCount < 1 {
		t.Fatalf("expected a to have completed at least one job immediately, got execCount %d", a.execCount)
	}
	if b.execCount != 1 {
		t.Fatalf("expected b to run its single full step exactly once, got execCount %d", b.execCount)
	}
	snapA, _ := k.Statistics().Snapshot(1)
	snapB, _ := k.Statistics().Snapshot(2)
	if snapB.MaxExec < snapA.MaxExec {
		t.Fatalf("expected b's step (wcet 0.050) to dominate execution time over a's (wcet 0.001)")
	}
	if snapB.MaxExec != 0.050 {
		t.Fatalf("expected b's step to run uninterrupted for its full 0.050s wcet, got %v", snapB.MaxExec)
	}
}

func TestScenarioIdleAccounting(t *testing.T) {
	k := NewKernel(NewPriorityStrategy())
	k.Start()

	if err := k.Tick(0.030); err != nil {
		t.Fatalf("unexpected Tick error: %v", err)
	}

	if !approx(k.VirtualTime(), 0.030, 1e-9) {
		t.Fatalf("expected virtual_time to advance fully via Idle, got %v", k.VirtualTime())
	}
	sys := k.Statistics().SystemSnapshot()
	if sys.TotalCPUUtilization != 0 {
		t.Fatalf("expected zero CPU utilization with no registered tasks, got %v", sys.TotalCPUUtilization)
	}
}
