package kernel

import "testing"

func TestTimeManagerOneShotFiresOnceAndIsRemoved(t *testing.T) {
	tm := NewTimeManager()
	fired := 0
	tm.SetTimeout(0.010, func() { fired++ })

	tm.Update(0.005)
	if fired != 0 {
		t.Fatalf("expected no fire before the delay elapses")
	}

	tm.Update(0.006) // current_time now 0.011
	if fired != 1 {
		t.Fatalf("expected exactly one fire, got %d", fired)
	}

	tm.Update(1.0)
	if fired != 1 {
		t.Fatalf("expected a one-shot timer to never fire again, got %d", fired)
	}
}

func TestTimeManagerIntervalReArms(t *testing.T) {
	tm := NewTimeManager()
	fired := 0
	tm.SetInterval(0.010, func() { fired++ })

	for i := 0; i < 35; i++ {
		tm.Update(0.001)
	}

	if fired != 3 {
		t.Fatalf("expected 3 periodic fires over 35ms at a 10ms interval, got %d", fired)
	}
}

func TestTimeManagerCancelPreventsFire(t *testing.T) {
	tm := NewTimeManager()
	fired := false
	id := tm.SetTimeout(0.010, func() { fired = true })

	tm.Cancel(id)
	tm.Update(0.020)

	if fired {
		t.Fatalf("expected a cancelled timer to never fire")
	}
}

func TestTimeManagerCancelDuringFireIsSafe(t *testing.T) {
	tm := NewTimeManager()
	otherFired := false
	otherID := tm.SetTimeout(0.010, func() { otherFired = true })

	tm.SetTimeout(0.005, func() {
		tm.Cancel(otherID)
	})

	tm.Update(0.005) // fires the first timer, which cancels the second
	tm.Update(0.006) // would have fired the second timer, had it survived

	if otherFired {
		t.Fatalf("expected the second timer, cancelled by the first's callback, not to fire")
	}
}

func TestTimeManagerTickCountAndCurrentTime(t *testing.T) {
	tm := NewTimeManager()
	tm.Update(0.01)
	tm.Update(0.02)

	if tm.TickCount() != 2 {
		t.Fatalf("expected tick_count 2, got %d", tm.TickCount())
	}
	if diff := tm.CurrentTime() - 0.03; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("expected current_time 0.03, got %v", tm.CurrentTime())
	}
}
