package kernel

// DefaultTimeSlice is the round-robin strategy's default quantum
// (10 ms).
const DefaultTimeSlice = 0.010

// RoundRobinStrategy is a preemptive equal-opportunity policy that
// ignores CurrentPriority entirely. Fairness across priority levels is
// achieved by keeping its own FIFO rotation — independent of
// ReadyList's priority buckets — to which new members are appended in
// the order they appear in the Ready snapshot, so a low-priority task is never perpetually starved behind a
// higher-priority one the way it legitimately would be under
// PriorityStrategy.
type RoundRobinStrategy struct {
	slice     float64
	queue     []*TCB
	remaining map[uint64]float64
	cursor    int

	// present is sync's reusable scratch set, cleared and refilled each
	// call instead of being reallocated, so the tick fast path stops
	// allocating once it has grown to the task set's steady-state size.
	present map[*TCB]bool
}

// NewRoundRobinStrategy constructs a round-robin strategy with the given
// time slice in seconds. A non-positive slice falls back to
// DefaultTimeSlice.
func NewRoundRobinStrategy(slice float64) *RoundRobinStrategy {
	if slice <= 0 {
		slice = DefaultTimeSlice
	}
	return &RoundRobinStrategy{
		slice:     slice,
		remaining: make(map[uint64]float64),
		present:   make(map[*TCB]bool),
	}
}

// sync reconciles the strategy's private rotation queue against the live
// membership: every Ready TCB plus, if non-nil, the currently Running
// one. current must be folded in explicitly — ReadyList only tracks
// Ready TCBs, so the task RR itself just dispatched is Running and
// therefore absent from ready for as long as its slice lasts; dropping
// it here would wipe its remaining-slice bookkeeping on the very next
// call. Departed TCBs (completed, missed, stopped) are removed; new
// arrivals are appended in their ReadyList snapshot order, which is
// itself arrival-ordered within a priority bucket but may interleave
// priorities — harmless, since RR never consults priority.
func (s *RoundRobinStrategy) sync(ready []*TCB, current *TCB) {
	clear(s.present)
	for _, t := range ready {
		s.present[t] = true
	}
	if current != nil {
		s.present[current] = true
	}

	kept := s.queue[:0]
	for _, t := range s.queue {
		if s.present[t] {
			kept = append(kept, t)
			delete(s.present, t)
		} else {
			delete(s.remaining, t.ID)
		}
	}
	for _, t := range ready {
		if s.present[t] {
			kept = append(kept, t)
		}
	}
	if current != nil && s.present[current] {
		kept = append(kept, current)
	}
	s.queue = kept

	if len(s.queue) > 0 {
		s.cursor %= len(s.queue)
	} else {
		s.cursor = 0
	}
}

func (s *RoundRobinStrategy) SelectNext(ready []*TCB, current *TCB) *TCB {
	s.sync(ready, current)

	if current != nil {
		if remaining, ok := s.remaining[current.ID]; ok && remaining > epsilon {
			return current
		}
	}

	if len(s.queue) == 0 {
		return nil
	}

	next := s.queue[s.cursor%len(s.queue)]
	s.remaining[next.ID] = s.slice
	return next
}

// ChargeSlice implements SliceCharger: the kernel calls this as it
// charges each step's execution time against the running task.
func (s *RoundRobinStrategy) ChargeSlice(tcb *TCB, exec float64) bool {
	remaining := s.remaining[tcb.ID] - exec
	s.remaining[tcb.ID] = remaining
	return remaining <= epsilon
}

// OnTimeSliceExpired advances the rotation cursor to the entry after tcb,
// so the next dispatch goes to that entry; the queue order itself is
// unchanged.
func (s *RoundRobinStrategy) OnTimeSliceExpired(tcb *TCB) {
	for i, t := range s.queue {
		if t == tcb {
			s.cursor = (i + 1) % len(s.queue)
			return
		}
	}
}

func (s *RoundRobinStrategy) OnTaskCompleted(tcb *TCB) {
	delete(s.remaining, tcb.ID)
}

func (s *RoundRobinStrategy) Reset() {
	s.queue = nil
	s.remaining = make(map[uint64]float64)
	s.cursor = 0
}
