package kernel

// PriorityStrategy is the default, preemptive fixed-priority policy. It
// selects the Ready TCB with the numerically smallest CurrentPriority.
// A Running incumbent is kept — rather than
// context-switched to an equal-priority candidate — tie goes to the
// incumbent, i.e. current.CurrentPriority <= candidate.CurrentPriority
// keeps current running.
type PriorityStrategy struct{}

// NewPriorityStrategy constructs the priority-preemptive strategy.
func NewPriorityStrategy() *PriorityStrategy {
	return &PriorityStrategy{}
}

func (s *PriorityStrategy) SelectNext(ready []*TCB, current *TCB) *TCB {
	if len(ready) == 0 {
		if current != nil {
			return current
		}
		return nil
	}

	best := ready[0]
	for _, t := range ready[1:] {
		if t.CurrentPriority < best.CurrentPriority {
			best = t
		}
	}

	if current != nil && current.CurrentPriority <= best.CurrentPriority {
		return current
	}
	return best
}

func (s *PriorityStrategy) OnTimeSliceExpired(tcb *TCB) {}
func (s *PriorityStrategy) OnTaskCompleted(tcb *TCB)    {}
func (s *PriorityStrategy) Reset()                      {}
