package kernel

// Strategy is the pluggable task-selection policy. Exactly one strategy
// is active per kernel. Strategies must never mutate TCB state — only
// the kernel does that; a strategy that needs private bookkeeping (an
// arrival queue, a round-robin cursor) keeps it in its own fields, not
// on the TCB.
//
// The four concrete strategies below are a closed set, each a small
// value type with a uniform selection operation rather than a
// heap-allocated interface wrapper per task; NewKernel takes one
// Strategy value and never swaps it at runtime.
type Strategy interface {
	// SelectNext picks the TCB that should run next, given ready (a
	// priority-ascending, FIFO-within-priority snapshot of every Ready
	// TCB) and current (the presently Running TCB, or nil). Returning nil
	// means "run Idle." Returning a TCB not present in ready (other than
	// current) is a programming error; the kernel ignores such a return
	// and selects Idle without returning an error.
	SelectNext(ready []*TCB, current *TCB) *TCB

	// OnTimeSliceExpired notifies the strategy that tcb's time slice (if
	// the strategy uses one) has run out. No-op for strategies that don't
	// use time slices.
	OnTimeSliceExpired(tcb *TCB)

	// OnTaskCompleted notifies the strategy that tcb's job instance just
	// finished (or was abandoned to a deadline miss), so arrival-queue or
	// cursor bookkeeping can advance.
	OnTaskCompleted(tcb *TCB)

	// Reset clears all strategy-private state (cursors, queues, slices).
	Reset()
}

// SliceCharger is implemented by strategies whose selection depends on a
// per-task time slice that the kernel must decrement as it charges
// execution time: the round-robin strategy's time accounting is driven
// by the Kernel calling OnTimeSliceExpired, with the Kernel itself
// decrementing against the current slice as part of charging execution
// time. Kept as a separate, optional interface rather than folded into
// Strategy so the three strategies that have no notion of a slice don't
// need a meaningless implementation.
type SliceCharger interface {
	// ChargeSlice deducts exec seconds from tcb's remaining time slice
	// and reports whether the slice just ran out.
	ChargeSlice(tcb *TCB, exec float64) (expired bool)
}

// arrivalOrder sorts a snapshot of TCBs by their FIFO arrival sequence,
// used for SJF's tie-break.
func arrivalOrder(ready []*TCB) []*TCB {
	out := make([]*TCB, len(ready))
	copy(out, ready)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].arrivalSeq > out[j].arrivalSeq; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
