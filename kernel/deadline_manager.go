package kernel

import (
	"sync"

	"github.com/kestrelsim/vrtkernel/event"
)

// EventKind classifies a DeadlineEvent.
type EventKind uint8

const (
	EventWarning EventKind = iota
	EventMiss
	EventCritical
)

func (k EventKind) String() string {
	switch k {
	case EventWarning:
		return "warning"
	case EventMiss:
		return "miss"
	case EventCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// DeadlineEvent records one deadline outcome against a task's job
// instance.
type DeadlineEvent struct {
	Kind         EventKind
	TCBID        uint64
	Deadline     float64
	Overrun      float64
	Timestamp    float64
	DeadlineKind DeadlineKind
}

// DeadlineListener receives a fanned-out copy of every DeadlineEvent as
// it is recorded.
type DeadlineListener func(DeadlineEvent)

// defaultCriticalThreshold is the per-task miss count (including the miss
// being recorded) at or above which that miss is classified Critical
// rather than Miss.
const defaultCriticalThreshold = 3

const deadlineLogCapacity = 512

// DeadlineManager logs deadline misses and warnings in a bounded,
// lock-free ring buffer (event.RingBuffer) and fans them out to a
// registered listener set. It performs no blocking I/O and takes no
// lock on the kernel's tick fast path beyond the listener-registration
// mutex: the kernel's own heartbeat mutates state lock-free, and only
// the externally-facing reads (here, and in TimeManager and
// TaskStatistics) pay for synchronization.
type DeadlineManager struct {
	log       *event.RingBuffer[DeadlineEvent]
	threshold uint64

	totalMiss uint64
	hardMiss  uint64

	listenersMu sync.Mutex
	listeners   []DeadlineListener
}

// NewDeadlineManager creates a DeadlineManager with the default critical
// threshold (3).
func NewDeadlineManager() *DeadlineManager {
	return NewDeadlineManagerWithThreshold(defaultCriticalThreshold)
}

// NewDeadlineManagerWithThreshold creates a DeadlineManager with a
// caller-supplied critical threshold.
func NewDeadlineManagerWithThreshold(threshold uint64) *DeadlineManager {
	return &DeadlineManager{
		log:       event.NewRingBuffer[DeadlineEvent](deadlineLogCapacity),
		threshold: threshold,
	}
}

// Subscribe registers a listener invoked, in registration order, for
// every event recorded from this point on.
func (dm *DeadlineManager) Subscribe(l DeadlineListener) {
	dm.listenersMu.Lock()
	defer dm.listenersMu.Unlock()
	dm.listeners = append(dm.listeners, l)
}

// recordWarning logs a non-fatal deadline-approaching event (the
// Warning kind). The kernel's tick loop does not call it, so Warning
// events appear only if something else in this package records them.
func (dm *DeadlineManager) recordWarning(tcb *TCB, now float64) {
	dm.record(DeadlineEvent{
		Kind:         EventWarning,
		TCBID:        tcb.ID,
		Deadline:     tcb.AbsoluteDeadline,
		Overrun:      0,
		Timestamp:    now,
		DeadlineKind: tcb.DeadlineKind,
	})
}

// recordMiss logs a deadline miss, classifying it Critical once the
// task's own miss count has reached the configured threshold, and
// updates the aggregate counters.
func (dm *DeadlineManager) recordMiss(tcb *TCB, now float64) {
	kind := EventMiss
	if tcb.Stats.DeadlineMissCount >= dm.threshold {
		kind = EventCritical
	}

	dm.totalMiss++
	if tcb.DeadlineKind == DeadlineHard {
		dm.hardMiss++
	}

	dm.record(DeadlineEvent{
		Kind:         kind,
		TCBID:        tcb.ID,
		Deadline:     tcb.AbsoluteDeadline,
		Overrun:      now - tcb.AbsoluteDeadline,
		Timestamp:    now,
		DeadlineKind: tcb.DeadlineKind,
	})
}

func (dm *DeadlineManager) record(ev DeadlineEvent) {
	dm.log.Push(ev)

	dm.listenersMu.Lock()
	listeners := make([]DeadlineListener, len(dm.listeners))
	copy(listeners, dm.listeners)
	dm.listenersMu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

// Events returns a non-destructive snapshot of the currently logged
// events, oldest first, bounded by the ring buffer's capacity.
func (dm *DeadlineManager) Events() []DeadlineEvent {
	return dm.log.Snapshot()
}

// TotalMiss returns the cumulative number of deadline misses (soft and
// hard) observed so far.
func (dm *DeadlineManager) TotalMiss() uint64 {
	return dm.totalMiss
}

// HardMiss returns the cumulative number of hard-deadline misses
// observed so far.
func (dm *DeadlineManager) HardMiss() uint64 {
	return dm.hardMiss
}
