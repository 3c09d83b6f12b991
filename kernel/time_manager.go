package kernel

import "sync"

// TimerCallback is invoked when a timer fires.
type TimerCallback func()

// timerKind distinguishes one-shot from periodic timers.
type timerKind uint8

const (
	timerOneShot timerKind = iota
	timerInterval
)

type timer struct {
	id       uint64
	kind     timerKind
	period   float64 // delay for one-shot, interval for periodic
	deadline float64 // current_time at which this timer next fires
	cb       TimerCallback
	cancelled bool
}

// TimeManager advances a wall-clock accumulator and tick counter on each
// Kernel.tick call and services logical set_timeout/set_interval/cancel
// callbacks against that accumulator. It is a separate clock from
// the kernel's virtual_time: TimeManager is notified of every tick's Δ so
// host-side timers keep advancing, but it never drives scheduling
// decisions. Same mutex-guards-callback-bookkeeping shape as a
// PausableClock/TimeProvider pairing, adapted from real wall-clock pause
// tracking to a purely logical accumulator the kernel itself advances.
type TimeManager struct {
	mu          sync.Mutex
	currentTime float64
	tickCount   uint64
	timers      map[uint64]*timer
	nextID      uint64
}

// NewTimeManager creates a TimeManager starting at current_time 0.
func NewTimeManager() *TimeManager {
	return &TimeManager{timers: make(map[uint64]*timer)}
}

// Update advances current_time and tick_count by Δ and fires (or re-arms)
// any timer whose deadline has been reached. Callbacks run synchronously,
// on the caller's goroutine — the Kernel's heartbeat thread — after the
// internal lock is released, so a callback that calls Cancel on another
// timer cannot deadlock against Update's own lock.
func (tm *TimeManager) Update(delta float64) {
	tm.mu.Lock()
	tm.currentTime += delta
	tm.tickCount++
	now := tm.currentTime

	var due []*timer
	for _, t := range tm.timers {
		if t.cancelled {
			continue
		}
		if t.deadline <= now {
			due = append(due, t)
		}
	}
	for _, t := range due {
		if t.kind == timerOneShot {
			delete(tm.timers, t.id)
		} else {
			t.deadline = now + t.period
		}
	}
	tm.mu.Unlock()

	for _, t := range due {
		if t.cb != nil {
			t.cb()
		}
	}
}

// CurrentTime returns the accumulated wall-clock time.
func (tm *TimeManager) CurrentTime() float64 {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.currentTime
}

// TickCount returns the number of Update calls observed so far.
func (tm *TimeManager) TickCount() uint64 {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.tickCount
}

// SetTimeout arms a one-shot timer that fires once current_time reaches
// now+delay, then is removed. Returns an id usable with Cancel.
func (tm *TimeManager) SetTimeout(delay float64, cb TimerCallback) uint64 {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.nextID++
	id := tm.nextID
	tm.timers[id] = &timer{
		id:       id,
		kind:     timerOneShot,
		period:   delay,
		deadline: tm.currentTime + delay,
		cb:       cb,
	}
	return id
}

// SetInterval arms a periodic timer that re-arms at current_time+period
// every time it fires. Returns an id usable with Cancel.
func (tm *TimeManager) SetInterval(period float64, cb TimerCallback) uint64 {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.nextID++
	id := tm.nextID
	tm.timers[id] = &timer{
		id:       id,
		kind:     timerInterval,
		period:   period,
		deadline: tm.currentTime + period,
		cb:       cb,
	}
	return id
}

// Cancel removes the timer identified by id. Safe to call from within a
// firing callback (Update has already released the lock and copied the
// due list by the time callbacks run) or concurrently from another
// goroutine; cancelling an id that has already fired-and-removed (or
// never existed) is a no-op.
func (tm *TimeManager) Cancel(id uint64) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if t, ok := tm.timers[id]; ok {
		t.cancelled = true
		delete(tm.timers, id)
	}
}
