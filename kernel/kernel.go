package kernel

import "go.uber.org/multierr"

// kernelState is the Kernel's own lifecycle (construct, register, start,
// tick, stop), distinct from a TCB's State.
type kernelState uint8

const (
	kernelCreated kernelState = iota
	kernelRunning
	kernelStopped
)

// Kernel owns the virtual clock, every registered TCB, the ReadyList, and
// the single active Scheduler strategy. It is invoked from one host
// thread (the "heartbeat") and is not reentrant; every mutation inside
// Tick happens without locking. TimeManager, DeadlineManager, and
// TaskStatistics each carry their own mutex for the host threads that
// read them concurrently with Tick.
type Kernel struct {
	state kernelState

	tasks      []*TCB
	readyList  *ReadyList
	strategy   Strategy
	currentTCB *TCB
	idleTCB    *TCB

	// readyBuf is schedule()'s reusable snapshot buffer, so the tick fast
	// path stops allocating once its backing array has grown to the
	// task set's steady-state Ready count.
	readyBuf []*TCB

	virtualTime float64
	totalTicks  uint64

	nextTaskID uint64
	arrivalSeq uint64

	timeManager     *TimeManager
	deadlineManager *DeadlineManager
	statistics      *TaskStatistics
}

// NewKernel constructs a Kernel using the given scheduling strategy. The
// strategy is fixed for the kernel's lifetime; there is at most one
// strategy instance per kernel and it is never swapped at runtime.
func NewKernel(strategy Strategy) *Kernel {
	return &Kernel{
		readyList:       NewReadyList(),
		strategy:        strategy,
		nextTaskID:      1, // 0 is reserved for the Idle TCB
		timeManager:     NewTimeManager(),
		deadlineManager: NewDeadlineManager(),
		statistics:      NewTaskStatistics(),
	}
}

func (k *Kernel) nextArrival() uint64 {
	k.arrivalSeq++
	return k.arrivalSeq
}

// RegisterTask enrolls a task pre-start. priority must be in [0,254];
// period >= 0 (0 means aperiodic); deadline == 0 means "same as period".
// Returns the freshly created TCB in state Created.
func (k *Kernel) RegisterTask(task Task, priority int, period, deadline float64, kind DeadlineKind) (*TCB, error) {
	if k.state != kernelCreated {
		return nil, invalidState("register_task called after start")
	}
	if task == nil {
		return nil, invalidArgument("task must not be nil")
	}
	if priority < 0 || priority > MaxPriority {
		return nil, invalidArgument("priority %d out of range [0,%d]", priority, MaxPriority)
	}
	if period < 0 {
		return nil, invalidArgument("period must be >= 0, got %v", period)
	}
	if deadline < 0 {
		return nil, invalidArgument("deadline must be >= 0, got %v", deadline)
	}

	relativeDeadline := deadline
	if relativeDeadline == 0 {
		relativeDeadline = period
	}

	tcb := &TCB{
		ID:               k.nextTaskID,
		Task:             task,
		BasePriority:     priority,
		CurrentPriority:  priority,
		DeadlineKind:     kind,
		Period:           period,
		RelativeDeadline: relativeDeadline,
		readyIndex:       -1,
	}
	k.nextTaskID++
	k.tasks = append(k.tasks, tcb)
	return tcb, nil
}

// Start seals the task set, creates the Idle TCB, and activates every
// registered task: periodic tasks go to Waiting awaiting their first
// activation at t=0, aperiodic tasks go directly to Ready.
func (k *Kernel) Start() error {
	if k.state != kernelCreated {
		return invalidState("start called more than once")
	}

	k.idleTCB = newIdleTCB()

	for _, tcb := range k.tasks {
		tcb.Task.Initialize()
		if tcb.IsPeriodic() {
			tcb.setState(Waiting)
			tcb.NextActivation = 0
		} else {
			tcb.arrivalSeq = k.nextArrival()
			tcb.setState(Ready)
			k.readyList.Add(tcb)
		}
	}

	k.state = kernelRunning
	return nil
}

// Stop cleans up every registered task, regardless of whether an
// individual Cleanup call fails, and aggregates every failure via
// multierr rather than reporting only the first, so every successful
// Initialize is paired with a Cleanup on stop even when stop is itself
// triggered by an earlier error.
func (k *Kernel) Stop() error {
	if k.state != kernelRunning {
		return invalidState("stop called before start or after a previous stop")
	}

	var err error
	for _, tcb := range k.tasks {
		if cerr := tcb.Task.Cleanup(); cerr != nil {
			err = multierr.Append(err, cerr)
		}
		tcb.setState(Suspended)
	}

	k.readyList.Clear()
	k.currentTCB = nil
	k.state = kernelStopped
	return err
}

// Tick consumes delta_seconds of wall-clock budget and advances virtual
// time step by step until the budget is drained. It is a no-op error
// (InvalidState) unless the kernel is Running.
func (k *Kernel) Tick(delta float64) error {
	if k.state != kernelRunning {
		return invalidState("tick called before start or after stop")
	}
	if delta <= 0 {
		return invalidArgument("delta_seconds must be > 0, got %v", delta)
	}

	k.totalTicks++
	k.timeManager.Update(delta)

	budget := delta
	for budget > epsilon {
		k.activatePeriodic()
		k.schedule()
		k.executeStep(&budget)
	}

	k.statistics.AdvanceSystemTime(delta)
	return nil
}

// activatePeriodic moves every due periodic TCB from Waiting to Ready.
func (k *Kernel) activatePeriodic() {
	for _, tcb := range k.tasks {
		if tcb.Period <= 0 || tcb.State() != Waiting {
			continue
		}
		if k.virtualTime < tcb.NextActivation {
			continue
		}

		tcb.Task.ResetForNextPeriod()
		tcb.NextActivation = k.virtualTime + tcb.Period
		tcb.AbsoluteDeadline = k.virtualTime + tcb.RelativeDeadline
		tcb.arrivalSeq = k.nextArrival()
		tcb.setState(Ready)
		k.readyList.Add(tcb)
	}
}

// schedule asks the strategy for the next TCB and performs a context
// switch if the selection differs from the currently Running one.
func (k *Kernel) schedule() {
	k.readyBuf = k.readyList.AppendTo(k.readyBuf[:0])
	next := k.strategy.SelectNext(k.readyBuf, k.currentTCB)

	if next != nil && next != k.currentTCB && !k.readyList.Contains(next) {
		// Strategy fault: a strategy returned a TCB not present in the
		// Ready snapshot it was given. Ignore the return and fall
		// through to Idle instead of trusting it.
		next = nil
	}

	if next == k.currentTCB {
		return
	}
	k.contextSwitch(next)
}

// contextSwitch moves the outgoing TCB back to Ready (if it was
// Running) and the incoming TCB to Running. Idle is never placed in or
// removed from ReadyList, but its own state field still has to flip
// between Running and Waiting here so that at most one TCB — across
// every registered task plus Idle — is ever Running at once; Idle is
// dispatched exactly when incoming is nil.
func (k *Kernel) contextSwitch(incoming *TCB) {
	outgoing := k.currentTCB
	if outgoing != nil {
		outgoing.setState(Ready)
		k.readyList.Add(outgoing)
	}

	if incoming != nil {
		k.readyList.Remove(incoming)
		incoming.setState(Running)
		k.idleTCB.state = Waiting
	} else {
		k.idleTCB.state = Running
	}

	k.currentTCB = incoming
	k.statistics.RecordContextSwitch()
}

// executeStep runs one step of the currently selected task — or Idle, if
// nothing was selected — charging min(wcet, budget) against both the
// tick budget and virtual time (an Idle charge is further cut short at
// the next periodic activation), then checks deadlines and handles
// completion.
func (k *Kernel) executeStep(budget *float64) {
	tcb := k.currentTCB
	idle := tcb == nil
	if idle {
		tcb = k.idleTCB
		tcb.state = Running
	}

	task := tcb.Task
	exec := task.CurrentStepWCET()
	if exec > *budget {
		exec = *budget
	}
	if idle {
		// Idle yields at the earliest pending periodic activation, so a
		// task falling due mid-tick is activated within this same tick.
		for _, t := range k.tasks {
			if t.IsPeriodic() && t.State() == Waiting {
				if gap := t.NextActivation - k.virtualTime; gap > 0 && gap < exec {
					exec = gap
				}
			}
		}
	}

	tcb.recordExecutionStart(k.virtualTime)
	task.ExecuteStep()

	tcb.recordExecutionComplete(exec)
	if !idle {
		k.statistics.RecordExecution(tcb.ID, exec)
	}

	k.virtualTime += exec
	*budget -= exec

	if idle {
		// idleTask.IsWorkComplete is always true by construction; there
		// is no step index to reset and Idle is never tracked as
		// current_tcb in the first place.
		return
	}

	// Deadline check runs immediately after charging this step's
	// execution time, before completion is evaluated, so that a job
	// whose last step both finishes its work and crosses its deadline
	// in the same charge is still caught as a miss rather than slipping
	// through because it already left the Running state.
	k.checkDeadlines()
	if k.currentTCB != tcb {
		// checkDeadlines abandoned this TCB (or it was otherwise moved
		// off current by the miss); nothing left to complete.
		return
	}

	if task.IsWorkComplete() {
		if tcb.IsPeriodic() {
			tcb.setState(Waiting)
			task.ResetForNextPeriod()
		} else {
			// Aperiodic one-shot job: nothing re-activates it; parked in
			// Waiting with no next_activation_time armed.
			tcb.setState(Waiting)
		}
		k.strategy.OnTaskCompleted(tcb)
		k.currentTCB = nil
		return
	}

	if charger, ok := k.strategy.(SliceCharger); ok {
		if charger.ChargeSlice(tcb, exec) {
			k.strategy.OnTimeSliceExpired(tcb)
		}
	}
}

// checkDeadlines scans every Ready or Running TCB with an armed
// absolute_deadline and abandons any job whose deadline has passed.
// Called from executeStep right after charging a step, before that
// step's completion is evaluated, so a task that finishes and overruns
// in the same charge is still caught.
func (k *Kernel) checkDeadlines() {
	for _, tcb := range k.tasks {
		if tcb.AbsoluteDeadline <= 0 {
			continue
		}
		state := tcb.State()
		if state != Ready && state != Running {
			continue
		}
		if k.virtualTime <= tcb.AbsoluteDeadline {
			continue
		}

		tcb.recordDeadlineMiss()
		k.statistics.RecordDeadlineMiss(tcb.ID)
		k.deadlineManager.recordMiss(tcb, k.virtualTime)

		if state == Ready {
			k.readyList.Remove(tcb)
		}
		if k.currentTCB == tcb {
			k.currentTCB = nil
		}

		tcb.setState(Waiting)
		tcb.Task.ResetForNextPeriod()
		k.strategy.OnTaskCompleted(tcb)
	}
}

// CurrentTCB returns the TCB currently Running, or nil if Idle is
// effectively running.
func (k *Kernel) CurrentTCB() *TCB { return k.currentTCB }

// VirtualTime returns the kernel's virtual clock.
func (k *Kernel) VirtualTime() float64 { return k.virtualTime }

// TotalTicks returns the number of Tick calls observed so far.
func (k *Kernel) TotalTicks() uint64 { return k.totalTicks }

// ReadyList exposes the kernel's ready set for introspection.
func (k *Kernel) ReadyList() *ReadyList { return k.readyList }

// Statistics exposes the kernel's per-task and system-wide statistics.
func (k *Kernel) Statistics() *TaskStatistics { return k.statistics }

// Deadlines exposes the kernel's deadline event log and listener
// registration.
func (k *Kernel) Deadlines() *DeadlineManager { return k.deadlineManager }

// Timers exposes the kernel's logical timer service.
func (k *Kernel) Timers() *TimeManager { return k.timeManager }

// AllTasks returns every registered TCB, including Idle once Start has
// been called.
func (k *Kernel) AllTasks() []*TCB {
	if k.idleTCB == nil {
		out := make([]*TCB, len(k.tasks))
		copy(out, k.tasks)
		return out
	}
	out := make([]*TCB, 0, len(k.tasks)+1)
	out = append(out, k.tasks...)
	out = append(out, k.idleTCB)
	return out
}

// IdleTask returns the reserved Idle TCB, or nil before Start.
func (k *Kernel) IdleTask() *TCB { return k.idleTCB }
