package kernel

// idleWCET is the Idle task's reported per-step WCET: deliberately far
// larger than any real tick budget, so exec = min(w, budget) equals the
// entire remaining budget. Kernel.executeStep then shortens an Idle
// charge to end at the earliest pending periodic activation, so one Idle
// step runs until that activation or the end of the tick, whichever
// comes first.
const idleWCET = 1e18

// idleTask is the distinguished task run when ReadyList is empty. It
// reports its work complete on every call, so the kernel never needs a
// separate "reset idle's step index" hook distinct from the ordinary
// completion path: there is nothing to reset.
type idleTask struct{}

func (idleTask) Name() string             { return "idle" }
func (idleTask) TotalSteps() int          { return 1 }
func (idleTask) CurrentStep() int         { return 1 }
func (idleTask) CurrentStepWCET() float64 { return idleWCET }
func (idleTask) IsWorkComplete() bool     { return true }
func (idleTask) Initialize()              {}
func (idleTask) ExecuteStep()             {}
func (idleTask) ResetForNextPeriod()      {}
func (idleTask) Cleanup() error           { return nil }
func (idleTask) OnDeadlineMiss()          {}

// newIdleTCB constructs the single reserved Idle TCB. It is never
// inserted into ReadyList — the Kernel holds it directly and dispatches
// it whenever the strategy has nothing else to offer. Its initial state
// is Running because nothing else has been scheduled yet at construction
// time; Kernel.contextSwitch flips it to Waiting whenever a real task is
// dispatched, and Kernel.executeStep sets it back to Running whenever it
// runs an Idle step, so Idle is Running only while it is the TCB
// actually executing.
func newIdleTCB() *TCB {
	tcb := &TCB{
		ID:              0,
		Task:            idleTask{},
		BasePriority:    IdlePriority,
		CurrentPriority: IdlePriority,
		DeadlineKind:    DeadlineNone,
		readyIndex:      -1,
	}
	tcb.state = Running
	return tcb
}
