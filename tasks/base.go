// Package tasks holds the five periodic application tasks that drive
// sharedstate.AircraftState. Each is a thin step machine: the kernel
// neither knows nor cares what a step actually computes, so these stay
// deliberately small, each a single narrow concern rather than a shared
// framework.
package tasks

// stepBase implements the bookkeeping every Task shares: a name, a fixed
// per-step WCET table, and the 0-indexed program counter. Concrete tasks
// embed it and supply ExecuteStep, Initialize, Cleanup, and
// OnDeadlineMiss themselves.
type stepBase struct {
	name  string
	wcets []float64
	step  int
}

func newStepBase(name string, wcets []float64) stepBase {
	return stepBase{name: name, wcets: wcets}
}

func (b *stepBase) Name() string        { return b.name }
func (b *stepBase) TotalSteps() int     { return len(b.wcets) }
func (b *stepBase) CurrentStep() int    { return b.step }
func (b *stepBase) IsWorkComplete() bool { return b.step >= len(b.wcets) }

func (b *stepBase) CurrentStepWCET() float64 {
	if b.step >= len(b.wcets) {
		return b.wcets[len(b.wcets)-1]
	}
	return b.wcets[b.step]
}

func (b *stepBase) ResetForNextPeriod() { b.step = 0 }

// advance moves the program counter forward by one step; concrete tasks
// call this from ExecuteStep after doing their one step's worth of work.
func (b *stepBase) advance() { b.step++ }
