package kernel

// fakeTask is a minimal, configurable Task used across the kernel test
// suite. wcets, if set, overrides wcet per step index; otherwise every
// step costs wcet seconds.
type fakeTask struct {
	name  string
	total int
	step  int
	wcet  float64
	wcets []float64

	initCount    int
	cleanupCount int
	missCount    int
	resetCount   int
	execCount    int
}

func newFakeTask(name string, total int, wcet float64) *fakeTask {
	return &fakeTask{name: name, total: total, wcet: wcet}
}

func (t *fakeTask) Name() string  { return t.name }
func (t *fakeTask) TotalSteps() int { return t.total }
func (t *fakeTask) CurrentStep() int { return t.step }

func (t *fakeTask) CurrentStepWCET() float64 {
	if t.wcets != nil && t.step < len(t.wcets) {
		return t.wcets[t.step]
	}
	return t.wcet
}

func (t *fakeTask) IsWorkComplete() bool { return t.step >= t.total }
func (t *fakeTask) Initialize()          { t.initCount++ }

func (t *fakeTask) ExecuteStep() {
	t.step++
	t.execCount++
}

func (t *fakeTask) ResetForNextPeriod() {
	t.step = 0
	t.resetCount++
}

func (t *fakeTask) Cleanup() error { t.cleanupCount++; return nil }
func (t *fakeTask) OnDeadlineMiss() { t.missCount++ }
