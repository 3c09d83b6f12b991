package kernel

// Task is the behavior contract an application task must satisfy. A task
// does not know its own priority, period, or deadline — those live on the
// TCB the kernel owns. A task is a step machine: TotalSteps numbered steps,
// CurrentStep the 0-indexed program counter, advanced one call to
// ExecuteStep at a time.
//
// This mirrors a per-concern system shape (one file per subsystem:
// fuel, navigation, ...) collapsed to the five operations the kernel
// actually calls — no downcasting, no type switch on concrete task types.
type Task interface {
	// Name is a human-readable identifier used in statistics and events.
	Name() string

	// TotalSteps is the number of steps in one job instance. Finite, >= 1.
	TotalSteps() int

	// CurrentStep is the 0-indexed program counter for the in-progress job.
	CurrentStep() int

	// CurrentStepWCET is the worst-case execution time, in seconds, of the
	// step CurrentStep currently points at. Must be > 0.
	CurrentStepWCET() float64

	// IsWorkComplete reports whether CurrentStep() >= TotalSteps().
	IsWorkComplete() bool

	// Initialize is called once, when the kernel starts, before the task's
	// TCB is ever made Ready. Paired with Cleanup on Kernel.Stop.
	Initialize()

	// ExecuteStep runs exactly one step. The kernel charges
	// min(CurrentStepWCET(), remaining tick budget) of virtual time
	// against it regardless of how long the call actually takes — a
	// misbehaving task corrupts virtual time accounting but cannot
	// deadlock the kernel.
	ExecuteStep()

	// ResetForNextPeriod rewinds CurrentStep to 0, starting a fresh job
	// instance. Called on activation, on normal completion of a periodic
	// job, and on deadline miss (job abandonment).
	ResetForNextPeriod()

	// Cleanup is called once when the kernel stops. Paired with
	// Initialize. A non-nil error does not stop the kernel from cleaning
	// up the remaining tasks — Kernel.Stop collects every task's cleanup
	// error and returns them aggregated.
	Cleanup() error

	// OnDeadlineMiss is the application-level extension point invoked when
	// this task's current job is abandoned for missing its deadline. The
	// kernel takes no other action beyond logging the event; safing
	// behavior, if any, lives here.
	OnDeadlineMiss()
}
