package kernel

import (
	"fmt"

	"github.com/pkg/errors"
)

// epsilon is the tick loop's budget-exhaustion threshold: Tick keeps
// looping while its remaining budget exceeds epsilon, and it is reused
// wherever a strategy needs the same "close enough to zero" comparison
// for a time slice.
const epsilon = 1e-5

// Sentinel errors for the taxonomy of kinds the kernel can report.
// Callers match with errors.Is; each carries a call-site stack trace via
// pkg/errors so a failed registration or tick can be traced back to its
// origin without the kernel itself doing any logging.
var (
	// ErrInvalidArgument covers a null task, a negative period, or a
	// priority outside [0,254].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState covers tick before start, tick after stop, or
	// register_task after start.
	ErrInvalidState = errors.New("invalid kernel state")

	// ErrStrategyFault names the case of a strategy returning a TCB that
	// is not a legal selection. The kernel does not return it: it
	// recovers silently by scheduling Idle.
	ErrStrategyFault = errors.New("scheduler strategy returned an invalid task")
)

// invalidArgument wraps ErrInvalidArgument with a caller-supplied detail
// and a captured stack trace.
func invalidArgument(format string, args ...any) error {
	return errors.WithStack(fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...)))
}

// invalidState wraps ErrInvalidState with a caller-supplied detail and a
// captured stack trace.
func invalidState(format string, args ...any) error {
	return errors.WithStack(fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...)))
}
