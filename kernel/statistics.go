package kernel

import (
	"strconv"
	"sync/atomic"

	"github.com/kestrelsim/vrtkernel/status"
)

// taskStat holds one task's running aggregates behind lock-free atomics,
// so an external reader (a UI thread) never blocks the kernel's
// heartbeat while it writes. Built on status.AtomicFloat /
// status.MetricMap, a lock-free metrics facade
// (status/atomic_float.go, status/metric_map.go).
type taskStat struct {
	totalExec status.AtomicFloat
	minExec   status.AtomicFloat
	maxExec   status.AtomicFloat
	count     atomic.Uint64
	missCount atomic.Uint64
}

// TaskSnapshot is an immutable copy of one task's statistics.
type TaskSnapshot struct {
	TCBID          uint64
	TotalExec      float64
	MinExec        float64
	MaxExec        float64
	AvgExec        float64
	Count          uint64
	MissCount      uint64
	CPUUtilization float64
}

// SystemSnapshot is an immutable copy of the system-wide statistics.
type SystemSnapshot struct {
	SystemTime          float64
	ContextSwitches     uint64
	TotalCPUUtilization float64
	TrackedTaskCount    int
}

// TaskStatistics tracks per-task and system-wide execution statistics.
// Every write comes from the kernel's single heartbeat thread; the only
// concurrency concern is letting external readers take immutable
// snapshots without blocking that thread, which is exactly what
// status.MetricMap's RWMutex-guarded registration plus lock-free atomic
// fields provide.
type TaskStatistics struct {
	tasks           *status.MetricMap[taskStat]
	systemTime      status.AtomicFloat
	contextSwitches atomic.Uint64
}

// NewTaskStatistics creates an empty TaskStatistics.
func NewTaskStatistics() *TaskStatistics {
	return &TaskStatistics{tasks: status.NewMetricMap[taskStat]()}
}

func statKey(tcbID uint64) string {
	return strconv.FormatUint(tcbID, 10)
}

// RecordExecution folds one charged execution of exec seconds into
// tcbID's running aggregates.
func (ts *TaskStatistics) RecordExecution(tcbID uint64, exec float64) {
	stat := ts.tasks.Get(statKey(tcbID))
	count := stat.count.Add(1)
	stat.totalExec.Add(exec)

	if count == 1 {
		stat.minExec.Set(exec)
		stat.maxExec.Set(exec)
		return
	}
	if exec < stat.minExec.Get() {
		stat.minExec.Set(exec)
	}
	if exec > stat.maxExec.Get() {
		stat.maxExec.Set(exec)
	}
}

// RecordDeadlineMiss increments tcbID's miss counter.
func (ts *TaskStatistics) RecordDeadlineMiss(tcbID uint64) {
	stat := ts.tasks.Get(statKey(tcbID))
	stat.missCount.Add(1)
}

// RecordContextSwitch increments the system-wide context switch counter.
func (ts *TaskStatistics) RecordContextSwitch() {
	ts.contextSwitches.Add(1)
}

// AdvanceSystemTime folds delta seconds of virtual time into system_time,
// the denominator of every task's cpu_utilization figure.
func (ts *TaskStatistics) AdvanceSystemTime(delta float64) {
	ts.systemTime.Add(delta)
}

// Snapshot returns an immutable copy of tcbID's statistics, or ok=false
// if tcbID has neither executed a step nor missed a deadline.
func (ts *TaskStatistics) Snapshot(tcbID uint64) (snap TaskSnapshot, ok bool) {
	key := statKey(tcbID)
	if !ts.tasks.Has(key) {
		return TaskSnapshot{}, false
	}
	stat := ts.tasks.Get(key)

	count := stat.count.Load()
	total := stat.totalExec.Get()
	var avg float64
	if count > 0 {
		avg = total / float64(count)
	}

	systemTime := ts.systemTime.Get()
	var cpu float64
	if systemTime > 0 {
		cpu = total / systemTime * 100
	}

	return TaskSnapshot{
		TCBID:          tcbID,
		TotalExec:      total,
		MinExec:        stat.minExec.Get(),
		MaxExec:        stat.maxExec.Get(),
		AvgExec:        avg,
		Count:          count,
		MissCount:      stat.missCount.Load(),
		CPUUtilization: cpu,
	}, true
}

// SystemSnapshot returns an immutable copy of the system-wide
// statistics.
func (ts *TaskStatistics) SystemSnapshot() SystemSnapshot {
	systemTime := ts.systemTime.Get()

	var totalCPU float64
	var tracked int
	ts.tasks.Range(func(_ string, stat *taskStat) {
		tracked++
		if systemTime > 0 {
			totalCPU += stat.totalExec.Get() / systemTime * 100
		}
	})

	return SystemSnapshot{
		SystemTime:          systemTime,
		ContextSwitches:     ts.contextSwitches.Load(),
		TotalCPUUtilization: totalCPU,
		TrackedTaskCount:    tracked,
	}
}
