// Package dashboard renders a read-only cockpit status board: one
// screen showing every registered task's lifecycle state and CPU
// utilization bar, the current ready-queue occupancy, and a scrolling
// log of recent deadline events. It never mutates kernel or task state.
// It reads the kernel's accessors directly (virtual time, TCB states,
// ready list, deadline counters), which are not synchronized, so
// RenderFrame runs on the same goroutine that calls Kernel.Tick; only
// the TaskStatistics snapshots are safe to take from another goroutine.
// Same Clear/SetContent-per-cell/Show frame shape as a terminal
// renderer's main draw loop, narrowed to one status screen instead of a
// game board.
package dashboard

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/kestrelsim/vrtkernel/kernel"
)

const maxEventRows = 8

// Board owns the tcell screen and draws one frame per RenderFrame call.
type Board struct {
	screen tcell.Screen
	events []string
}

// NewBoard wraps an already-initialized tcell screen. The host driver
// owns Init/Fini; Board only ever Clears, SetContents, and Shows it.
func NewBoard(screen tcell.Screen) *Board {
	return &Board{screen: screen}
}

// Subscribe registers the board against a DeadlineManager so Critical
// and Miss events appear in the scrolling log on the next frame.
func (b *Board) Subscribe(dm *kernel.DeadlineManager) {
	dm.Subscribe(func(ev kernel.DeadlineEvent) {
		if ev.Kind == kernel.EventWarning {
			return
		}
		line := fmt.Sprintf("t=%.3f tcb=%d %s overrun=%.4f", ev.Timestamp, ev.TCBID, ev.Kind, ev.Overrun)
		b.events = append(b.events, line)
		if len(b.events) > maxEventRows {
			b.events = b.events[len(b.events)-maxEventRows:]
		}
	})
}

// RenderFrame draws one frame of the cockpit status board against k's
// current state.
func (b *Board) RenderFrame(k *kernel.Kernel) {
	b.screen.Clear()
	style := tcell.StyleDefault.Background(rgbBackground).Foreground(rgbText)

	width, _ := b.screen.Size()

	b.drawHeader(k, style, width)
	row := b.drawReadyQueue(k, style, 2)
	row = b.drawTaskTable(k, style, row+1)
	b.drawEventLog(style, row+1)

	b.screen.Show()
}

func (b *Board) drawHeader(k *kernel.Kernel, style tcell.Style, width int) {
	sys := k.Statistics().SystemSnapshot()
	line := fmt.Sprintf(
		" vrtkernel-sim  vt=%.3fs  ticks=%d  switches=%d  cpu=%.1f%%  misses=%d (hard=%d)",
		k.VirtualTime(), k.TotalTicks(), sys.ContextSwitches, sys.TotalCPUUtilization,
		k.Deadlines().TotalMiss(), k.Deadlines().HardMiss(),
	)
	b.drawString(0, 0, line, style.Bold(true))
	for x := 0; x < width; x++ {
		b.screen.SetContent(x, 1, tcell.RuneHLine, nil, style.Foreground(rgbDim))
	}
}

// drawReadyQueue draws ready-queue occupancy as a single dot row, one
// column per application priority level (0..MaxPriority), bright where
// a task is waiting.
func (b *Board) drawReadyQueue(k *kernel.Kernel, style tcell.Style, row int) int {
	b.drawString(0, row, "ready:", style)
	rl := k.ReadyList()
	for p := 0; p <= kernel.MaxPriority; p++ {
		ch := '·'
		col := rgbDim
		if rl.CountAtPriority(p) > 0 {
			ch = '●'
			col = rgbText
		}
		b.screen.SetContent(7+p, row, ch, nil, style.Foreground(col))
	}
	return row
}

func (b *Board) drawTaskTable(k *kernel.Kernel, style tcell.Style, row int) int {
	header := "  pri  task                  state      cpu%    misses"
	b.drawString(0, row, header, style.Foreground(rgbDim))
	row++

	current := k.CurrentTCB()
	for _, tcb := range k.AllTasks() {
		name := tcb.Task.Name()
		snap, _ := k.Statistics().Snapshot(tcb.ID)

		marker := ' '
		if current != nil && current.ID == tcb.ID {
			marker = '>'
		}

		line := fmt.Sprintf("%c %4d  %-20s  %-9s  %5.1f   %6d",
			marker, tcb.CurrentPriority, name, tcb.State(), snap.CPUUtilization, snap.MissCount)
		rowStyle := style
		if snap.CPUUtilization > 0 {
			rowStyle = style.Foreground(utilizationColor(snap.CPUUtilization))
		}
		b.drawString(0, row, line, rowStyle)
		row++
	}

	idle := k.IdleTask()
	idleSnap, _ := k.Statistics().Snapshot(idle.ID)
	b.drawString(0, row, fmt.Sprintf("  %4d  %-20s  %-9s  %5.1f", idle.CurrentPriority, "idle", idle.State(), idleSnap.CPUUtilization), style.Foreground(rgbIdle))
	return row + 1
}

func (b *Board) drawEventLog(style tcell.Style, row int) {
	b.drawString(0, row, "recent deadline events:", style.Foreground(rgbDim))
	row++
	for _, line := range b.events {
		b.drawString(2, row, line, style.Foreground(rgbText))
		row++
	}
}

func (b *Board) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		b.screen.SetContent(x+i, y, r, nil, style)
	}
}
