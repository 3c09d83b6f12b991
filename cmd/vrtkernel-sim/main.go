// Command vrtkernel-sim hosts the scheduling kernel against a simulated
// fighter-jet avionics workload: five periodic tasks sharing one
// sharedstate.AircraftState, driven off a wall-clock heartbeat ticker,
// with a tcell cockpit dashboard and a beep caution tone on deadline
// criticals: flag parsing, screen init with deferred Fini, a background
// event-poll goroutine feeding a buffered channel, and a select loop
// between input events and a ticker.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kestrelsim/vrtkernel/core"
	"github.com/kestrelsim/vrtkernel/internal/audioalert"
	"github.com/kestrelsim/vrtkernel/internal/dashboard"
	"github.com/kestrelsim/vrtkernel/kernel"
	"github.com/kestrelsim/vrtkernel/sharedstate"
	"github.com/kestrelsim/vrtkernel/tasks"
	"github.com/kestrelsim/vrtkernel/vmath"
)

// defaultRegistration is one entry of the built-in task set, used
// whenever -config is unset or a task's name is absent from the loaded
// TOML document.
type defaultRegistration struct {
	task     kernel.Task
	priority int
	period   float64
	deadline float64
	kind     kernel.DeadlineKind
}

const tickInterval = 20 * time.Millisecond

func main() {
	debug := flag.Bool("debug", false, "enable structured logging to logs/vrtkernel-sim.log")
	logLevel := flag.String("log-level", "info", "log level when -debug is set (debug, info, warn, error)")
	strategyName := flag.String("strategy", "priority", "scheduling strategy: priority, rr, fcfs, sjf")
	slice := flag.Float64("slice", 0.010, "round-robin time slice in seconds (only with -strategy=rr)")
	mute := flag.Bool("mute", false, "disable the caution tone on deadline criticals")
	configPath := flag.String("config", "", "path to a task-set TOML file overriding the built-in scheduling parameters")
	flag.Parse()

	logger, closeLogger, err := setupLogging(*debug, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to configure logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLogger()

	strategy, err := buildStrategy(*strategyName, *slice)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	core.RegisterCrashCleanup(func() { screen.Fini() })

	k := kernel.NewKernel(strategy)
	state := sharedstate.New()
	board := dashboard.NewBoard(screen)
	board.Subscribe(k.Deadlines())

	var alertEngine *audioalert.Engine
	if !*mute {
		alertEngine, err = audioalert.NewEngine(0.4)
		if err != nil {
			logger.Warn("caution tone disabled: speaker init failed", zap.Error(err))
		} else {
			alertEngine.Subscribe(k.Deadlines())
			alertEngine.Start()
			defer alertEngine.Stop()
		}
	}

	registerTasks(k, state, logger, loadTaskSetConfig(*configPath, logger))

	if err := k.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start kernel: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := k.Stop(); err != nil {
			logger.Error("task cleanup reported errors on shutdown", zap.Error(err))
		}
	}()

	runLoop(screen, k, board, state, logger)
}

func buildStrategy(name string, slice float64) (kernel.Strategy, error) {
	switch name {
	case "priority":
		return kernel.NewPriorityStrategy(), nil
	case "rr":
		return kernel.NewRoundRobinStrategy(slice), nil
	case "fcfs":
		return kernel.NewFCFSStrategy(), nil
	case "sjf":
		return kernel.NewSJFStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want priority, rr, fcfs, sjf)", name)
	}
}

// loadTaskSetConfig reads a task-set TOML document from path, if given,
// via kernel.LoadTaskSet's line-oriented decoder. Returns a
// zero-value TaskSetConfig (no overrides) on an empty path or a read/
// parse failure, logging the failure rather than aborting startup.
func loadTaskSetConfig(path string, logger *zap.Logger) kernel.TaskSetConfig {
	if path == "" {
		return kernel.TaskSetConfig{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("task-set config unreadable, using built-in defaults", zap.String("path", path), zap.Error(err))
		return kernel.TaskSetConfig{}
	}

	cfg, err := kernel.LoadTaskSet(data)
	if err != nil {
		logger.Warn("task-set config invalid, using built-in defaults", zap.String("path", path), zap.Error(err))
		return kernel.TaskSetConfig{}
	}
	return cfg
}

// registerTasks builds the five periodic tasks at the priorities and
// periods a single-seat fighter avionics suite would realistically use:
// flight control tightest and highest-priority, fuel loosest and
// lowest. Any task named in cfg overrides its built-in priority,
// period, deadline, and deadline kind; unlisted tasks keep the default.
func registerTasks(k *kernel.Kernel, state *sharedstate.AircraftState, logger *zap.Logger, cfg kernel.TaskSetConfig) {
	radarContacts := []vmath.Vec3F{
		{X: 4000, Y: 0, Z: 1200},
		{X: -2500, Y: 300, Z: 900},
		{X: 800, Y: -150, Z: 1500},
	}

	defaults := []defaultRegistration{
		{tasks.NewFlightControl(state), 0, 0.020, 0.020, kernel.DeadlineHard},
		{tasks.NewRadar(state, radarContacts), 1, 0.050, 0.050, kernel.DeadlineSoft},
		{tasks.NewWeapons(state), 2, 0.050, 0.050, kernel.DeadlineSoft},
		{tasks.NewFuel(state), 3, 0.100, 0, kernel.DeadlineNone},
		{tasks.NewCountermeasures(state), 2, 0.050, 0.050, kernel.DeadlineSoft},
	}

	for _, r := range defaults {
		priority, period, deadline, kind := r.priority, r.period, r.deadline, r.kind
		if override, ok := cfg.Lookup(r.task.Name()); ok {
			parsedKind, err := kernel.ParseDeadlineKind(override.DeadlineKind)
			if err != nil {
				logger.Warn("ignoring override with invalid deadline_kind", zap.String("task", r.task.Name()), zap.Error(err))
			} else {
				priority, period, deadline, kind = override.Priority, override.Period, override.Deadline, parsedKind
			}
		}
		if _, err := k.RegisterTask(r.task, priority, period, deadline, kind); err != nil {
			logger.Error("task registration failed", zap.String("task", r.task.Name()), zap.Error(err))
		}
	}
}

func runLoop(screen tcell.Screen, k *kernel.Kernel, board *dashboard.Board, state *sharedstate.AircraftState, logger *zap.Logger) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 16)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	for {
		select {
		case ev := <-eventChan:
			switch e := ev.(type) {
			case *tcell.EventKey:
				if handleKey(e, state) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			if err := k.Tick(tickInterval.Seconds()); err != nil {
				logger.Error("tick failed", zap.Error(err))
				return
			}
			board.RenderFrame(k)
		}
	}
}

// handleKey applies pilot input from the keyboard and reports whether
// the operator asked to quit.
func handleKey(ev *tcell.EventKey, state *sharedstate.AircraftState) bool {
	const inputStep = 0.1

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case 'w':
		state.PilotInput.Pitch -= inputStep
	case 's':
		state.PilotInput.Pitch += inputStep
	case 'a':
		state.PilotInput.Roll -= inputStep
	case 'd':
		state.PilotInput.Roll += inputStep
	case '+':
		state.PilotInput.Throttle += inputStep
	case '-':
		state.PilotInput.Throttle -= inputStep
	case 'f':
		state.Weapons.FireInput = !state.Weapons.FireInput
	case 'l':
		state.Weapons.LockOnInput = !state.Weapons.LockOnInput
	case 'c':
		state.Countermeasures.ChaffInput = !state.Countermeasures.ChaffInput
	}

	clamp := func(v, lo, hi float64) float64 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	state.PilotInput.Pitch = clamp(state.PilotInput.Pitch, -1, 1)
	state.PilotInput.Roll = clamp(state.PilotInput.Roll, -1, 1)
	state.PilotInput.Throttle = clamp(state.PilotInput.Throttle, 0, 1)

	return false
}
