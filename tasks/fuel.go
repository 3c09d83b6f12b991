package tasks

import "github.com/kestrelsim/vrtkernel/sharedstate"

// Fuel owns EngineFuel: consumption, endurance/range estimates, and the
// overheat/low-fuel/bingo-fuel warning flags.
type Fuel struct {
	stepBase
	state            *sharedstate.AircraftState
	burnRateAtFull   float64 // liters consumed per step at full throttle
	tempRisePerStep  float64
	tempFallPerStep  float64
}

// NewFuel constructs the fuel task over a shared AircraftState. Three
// steps per period: consumption, warning thresholds, engine thermal.
func NewFuel(state *sharedstate.AircraftState) *Fuel {
	return &Fuel{
		stepBase:        newStepBase("fuel", []float64{0.0005, 0.0003, 0.0004}),
		state:           state,
		burnRateAtFull:  0.6,
		tempRisePerStep: 1.2,
		tempFallPerStep: 0.4,
	}
}

func (t *Fuel) Initialize()     {}
func (t *Fuel) Cleanup() error  { return nil }
func (t *Fuel) OnDeadlineMiss() { t.state.EngineFuel.ThrottleLimit = 0.5 }

func (t *Fuel) ExecuteStep() {
	switch t.CurrentStep() {
	case 0:
		t.consume()
	case 1:
		t.updateWarnings()
	case 2:
		t.updateThermal()
	}
	t.advance()
}

func (t *Fuel) consume() {
	f := &t.state.EngineFuel
	throttle := t.state.ControlCommand.Throttle
	if throttle < 0 {
		throttle = 0
	}

	f.FuelConsumptionRate = t.burnRateAtFull * throttle
	f.FuelRemainingLiters -= f.FuelConsumptionRate
	if f.FuelRemainingLiters < 0 {
		f.FuelRemainingLiters = 0
	}
	if f.FuelCapacityLiters > 0 {
		f.FuelLevel = f.FuelRemainingLiters / f.FuelCapacityLiters
	}
}

func (t *Fuel) updateWarnings() {
	const bingoLiters = 300.0
	const jokerLiters = 600.0
	const lowWarnLevel = 0.20
	const criticalWarnLevel = 0.08

	f := &t.state.EngineFuel
	f.FuelLowWarning = f.FuelLevel <= lowWarnLevel
	f.FuelCriticalWarning = f.FuelLevel <= criticalWarnLevel
	f.BingoFuel = f.FuelRemainingLiters <= bingoLiters
	f.JokerFuel = f.FuelRemainingLiters <= jokerLiters

	if f.FuelConsumptionRate > 0 {
		f.EnduranceMinutes = f.FuelRemainingLiters / f.FuelConsumptionRate / 60
	} else {
		f.EnduranceMinutes = 0
	}
	f.RangeKm = f.EnduranceMinutes * t.state.Kinematics.Velocity * 0.06
}

func (t *Fuel) updateThermal() {
	const overheatWarnTemp = 850.0
	const overheatCriticalTemp = 950.0

	f := &t.state.EngineFuel
	throttle := t.state.ControlCommand.Throttle
	f.EngineRPM = throttle * 9000

	if throttle > 0.8 {
		f.EngineTemp += t.tempRisePerStep
	} else {
		f.EngineTemp -= t.tempFallPerStep
	}
	if f.EngineTemp < 0 {
		f.EngineTemp = 0
	}

	f.OverheatWarning = f.EngineTemp >= overheatWarnTemp
	f.OverheatCritical = f.EngineTemp >= overheatCriticalTemp
	if f.OverheatCritical {
		f.ThrustLimitScale = 0.5
	} else if f.OverheatWarning {
		f.ThrustLimitScale = 0.8
	} else {
		f.ThrustLimitScale = 1.0
	}
}
