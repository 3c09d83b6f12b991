package tasks

import (
	"github.com/kestrelsim/vrtkernel/sharedstate"
	"github.com/kestrelsim/vrtkernel/vmath"
)

// FlightControl owns Attitude, ControlCommand, and the derived parts of
// Kinematics. It is the highest-rate, highest-priority task in a typical
// registration: a fixed-priority kernel relies on flight control never
// starving behind radar or weapons work.
type FlightControl struct {
	stepBase
	state *sharedstate.AircraftState
}

// NewFlightControl constructs the flight-control task over a shared
// AircraftState. Three steps per period: command synthesis, attitude
// integration, derived-kinematics update.
func NewFlightControl(state *sharedstate.AircraftState) *FlightControl {
	return &FlightControl{
		stepBase: newStepBase("flight_control", []float64{0.0008, 0.0006, 0.0004}),
		state:    state,
	}
}

func (t *FlightControl) Initialize()    {}
func (t *FlightControl) Cleanup() error { return nil }
func (t *FlightControl) OnDeadlineMiss() {
	// A missed control-law deadline degrades to wings-level, idle throttle
	// rather than holding a stale command.
	t.state.ControlCommand = sharedstate.ControlCommand{}
}

func (t *FlightControl) ExecuteStep() {
	switch t.CurrentStep() {
	case 0:
		t.synthesizeCommand()
	case 1:
		t.integrateAttitude()
	case 2:
		t.updateDerivedKinematics()
	}
	t.advance()
}

func (t *FlightControl) synthesizeCommand() {
	in := t.state.PilotInput
	cmd := &t.state.ControlCommand
	cmd.Pitch = in.Pitch
	cmd.Roll = in.Roll
	cmd.Yaw = in.Yaw
	cmd.Throttle = in.Throttle * t.state.EngineFuel.ThrustLimitScale
}

func (t *FlightControl) integrateAttitude() {
	const rateDegPerStep = 2.0
	cmd := t.state.ControlCommand
	att := &t.state.Attitude
	att.Pitch += cmd.Pitch * rateDegPerStep
	att.Roll += cmd.Roll * rateDegPerStep
	att.Yaw += cmd.Yaw * rateDegPerStep
}

func (t *FlightControl) updateDerivedKinematics() {
	k := &t.state.Kinematics
	k.AngleOfAttack = t.state.Attitude.Pitch * 0.1
	k.SideslipAngle = t.state.Attitude.Yaw * 0.05
	k.GForce = 1.0 + vmath.V3FMag(k.AngularVector)*0.01
}
