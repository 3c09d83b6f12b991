// Package sharedstate holds the one shared mutable record every
// application task reads and writes. The kernel itself never touches
// it; it exists to fix the contract between the periodic tasks and the
// host's HAL shims.
package sharedstate

import "github.com/kestrelsim/vrtkernel/vmath"

// Attitude holds the aircraft's orientation in degrees.
type Attitude struct {
	Pitch float64
	Roll  float64
	Yaw   float64
}

// Kinematics holds derived and raw motion state.
type Kinematics struct {
	Velocity       float64
	Altitude       float64
	VerticalSpeed  float64
	Position       vmath.Vec3F
	VelocityVector vmath.Vec3F
	LocalVelocity  vmath.Vec3F
	AngularVector  vmath.Vec3F
	GForce         float64
	AngleOfAttack  float64
	SideslipAngle  float64
	AirDensity     float64
	DynamicPressure float64
}

// PilotInput holds raw stick/throttle input, each axis in [-1,1] except
// Throttle in [0,1].
type PilotInput struct {
	Pitch    float64
	Roll     float64
	Yaw      float64
	Throttle float64
}

// ControlCommand holds the flight-control task's output, consumed by the
// HAL shim that drives the simulated airframe.
type ControlCommand struct {
	Pitch             float64
	Roll              float64
	Yaw               float64
	Throttle          float64
	ThrustForceCommand vmath.Vec3F
	AeroForceCommand   vmath.Vec3F
	TorqueCommand      vmath.Vec3F
}

// EngineFuel holds the engine and fuel-management task's state.
type EngineFuel struct {
	EngineRPM           float64
	EngineTemp          float64
	OverheatWarning     bool
	OverheatCritical    bool
	ThrustLimitScale    float64
	FuelLevel           float64
	FuelRemainingLiters float64
	FuelCapacityLiters  float64
	FuelConsumptionRate float64
	ThrottleLimit       float64
	FuelLowWarning      bool
	FuelCriticalWarning bool
	BingoFuel           bool
	JokerFuel           bool
	EnduranceMinutes    float64
	RangeKm             float64
}

// Hardpoint count used to size the weapons task's per-hardpoint arrays.
const HardpointCount = 4

// Weapons holds the weapons/targeting task's state.
type Weapons struct {
	MissileCount           int
	HardpointAmmoCount     [HardpointCount]int
	HardpointReady         [HardpointCount]bool
	HardpointJammed        [HardpointCount]bool
	HardpointWeaponType    [HardpointCount]string
	TotalHardpoints        int
	SelectedHardpointIndex int
	MissileLifeTimeSeconds float64

	WeaponFireRequest bool
	WeaponFireAck     bool
	WeaponReady       bool
	WeaponJammed      bool
	WeaponJamMessage  string

	LockedTargetValid    bool
	LockedTargetID       int
	LockedTargetPosition vmath.Vec3F
	LockedTargetDistance float64
	LockedTargetAngle    float64

	TargetCandidateAvailable bool
	TargetCandidateID        int
	TargetCandidatePosition  vmath.Vec3F
	TargetCandidateDistance  float64
	TargetCandidateAngle     float64

	FireInput     bool
	LockOnInput   bool
	BreakLockInput bool
}

// Countermeasures holds the countermeasures task's state.
type Countermeasures struct {
	FlareCount              int
	ChaffCount              int
	FlareCooldownActive     bool
	ChaffCooldownActive     bool
	FlareFireRequest        bool
	ChaffFireRequest        bool
	FlareInput              bool
	ChaffInput              bool
	AutoCountermeasureEnabled bool
	MissileThreatDetected   bool
	MissileThreatDistance   float64
}

// Safety holds collision-avoidance state, written by the radar task; no
// other task in the tasks package reads it.
type Safety struct {
	CollisionRisk           bool
	CollisionAvoidanceActive bool
	AvoidanceVector         vmath.Vec3F
}

// AircraftState is the single shared record every periodic task
// operates on. Tasks write disjoint field groups by convention; nothing
// here enforces that discipline — the same caller-owned-mutation
// relationship an ECS engine's shared Resource type has to its World.
type AircraftState struct {
	Attitude        Attitude
	Kinematics      Kinematics
	PilotInput      PilotInput
	ControlCommand  ControlCommand
	EngineFuel      EngineFuel
	Weapons         Weapons
	Countermeasures Countermeasures
	Safety          Safety
}

// New returns an AircraftState with fuel and hardpoint counters at
// sensible full-tank, full-rack defaults; every other field is the zero
// value (wings level, engine off, no input).
func New() *AircraftState {
	s := &AircraftState{}
	s.EngineFuel.FuelLevel = 1.0
	s.EngineFuel.FuelCapacityLiters = 4000
	s.EngineFuel.FuelRemainingLiters = 4000
	s.EngineFuel.ThrustLimitScale = 1.0
	s.EngineFuel.ThrottleLimit = 1.0
	s.Weapons.TotalHardpoints = HardpointCount
	for i := 0; i < HardpointCount; i++ {
		s.Weapons.HardpointReady[i] = true
	}
	s.Countermeasures.FlareCount = 60
	s.Countermeasures.ChaffCount = 60
	s.Countermeasures.AutoCountermeasureEnabled = true
	return s
}
