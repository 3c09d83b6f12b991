package tasks

import (
	"github.com/kestrelsim/vrtkernel/sharedstate"
	"github.com/kestrelsim/vrtkernel/vmath"
)

// Radar owns target acquisition, lock tracking, and collision-avoidance
// detection. It writes Weapons' target-candidate/locked-target fields
// and Safety's collision fields; weapons only reads the locked-target
// fields.
type Radar struct {
	stepBase
	state      *sharedstate.AircraftState
	candidates []vmath.Vec3F
}

// NewRadar constructs the radar task over a shared AircraftState, with a
// fixed set of simulated contact positions to scan against. Three steps
// per sweep: candidate acquisition, lock maintenance, collision check.
func NewRadar(state *sharedstate.AircraftState, candidates []vmath.Vec3F) *Radar {
	return &Radar{
		stepBase:   newStepBase("radar", []float64{0.0015, 0.0005, 0.0010}),
		state:      state,
		candidates: candidates,
	}
}

func (t *Radar) Initialize()     {}
func (t *Radar) Cleanup() error  { return nil }
func (t *Radar) OnDeadlineMiss() { t.state.Weapons.TargetCandidateAvailable = false }

func (t *Radar) ExecuteStep() {
	switch t.CurrentStep() {
	case 0:
		t.acquireCandidate()
	case 1:
		t.maintainLock()
	case 2:
		t.checkCollision()
	}
	t.advance()
}

func (t *Radar) acquireCandidate() {
	w := &t.state.Weapons
	pos := t.state.Kinematics.Position

	best := -1
	bestDist := 0.0
	for i, c := range t.candidates {
		d := vmath.V3FMag(vmath.V3FSub(c, pos))
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}

	if best == -1 {
		w.TargetCandidateAvailable = false
		return
	}
	w.TargetCandidateAvailable = true
	w.TargetCandidateID = best
	w.TargetCandidatePosition = t.candidates[best]
	w.TargetCandidateDistance = bestDist
}

func (t *Radar) maintainLock() {
	w := &t.state.Weapons
	if w.LockOnInput && w.TargetCandidateAvailable {
		w.LockedTargetValid = true
		w.LockedTargetID = w.TargetCandidateID
		w.LockedTargetPosition = w.TargetCandidatePosition
		w.LockedTargetDistance = w.TargetCandidateDistance
	}
	if w.BreakLockInput {
		w.LockedTargetValid = false
	}
}

func (t *Radar) checkCollision() {
	const warnDistance = 200.0
	s := &t.state.Safety
	w := t.state.Weapons

	s.CollisionRisk = w.TargetCandidateAvailable && w.TargetCandidateDistance < warnDistance
	s.CollisionAvoidanceActive = s.CollisionRisk
	if s.CollisionRisk {
		s.AvoidanceVector = vmath.V3FNormalize(vmath.V3FSub(t.state.Kinematics.Position, w.TargetCandidatePosition))
	} else {
		s.AvoidanceVector = vmath.Vec3F{}
	}
}
