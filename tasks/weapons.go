package tasks

import "github.com/kestrelsim/vrtkernel/sharedstate"

// Weapons owns hardpoint readiness, fire-request handling, and in-flight
// missile lifetime. It reads the locked-target fields Radar writes but
// never writes them.
type Weapons struct {
	stepBase
	state          *sharedstate.AircraftState
	jamCooldown    [sharedstate.HardpointCount]int
	activeMissiles []float64 // remaining life in seconds, indexed arbitrarily
}

// NewWeapons constructs the weapons task over a shared AircraftState.
// Two steps per period: fire-request handling, hardpoint/missile upkeep.
func NewWeapons(state *sharedstate.AircraftState) *Weapons {
	return &Weapons{
		stepBase: newStepBase("weapons", []float64{0.0006, 0.0007}),
		state:    state,
	}
}

func (t *Weapons) Initialize()    {}
func (t *Weapons) Cleanup() error { return nil }
func (t *Weapons) OnDeadlineMiss() {
	t.state.Weapons.WeaponFireAck = false
	t.state.Weapons.WeaponJammed = true
	t.state.Weapons.WeaponJamMessage = "fire-control timeout"
}

func (t *Weapons) ExecuteStep() {
	switch t.CurrentStep() {
	case 0:
		t.handleFireRequest()
	case 1:
		t.updateHardpoints()
	}
	t.advance()
}

func (t *Weapons) handleFireRequest() {
	w := &t.state.Weapons
	w.WeaponFireAck = false
	if !w.FireInput || !w.LockedTargetValid {
		return
	}

	idx := w.SelectedHardpointIndex
	if idx < 0 || idx >= w.TotalHardpoints {
		return
	}
	if w.HardpointJammed[idx] {
		w.WeaponJammed = true
		w.WeaponJamMessage = "hardpoint jammed"
		return
	}
	if !w.HardpointReady[idx] || w.HardpointAmmoCount[idx] <= 0 {
		return
	}

	w.HardpointAmmoCount[idx]--
	w.HardpointReady[idx] = w.HardpointAmmoCount[idx] > 0
	w.MissileCount++
	w.WeaponFireAck = true
	w.WeaponJammed = false
	t.activeMissiles = append(t.activeMissiles, w.MissileLifeTimeSeconds)
}

func (t *Weapons) updateHardpoints() {
	w := &t.state.Weapons
	w.WeaponReady = false
	for i := 0; i < w.TotalHardpoints; i++ {
		if t.jamCooldown[i] > 0 {
			t.jamCooldown[i]--
			if t.jamCooldown[i] == 0 {
				w.HardpointJammed[i] = false
			}
		}
		if w.HardpointReady[i] && !w.HardpointJammed[i] {
			w.WeaponReady = true
		}
	}

	const lifeDecayPerStep = 0.05
	alive := t.activeMissiles[:0]
	for _, life := range t.activeMissiles {
		life -= lifeDecayPerStep
		if life > 0 {
			alive = append(alive, life)
		}
	}
	t.activeMissiles = alive
}
