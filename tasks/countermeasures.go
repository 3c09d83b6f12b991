package tasks

import "github.com/kestrelsim/vrtkernel/sharedstate"

// Countermeasures owns flare/chaff inventory, fire requests, cooldowns,
// and the auto-countermeasure reflex driven off the shared state's
// MissileThreatDetected/MissileThreatDistance fields, which no task in
// this package writes.
type Countermeasures struct {
	stepBase
	state           *sharedstate.AircraftState
	flareCooldown   int
	chaffCooldown   int
}

const countermeasureCooldownSteps = 5

// NewCountermeasures constructs the countermeasures task over a shared
// AircraftState. Two steps per period: fire handling, auto-reflex.
func NewCountermeasures(state *sharedstate.AircraftState) *Countermeasures {
	return &Countermeasures{
		stepBase: newStepBase("countermeasures", []float64{0.0004, 0.0003}),
		state:    state,
	}
}

func (t *Countermeasures) Initialize()    {}
func (t *Countermeasures) Cleanup() error { return nil }
func (t *Countermeasures) OnDeadlineMiss() {
	t.state.Countermeasures.FlareFireRequest = false
	t.state.Countermeasures.ChaffFireRequest = false
}

func (t *Countermeasures) ExecuteStep() {
	switch t.CurrentStep() {
	case 0:
		t.handleFireRequests()
	case 1:
		t.handleAutoReflex()
	}
	t.advance()
}

func (t *Countermeasures) handleFireRequests() {
	c := &t.state.Countermeasures

	c.FlareFireRequest = false
	if c.FlareInput && !c.FlareCooldownActive && c.FlareCount > 0 {
		c.FlareCount--
		c.FlareFireRequest = true
		t.flareCooldown = countermeasureCooldownSteps
		c.FlareCooldownActive = true
	}

	c.ChaffFireRequest = false
	if c.ChaffInput && !c.ChaffCooldownActive && c.ChaffCount > 0 {
		c.ChaffCount--
		c.ChaffFireRequest = true
		t.chaffCooldown = countermeasureCooldownSteps
		c.ChaffCooldownActive = true
	}

	if t.flareCooldown > 0 {
		t.flareCooldown--
		c.FlareCooldownActive = t.flareCooldown > 0
	}
	if t.chaffCooldown > 0 {
		t.chaffCooldown--
		c.ChaffCooldownActive = t.chaffCooldown > 0
	}
}

func (t *Countermeasures) handleAutoReflex() {
	const reflexRange = 150.0
	c := &t.state.Countermeasures
	if !c.AutoCountermeasureEnabled {
		return
	}
	if c.MissileThreatDetected && c.MissileThreatDistance < reflexRange {
		if !c.ChaffCooldownActive && c.ChaffCount > 0 {
			c.ChaffCount--
			c.ChaffFireRequest = true
			t.chaffCooldown = countermeasureCooldownSteps
			c.ChaffCooldownActive = true
		}
		if !c.FlareCooldownActive && c.FlareCount > 0 {
			c.FlareCount--
			c.FlareFireRequest = true
			t.flareCooldown = countermeasureCooldownSteps
			c.FlareCooldownActive = true
		}
	}
}
