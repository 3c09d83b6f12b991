package audioalert

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const sampleRate = beep.SampleRate(44100)

// newVolume: math.Log2(0) is -Inf, so zero volume is handled with the
// Silent flag instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// cautionToneDuration and its attack/release shape a short, harsh
// two-tone buzz distinct from any in-game sound the host might also
// play, so an operator recognizes it as a scheduler condition.
const (
	cautionToneDuration = 220 * time.Millisecond
	cautionAttack       = 5 * time.Millisecond
	cautionRelease      = 40 * time.Millisecond
	cautionFreqLow      = 420.0
	cautionFreqHigh     = 660.0
)

// criticalTone builds the streamer played on a kernel.EventCritical
// deadline event: a low saw tone mixed with a higher square tone,
// shaped by a shared envelope.
func criticalTone(volume float64) beep.Streamer {
	low := newOscillator(cautionFreqLow, cautionToneDuration, waveSaw, sampleRate)
	high := newOscillator(cautionFreqHigh, cautionToneDuration, waveSquare, sampleRate)
	mixed := beep.Mix(low, high)
	shaped := newEnvelope(mixed, cautionToneDuration, cautionAttack, cautionRelease, sampleRate)
	return newVolume(shaped, volume)
}
