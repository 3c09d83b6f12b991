package dashboard

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	rgbBackground = tcell.NewRGBColor(16, 18, 24)
	rgbText       = tcell.NewRGBColor(210, 210, 210)
	rgbDim        = tcell.NewRGBColor(90, 90, 95)
	rgbIdle       = tcell.NewRGBColor(60, 60, 65)
)

// utilizationColor bands a task's CPU-utilization percentage (0..100)
// into a green-to-red gradient, the same banding concept a heat-meter
// gradient uses, but built on go-colorful's HSV interpolation instead of
// a hand-rolled per-segment RGB lerp.
func utilizationColor(percent float64) tcell.Color {
	t := percent / 100.0
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	cool := colorful.Hsv(140, 0.65, 0.85) // green
	hot := colorful.Hsv(0, 0.85, 0.95)    // red
	blended := cool.BlendHsv(hot, t).Clamped()

	r, g, b := blended.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// severityColor bands a deadline event's severity for the event log.
func severityColor(critical bool, soft bool) tcell.Color {
	switch {
	case critical:
		return tcell.NewRGBColor(255, 80, 80)
	case soft:
		return tcell.NewRGBColor(255, 200, 60)
	default:
		return rgbText
	}
}
