package game

import "github.com/lixenwraith/chess-clock/parameter"

// AbortDetector recognises the cancel gesture: the knob swept to both ends
// Flags are sticky and order-independent until Reset
type AbortDetector struct {
	low  bool
	high bool
}

// Observe records one analog sample
func (a *AbortDetector) Observe(v uint16) {
	if int(v) < parameter.AbortLowThreshold {
		a.low = true
	}
	if int(v) > parameter.AbortHighThreshold {
		a.high = true
	}
}

// Triggered reports whether both ends have been seen
func (a *AbortDetector) Triggered() bool {
	return a.low && a.high
}

// Reset clears both flags
func (a *AbortDetector) Reset() {
	a.low, a.high = false, false
}
