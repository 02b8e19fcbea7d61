package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond
)

// Buzzer Cues
const (
	ClickDuration = 30 * time.Millisecond
	ClickFreq     = 1760

	WarnDuration = 80 * time.Millisecond
	WarnFreq     = 880

	// AlarmBeeps short beeps form the game over alarm
	AlarmBeeps        = 3
	AlarmBeepDuration = 150 * time.Millisecond
	AlarmGapDuration  = 100 * time.Millisecond
	AlarmFreq         = 1320

	// DefaultVolume is the beep effects.Volume exponent (base 2), 0 = unchanged
	DefaultVolume = -1.0
)

