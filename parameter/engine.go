package parameter

import "time"

// Clock Timing
const (
	// TickPeriod is the game clock callback interval
	TickPeriod = 1000 * time.Millisecond

	// SamplePeriod is the wizard's analog sampling cadence
	SamplePeriod = 500 * time.Millisecond

	// PollPeriod is the in-game render and abort-gesture polling cadence
	PollPeriod = 100 * time.Millisecond

	// DismissSettle is slept after the result screen is dismissed so the
	// dismissing press does not leak into the next wizard
	DismissSettle = 300 * time.Millisecond
)

// Blink Animation
const (
	// BlinkPeriod is the interval between highlight flashes
	BlinkPeriod = 800 * time.Millisecond

	// BlinkRevert is how long a flashed cell shows the filled glyph
	BlinkRevert = 250 * time.Millisecond
)

// Input
const (
	// DebounceInterval is the guard interval for every logical button
	DebounceInterval = 500 * time.Millisecond
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "chess-clock.log"
	MaxLogSize  = 10 * 1024 * 1024
)

// Persistence
const (
	// DefaultStorePath is where the last confirmed time control is kept
	DefaultStorePath = "time_control.toml"
)
