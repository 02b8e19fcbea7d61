package parameter

// Time Control Ranges
const (
	// MinMainTime and MaxMainTime bound a player's initial time in minutes
	MinMainTime = 1
	MaxMainTime = 180

	// MinAltTime and MaxAltTime bound the delay or bonus in seconds
	MinAltTime = 0
	MaxAltTime = 30
)

// Default Time Control (bonus 10+5)
const (
	DefaultKind        = "bonus"
	DefaultInitialTime = 10
	DefaultAltTime     = 5
)

// Analog Input
const (
	// ADCMax is full scale of the 16-bit analog sample
	ADCMax = 65535

	// ADCHalf splits the type selection: at or above selects delay
	ADCHalf = 65536 / 2

	// ADCClampMin and ADCClampMax bound readings before linear mapping,
	// the low end absorbs potentiometer dead zone
	ADCClampMin = 250
	ADCClampMax = 65535

	// AbortLowThreshold and AbortHighThreshold arm the sticky abort flags
	// (strictly below and strictly above)
	AbortLowThreshold  = 300
	AbortHighThreshold = 65000
)

// LowTimeWarning is the remaining main time in seconds at or under which
// each tick sounds a warning beep
const LowTimeWarning = 10
