package parameter

// Character Display
const (
	// DisplayCols and DisplayRows are the LCD geometry
	DisplayCols = 16
	DisplayRows = 2
)

// Custom glyph slots uploaded to the display at startup
const (
	GlyphFull   = 0
	GlyphClock  = 1
	GlyphPawn   = 2
	GlyphTrophy = 3
)

// Simulator Layout
const (
	// BezelPadding is the blank margin drawn around the simulated LCD
	BezelPadding = 1

	// PotStep and PotStepCoarse are potentiometer increments per key press
	PotStep       = 1024
	PotStepCoarse = 8192
)
