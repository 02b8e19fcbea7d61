// Package timecontrol defines the clock configuration record and the
// analog-to-field mappings used while dialing it in
package timecontrol

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/chess-clock/parameter"
)

// Kind selects how the alternate time is applied
type Kind int

const (
	// Bonus adds the alternate time to a player's main time after each move
	Bonus Kind = iota
	// Delay grants a per-move grace period consumed before main time
	Delay
)

var ErrUnknownKind = errors.New("unknown time control type")

func (k Kind) String() string {
	switch k {
	case Bonus:
		return "bonus"
	case Delay:
		return "delay"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts the persisted string form
func ParseKind(s string) (Kind, error) {
	switch s {
	case "bonus":
		return Bonus, nil
	case "delay":
		return Delay, nil
	}
	return Bonus, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// TimeControl is the configuration of one game
// Initial times are minutes, alternate times are seconds
type TimeControl struct {
	Kind          Kind
	P1InitialTime int
	P2InitialTime int
	P1AltTime     int
	P2AltTime     int
}

// Default returns bonus 10+5 for both players
func Default() TimeControl {
	kind, _ := ParseKind(parameter.DefaultKind)
	return TimeControl{
		Kind:          kind,
		P1InitialTime: parameter.DefaultInitialTime,
		P2InitialTime: parameter.DefaultInitialTime,
		P1AltTime:     parameter.DefaultAltTime,
		P2AltTime:     parameter.DefaultAltTime,
	}
}

// Validate checks every field against its allowed range
func (tc TimeControl) Validate() error {
	if tc.Kind != Bonus && tc.Kind != Delay {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(tc.Kind))
	}
	for _, f := range []struct {
		name     string
		val      int
		min, max int
	}{
		{"p1_initial_time", tc.P1InitialTime, parameter.MinMainTime, parameter.MaxMainTime},
		{"p2_initial_time", tc.P2InitialTime, parameter.MinMainTime, parameter.MaxMainTime},
		{"p1_alt_time", tc.P1AltTime, parameter.MinAltTime, parameter.MaxAltTime},
		{"p2_alt_time", tc.P2AltTime, parameter.MinAltTime, parameter.MaxAltTime},
	} {
		if f.val < f.min || f.val > f.max {
			return fmt.Errorf("%s %d outside [%d,%d]", f.name, f.val, f.min, f.max)
		}
	}
	return nil
}

func (tc TimeControl) String() string {
	return fmt.Sprintf("%s p1=%d+%d p2=%d+%d", tc.Kind, tc.P1InitialTime, tc.P1AltTime, tc.P2InitialTime, tc.P2AltTime)
}

// KindFromADC selects delay at or above half scale, bonus below
func KindFromADC(v uint16) Kind {
	if int(v) >= parameter.ADCHalf {
		return Delay
	}
	return Bonus
}

// MainTimeFromADC maps a reading onto whole minutes in [MinMainTime, MaxMainTime]
func MainTimeFromADC(v uint16) int {
	return scale(v, parameter.MinMainTime, parameter.MaxMainTime)
}

// AltTimeFromADC maps a reading onto whole seconds in [MinAltTime, MaxAltTime]
func AltTimeFromADC(v uint16) int {
	return scale(v, parameter.MinAltTime, parameter.MaxAltTime)
}

// scale clamps v to the usable ADC span and maps it linearly onto [lo, hi], flooring
func scale(v uint16, lo, hi int) int {
	adc := max(parameter.ADCClampMin, min(int(v), parameter.ADCClampMax))
	span := float64(parameter.ADCClampMax - parameter.ADCClampMin)
	val := float64(lo) + float64(adc-parameter.ADCClampMin)*float64(hi-lo)/span
	return int(math.Floor(val))
}
