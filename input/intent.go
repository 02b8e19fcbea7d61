package input

import (
	"strconv"
	"strings"

	"github.com/lixenwraith/chess-clock/hardware"
)

// IntentType discriminates simulator actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	IntentQuit       // Ctrl+C, Esc, q, "quit"
	IntentToggleMute // m, "mute"
	IntentPress      // A button edge
	IntentPotNudge   // Relative potentiometer movement
	IntentPotSet     // Absolute potentiometer position
	IntentStatus     // "status" on the console
)

// Intent is a decoded operator action
type Intent struct {
	Type   IntentType
	Button hardware.Button
	Delta  int    // IntentPotNudge
	Value  uint16 // IntentPotSet
}

// ParseCommand decodes one console line
// Accepted forms: "1", "2", "a", "b", "pot N", "+", "-", "min", "max", "mute", "status", "quit"
func ParseCommand(line string) (Intent, bool) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Intent{}, false
	}

	switch fields[0] {
	case "1", "a", "p1":
		return Intent{Type: IntentPress, Button: hardware.Button1}, true
	case "2", "b", "p2":
		return Intent{Type: IntentPress, Button: hardware.Button2}, true
	case "+":
		return Intent{Type: IntentPotNudge, Delta: potStep}, true
	case "-":
		return Intent{Type: IntentPotNudge, Delta: -potStep}, true
	case "min":
		return Intent{Type: IntentPotSet, Value: 0}, true
	case "max":
		return Intent{Type: IntentPotSet, Value: potMax}, true
	case "pot":
		if len(fields) != 2 {
			return Intent{}, false
		}
		v, err := strconv.ParseUint(fields[1], 10, 16)
		if err != nil {
			return Intent{}, false
		}
		return Intent{Type: IntentPotSet, Value: uint16(v)}, true
	case "mute":
		return Intent{Type: IntentToggleMute}, true
	case "status":
		return Intent{Type: IntentStatus}, true
	case "quit", "exit", "q":
		return Intent{Type: IntentQuit}, true
	}
	return Intent{}, false
}

// ApplyPot returns the potentiometer position after a pot intent
func ApplyPot(current uint16, in Intent) uint16 {
	switch in.Type {
	case IntentPotSet:
		return in.Value
	case IntentPotNudge:
		return uint16(max(0, min(int(current)+in.Delta, potMax)))
	}
	return current
}
