package input

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/chess-clock/hardware"
	"github.com/lixenwraith/chess-clock/parameter"
)

const (
	potStep       = parameter.PotStep
	potStepCoarse = parameter.PotStepCoarse
	potMax        = parameter.ADCMax
)

// KeyTable maps terminal keys to simulator intents
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, function keys)
	SpecialKeys map[tcell.Key]Intent

	// Rune bindings
	Runes map[rune]Intent
}

// DefaultKeyTable returns the default key bindings
// Left hand presses button 1, right hand button 2; arrows turn the knob
func DefaultKeyTable() *KeyTable {
	press1 := Intent{Type: IntentPress, Button: hardware.Button1}
	press2 := Intent{Type: IntentPress, Button: hardware.Button2}

	return &KeyTable{
		SpecialKeys: map[tcell.Key]Intent{
			tcell.KeyCtrlC:  {Type: IntentQuit},
			tcell.KeyEscape: {Type: IntentQuit},
			tcell.KeyLeft:   press1,
			tcell.KeyRight:  press2,
			tcell.KeyUp:     {Type: IntentPotNudge, Delta: potStep},
			tcell.KeyDown:   {Type: IntentPotNudge, Delta: -potStep},
			tcell.KeyPgUp:   {Type: IntentPotNudge, Delta: potStepCoarse},
			tcell.KeyPgDn:   {Type: IntentPotNudge, Delta: -potStepCoarse},
			tcell.KeyHome:   {Type: IntentPotSet, Value: 0},
			tcell.KeyEnd:    {Type: IntentPotSet, Value: potMax},
		},
		Runes: map[rune]Intent{
			'a': press1,
			'z': press1,
			'l': press2,
			'm': {Type: IntentToggleMute},
			'/': press2,
			'q': {Type: IntentQuit},
			'k': {Type: IntentPotNudge, Delta: potStep},
			'j': {Type: IntentPotNudge, Delta: -potStep},
			'0': {Type: IntentPotSet, Value: 0},
			'9': {Type: IntentPotSet, Value: potMax},
		},
	}
}

// Lookup decodes a key event
func (kt *KeyTable) Lookup(ev *tcell.EventKey) (Intent, bool) {
	if ev.Key() == tcell.KeyRune {
		in, ok := kt.Runes[ev.Rune()]
		return in, ok
	}
	in, ok := kt.SpecialKeys[ev.Key()]
	return in, ok
}
