// Package hardware declares the appliance's external collaborators: the
// character display, the potentiometer and the two push buttons
package hardware

import (
	"fmt"

	"github.com/lixenwraith/chess-clock/parameter"
)

// Button identifies one of the two physical push buttons
type Button int

const (
	// Button1 advances the wizard stage and is player 1's move button
	Button1 Button = iota
	// Button2 confirms the wizard and is player 2's move button
	Button2
)

func (b Button) String() string {
	switch b {
	case Button1:
		return "button1"
	case Button2:
		return "button2"
	}
	return fmt.Sprintf("Button(%d)", int(b))
}

// Display is a character-cell display with a small custom glyph table
type Display interface {
	// DefineGlyph uploads a custom 5x8 character into its slot
	DefineGlyph(g Glyph) error

	// MoveTo positions the write cursor
	MoveTo(col, row int) error

	// PutChar writes one character at the cursor and advances it
	PutChar(ch rune) error

	// Clear blanks the physical display
	Clear() error
}

// AnalogInput is a single 16-bit analog channel
type AnalogInput interface {
	Read() (uint16, error)
}

// Buttons registers falling-edge handlers; a nil handler detaches
// Handlers run on the input source's goroutine
type Buttons interface {
	OnPress(b Button, fn func())
}

// ReadError wraps an I/O failure of a hardware collaborator
type ReadError struct {
	Device string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Device, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Glyph is a custom character definition
// Fallback is used by backends that cannot upload bitmaps
type Glyph struct {
	Slot     byte
	Name     string
	Bitmap   [8]uint8
	Fallback rune
}

// Rune returns the character code that selects this glyph on the display
func (g Glyph) Rune() rune {
	return rune(g.Slot)
}

var (
	GlyphFull = Glyph{
		Slot: parameter.GlyphFull, Name: "full", Fallback: '█',
		Bitmap: [8]uint8{0b11111, 0b11111, 0b11111, 0b11111, 0b11111, 0b11111, 0b11111, 0b11111},
	}
	GlyphClock = Glyph{
		Slot: parameter.GlyphClock, Name: "clock", Fallback: '◷',
		Bitmap: [8]uint8{0b00000, 0b01110, 0b10101, 0b10111, 0b10001, 0b01110, 0b00000, 0b00000},
	}
	GlyphPawn = Glyph{
		Slot: parameter.GlyphPawn, Name: "pawn", Fallback: '♟',
		Bitmap: [8]uint8{0b00100, 0b01110, 0b11111, 0b01110, 0b00100, 0b00100, 0b01110, 0b11111},
	}
	GlyphTrophy = Glyph{
		Slot: parameter.GlyphTrophy, Name: "trophy", Fallback: '♛',
		Bitmap: [8]uint8{0b11111, 0b11111, 0b01110, 0b01110, 0b00100, 0b00100, 0b01110, 0b11111},
	}
)

// Glyphs returns every custom glyph in slot order
func Glyphs() []Glyph {
	return []Glyph{GlyphFull, GlyphClock, GlyphPawn, GlyphTrophy}
}

// Printable maps custom glyph codes to their fallback runes
func Printable(ch rune) rune {
	for _, g := range Glyphs() {
		if ch == g.Rune() {
			return g.Fallback
		}
	}
	return ch
}

// UploadGlyphs defines every custom glyph on the display
func UploadGlyphs(d Display) error {
	for _, g := range Glyphs() {
		if err := d.DefineGlyph(g); err != nil {
			return fmt.Errorf("define glyph %s: %w", g.Name, err)
		}
	}
	return nil
}
