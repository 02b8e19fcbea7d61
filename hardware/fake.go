package hardware

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/chess-clock/parameter"
)

// FakeDisplay records what a real display would show
type FakeDisplay struct {
	mu       sync.Mutex
	cells    [parameter.DisplayRows][parameter.DisplayCols]rune
	col, row int
	glyphs   map[byte]Glyph
	puts     int
	clears   int
	failWith error
}

// NewFakeDisplay creates a blank fake display
func NewFakeDisplay() *FakeDisplay {
	d := &FakeDisplay{glyphs: make(map[byte]Glyph)}
	d.blank()
	return d
}

func (d *FakeDisplay) blank() {
	for r := range d.cells {
		for c := range d.cells[r] {
			d.cells[r][c] = ' '
		}
	}
}

// FailWith makes every following call return err (nil restores)
func (d *FakeDisplay) FailWith(err error) {
	d.mu.Lock()
	d.failWith = err
	d.mu.Unlock()
}

func (d *FakeDisplay) DefineGlyph(g Glyph) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	d.glyphs[g.Slot] = g
	return nil
}

func (d *FakeDisplay) MoveTo(col, row int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	if col < 0 || col >= parameter.DisplayCols || row < 0 || row >= parameter.DisplayRows {
		return errors.New("cursor out of range")
	}
	d.col, d.row = col, row
	return nil
}

func (d *FakeDisplay) PutChar(ch rune) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	if d.col < parameter.DisplayCols {
		d.cells[d.row][d.col] = ch
		d.col++
	}
	d.puts++
	return nil
}

func (d *FakeDisplay) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	d.blank()
	d.col, d.row = 0, 0
	d.clears++
	return nil
}

// Row returns the raw characters shown on a row
func (d *FakeDisplay) Row(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.cells[row][:])
}

// Cell returns one shown character
func (d *FakeDisplay) Cell(col, row int) rune {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cells[row][col]
}

// Puts returns the number of characters written so far
func (d *FakeDisplay) Puts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.puts
}

// Clears returns how many times the display was cleared
func (d *FakeDisplay) Clears() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clears
}

// Glyph returns the definition uploaded to slot
func (d *FakeDisplay) Glyph(slot byte) (Glyph, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.glyphs[slot]
	return g, ok
}

// FakeAnalog is a settable analog channel
// A Script, when set, takes precedence over the stored value
type FakeAnalog struct {
	value  atomic.Uint32
	reads  atomic.Int64
	mu     sync.Mutex
	script func(n int) uint16
	err    error
}

// NewFakeAnalog creates a channel reading v
func NewFakeAnalog(v uint16) *FakeAnalog {
	a := &FakeAnalog{}
	a.Set(v)
	return a
}

// Set changes the current reading
func (a *FakeAnalog) Set(v uint16) {
	a.value.Store(uint32(v))
}

// Script makes the n-th read (0-based) return fn(n)
func (a *FakeAnalog) Script(fn func(n int) uint16) {
	a.mu.Lock()
	a.script = fn
	a.mu.Unlock()
}

// FailWith makes reads return err (nil restores)
func (a *FakeAnalog) FailWith(err error) {
	a.mu.Lock()
	a.err = err
	a.mu.Unlock()
}

func (a *FakeAnalog) Read() (uint16, error) {
	n := a.reads.Add(1) - 1

	a.mu.Lock()
	script, err := a.script, a.err
	a.mu.Unlock()

	if err != nil {
		return 0, &ReadError{Device: "adc", Err: err}
	}
	if script != nil {
		return script(int(n)), nil
	}
	return uint16(a.value.Load()), nil
}

// Reads returns the number of samples taken
func (a *FakeAnalog) Reads() int {
	return int(a.reads.Load())
}

// FakeButtons lets tests press buttons
type FakeButtons struct {
	mu       sync.Mutex
	handlers [2]func()
}

// NewFakeButtons creates two unattached buttons
func NewFakeButtons() *FakeButtons {
	return &FakeButtons{}
}

func (b *FakeButtons) OnPress(btn Button, fn func()) {
	b.mu.Lock()
	b.handlers[btn] = fn
	b.mu.Unlock()
}

// Press delivers one falling edge; reports whether a handler was attached
func (b *FakeButtons) Press(btn Button) bool {
	b.mu.Lock()
	fn := b.handlers[btn]
	b.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Attached reports whether a handler is registered
func (b *FakeButtons) Attached(btn Button) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handlers[btn] != nil
}
