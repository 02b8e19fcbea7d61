// Package tui simulates the appliance front panel in a terminal: the 16x2
// LCD inside a bezel, a knob gauge for the potentiometer and the two buttons
// bound to keys and mouse clicks
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/chess-clock/core"
	"github.com/lixenwraith/chess-clock/hardware"
	"github.com/lixenwraith/chess-clock/input"
	"github.com/lixenwraith/chess-clock/parameter"
)

const (
	lcdCols = parameter.DisplayCols
	lcdRows = parameter.DisplayRows
	pad     = parameter.BezelPadding

	// LCD origin inside the bezel frame
	lcdX = 1 + pad
	lcdY = 1 + pad

	frameW = lcdCols + 2*pad + 2
	frameH = lcdRows + 2*pad + 2

	gaugeY  = frameH
	statusY = frameH + 1
	helpY   = frameH + 2

	gaugeWidth = 20
)

var (
	styleFrame  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLCD    = tcell.StyleDefault.Background(tcell.ColorDarkOliveGreen).Foreground(tcell.ColorBlack)
	styleText   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleButton = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Panel is a terminal front panel implementing Display, AnalogInput and Buttons
type Panel struct {
	screen tcell.Screen
	keys   *input.KeyTable

	mu       sync.Mutex
	cells    [lcdRows][lcdCols]rune
	col, row int
	glyphs   map[byte]hardware.Glyph
	pot      uint16
	muted    bool
	handlers [2]func()

	// Optional hooks
	status func() string
	mute   func() bool
}

// New wraps an uninitialized screen
func New(screen tcell.Screen, keys *input.KeyTable) *Panel {
	if keys == nil {
		keys = input.DefaultKeyTable()
	}
	p := &Panel{
		screen: screen,
		keys:   keys,
		glyphs: make(map[byte]hardware.Glyph),
		pot:    parameter.ADCMax / 2,
	}
	for r := range p.cells {
		for c := range p.cells[r] {
			p.cells[r][c] = ' '
		}
	}
	return p
}

// Open initializes the screen and registers its teardown for crash reports
func (p *Panel) Open() error {
	if err := p.screen.Init(); err != nil {
		EmergencyReset()
		return fmt.Errorf("screen init: %w", err)
	}
	p.screen.EnableMouse()
	p.screen.HideCursor()
	core.SetCrashCleanup(func() {
		p.screen.Fini()
		EmergencyReset()
	})

	p.mu.Lock()
	p.redraw()
	p.mu.Unlock()
	return nil
}

// Close restores the terminal; Serve returns once the screen is finalized
func (p *Panel) Close() {
	core.SetCrashCleanup(nil)
	p.screen.Fini()
}

// SetStatus installs the status line source, polled on every redraw
func (p *Panel) SetStatus(fn func() string) {
	p.mu.Lock()
	p.status = fn
	p.mu.Unlock()
}

// SetMuteToggle installs the mute key callback; fn returns the new mute state
func (p *Panel) SetMuteToggle(fn func() bool) {
	p.mu.Lock()
	p.mute = fn
	p.mu.Unlock()
}

// Serve dispatches terminal events until the screen is finalized or ctx ends
// onQuit is called for quit keys
func (p *Panel) Serve(ctx context.Context, onQuit func()) {
	events := make(chan tcell.Event, 32)
	core.Go(func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	})

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			p.handleEvent(ev, onQuit)
		}
	}
}

func (p *Panel) handleEvent(ev tcell.Event, onQuit func()) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		in, ok := p.keys.Lookup(ev)
		if !ok {
			return
		}
		p.apply(in, onQuit)

	case *tcell.EventMouse:
		p.handleMouse(ev)

	case *tcell.EventResize:
		p.screen.Sync()
		p.mu.Lock()
		p.redraw()
		p.mu.Unlock()
	}
}

func (p *Panel) apply(in input.Intent, onQuit func()) {
	switch in.Type {
	case input.IntentQuit:
		if onQuit != nil {
			onQuit()
		}

	case input.IntentPress:
		p.press(in.Button)

	case input.IntentPotNudge, input.IntentPotSet:
		p.mu.Lock()
		p.pot = input.ApplyPot(p.pot, in)
		p.redraw()
		p.mu.Unlock()

	case input.IntentToggleMute:
		p.mu.Lock()
		fn := p.mute
		p.mu.Unlock()
		if fn == nil {
			return
		}
		muted := fn()
		p.mu.Lock()
		p.muted = muted
		p.redraw()
		p.mu.Unlock()
	}
}

// Wheel turns the knob, a left click on either half of the bezel presses that side's button
func (p *Panel) handleMouse(ev *tcell.EventMouse) {
	btn := ev.Buttons()
	switch {
	case btn&tcell.WheelUp != 0:
		p.apply(input.Intent{Type: input.IntentPotNudge, Delta: parameter.PotStep}, nil)
	case btn&tcell.WheelDown != 0:
		p.apply(input.Intent{Type: input.IntentPotNudge, Delta: -parameter.PotStep}, nil)
	case btn&tcell.Button1 != 0:
		x, y := ev.Position()
		if y >= frameH || x >= frameW {
			return
		}
		if x < frameW/2 {
			p.press(hardware.Button1)
		} else {
			p.press(hardware.Button2)
		}
	}
}

// press runs the registered handler outside the panel lock
func (p *Panel) press(b hardware.Button) {
	p.mu.Lock()
	fn := p.handlers[b]
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Press simulates a falling edge on b
func (p *Panel) Press(b hardware.Button) {
	p.press(b)
}

// OnPress implements hardware.Buttons
func (p *Panel) OnPress(b hardware.Button, fn func()) {
	if b != hardware.Button1 && b != hardware.Button2 {
		return
	}
	p.mu.Lock()
	p.handlers[b] = fn
	p.mu.Unlock()
}

// Read implements hardware.AnalogInput
func (p *Panel) Read() (uint16, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pot, nil
}

// SetPot moves the knob to an absolute position
func (p *Panel) SetPot(v uint16) {
	p.mu.Lock()
	p.pot = v
	p.redraw()
	p.mu.Unlock()
}

// DefineGlyph implements hardware.Display
// Bitmaps cannot be shown in a terminal, the glyph's fallback rune stands in
func (p *Panel) DefineGlyph(g hardware.Glyph) error {
	p.mu.Lock()
	p.glyphs[g.Slot] = g
	p.mu.Unlock()
	return nil
}

// MoveTo implements hardware.Display
func (p *Panel) MoveTo(col, row int) error {
	if col < 0 || col >= lcdCols || row < 0 || row >= lcdRows {
		return fmt.Errorf("cursor %d,%d outside %dx%d display", col, row, lcdCols, lcdRows)
	}
	p.mu.Lock()
	p.col, p.row = col, row
	p.mu.Unlock()
	return nil
}

// PutChar implements hardware.Display; completing a row shows the frame
func (p *Panel) PutChar(ch rune) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.col >= lcdCols {
		return nil
	}
	p.cells[p.row][p.col] = ch
	p.screen.SetContent(lcdX+p.col, lcdY+p.row, p.printable(ch), nil, styleLCD)
	p.col++
	if p.col == lcdCols {
		p.drawStatus()
		p.screen.Show()
	}
	return nil
}

// Clear implements hardware.Display
func (p *Panel) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for r := range p.cells {
		for c := range p.cells[r] {
			p.cells[r][c] = ' '
		}
	}
	p.col, p.row = 0, 0
	p.redraw()
	return nil
}

// Line returns the printable text of one LCD row
func (p *Panel) Line(row int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if row < 0 || row >= lcdRows {
		return ""
	}
	var sb strings.Builder
	for _, ch := range p.cells[row] {
		sb.WriteRune(p.printable(ch))
	}
	return sb.String()
}

// printable resolves uploaded glyph codes; caller holds mu
func (p *Panel) printable(ch rune) rune {
	if ch >= 0 && ch < 8 {
		if g, ok := p.glyphs[byte(ch)]; ok {
			return g.Fallback
		}
		return '?'
	}
	return ch
}

// redraw paints the whole panel; caller holds mu
func (p *Panel) redraw() {
	p.screen.Clear()
	p.drawFrame()
	for r := range p.cells {
		for c, ch := range p.cells[r] {
			p.screen.SetContent(lcdX+c, lcdY+r, p.printable(ch), nil, styleLCD)
		}
	}
	p.drawStatus()
	p.drawText(0, helpY, "a/←: P1  l/→: P2  ↑↓ wheel: knob  m: mute  q: quit", styleDim)
	p.screen.Show()
}

func (p *Panel) drawFrame() {
	right, bottom := frameW-1, frameH-1
	for x := 1; x < right; x++ {
		p.screen.SetContent(x, 0, tcell.RuneHLine, nil, styleFrame)
		p.screen.SetContent(x, bottom, tcell.RuneHLine, nil, styleFrame)
	}
	for y := 1; y < bottom; y++ {
		p.screen.SetContent(0, y, tcell.RuneVLine, nil, styleFrame)
		p.screen.SetContent(right, y, tcell.RuneVLine, nil, styleFrame)
	}
	p.screen.SetContent(0, 0, tcell.RuneULCorner, nil, styleFrame)
	p.screen.SetContent(right, 0, tcell.RuneURCorner, nil, styleFrame)
	p.screen.SetContent(0, bottom, tcell.RuneLLCorner, nil, styleFrame)
	p.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, styleFrame)

	// Button caps sit on the bottom edge under each half
	p.drawText(2, bottom, "[1]", styleButton)
	p.drawText(right-4, bottom, "[2]", styleButton)

	for y := 1; y < bottom; y++ {
		for x := 1; x < right; x++ {
			p.screen.SetContent(x, y, ' ', nil, styleLCD)
		}
	}
}

// drawStatus paints the knob gauge and status line; caller holds mu
func (p *Panel) drawStatus() {
	filled := int(p.pot) * gaugeWidth / parameter.ADCMax
	gauge := fmt.Sprintf("knob [%s%s] %5d", strings.Repeat("#", filled), strings.Repeat(".", gaugeWidth-filled), p.pot)
	if p.muted {
		gauge += "  muted"
	}
	p.clearLine(gaugeY)
	p.drawText(0, gaugeY, gauge, styleText)

	p.clearLine(statusY)
	if p.status != nil {
		p.drawText(0, statusY, p.status(), styleDim)
	}
}

func (p *Panel) clearLine(y int) {
	w, _ := p.screen.Size()
	for x := 0; x < w; x++ {
		p.screen.SetContent(x, y, ' ', nil, styleText)
	}
}

func (p *Panel) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
