// Package console drives the appliance from line commands on a reader and
// prints display frames to a writer, for headless runs and scripted sessions
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lixenwraith/chess-clock/core"
	"github.com/lixenwraith/chess-clock/hardware"
	"github.com/lixenwraith/chess-clock/input"
	"github.com/lixenwraith/chess-clock/parameter"
)

const (
	cols = parameter.DisplayCols
	rows = parameter.DisplayRows
)

// Console implements Display, AnalogInput and Buttons over text streams
type Console struct {
	in  io.Reader
	out io.Writer
	wmu sync.Mutex

	mu       sync.Mutex
	cells    [rows][cols]rune
	col, row int
	shown    string
	pot      uint16
	handlers [2]func()

	status func() string
	mute   func() bool
}

// New creates a console reading commands from in and printing frames to out
func New(in io.Reader, out io.Writer) *Console {
	c := &Console{
		in:  in,
		out: out,
		pot: parameter.ADCMax / 2,
	}
	c.blank()
	return c
}

// SetStatus installs the source printed by the "status" command
func (c *Console) SetStatus(fn func() string) {
	c.mu.Lock()
	c.status = fn
	c.mu.Unlock()
}

// SetMuteToggle installs the "mute" command callback
func (c *Console) SetMuteToggle(fn func() bool) {
	c.mu.Lock()
	c.mute = fn
	c.mu.Unlock()
}

// Serve executes commands until the input ends or ctx is done
// Quit commands and end of input both call onQuit
func (c *Console) Serve(ctx context.Context, onQuit func()) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	core.Go(func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if onQuit != nil {
				onQuit()
			}
			if err != nil {
				return fmt.Errorf("console input: %w", err)
			}
			return nil
		case line := <-lines:
			if c.execute(line) && onQuit != nil {
				onQuit()
				return nil
			}
		}
	}
}

// execute runs one command and reports whether it asked to quit
func (c *Console) execute(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	in, ok := input.ParseCommand(line)
	if !ok {
		c.printf("unknown command %q\n", strings.TrimSpace(line))
		return false
	}

	switch in.Type {
	case input.IntentQuit:
		return true

	case input.IntentPress:
		c.Press(in.Button)

	case input.IntentPotNudge, input.IntentPotSet:
		c.mu.Lock()
		c.pot = input.ApplyPot(c.pot, in)
		v := c.pot
		c.mu.Unlock()
		c.printf("knob %d\n", v)

	case input.IntentToggleMute:
		c.mu.Lock()
		fn := c.mute
		c.mu.Unlock()
		if fn == nil {
			c.printf("no sound\n")
			return false
		}
		if fn() {
			c.printf("muted\n")
		} else {
			c.printf("unmuted\n")
		}

	case input.IntentStatus:
		c.mu.Lock()
		fn := c.status
		v := c.pot
		c.mu.Unlock()
		s := fmt.Sprintf("knob %d", v)
		if fn != nil {
			s += " " + fn()
		}
		c.printf("%s\n", s)
	}
	return false
}

// Press simulates a falling edge on b
func (c *Console) Press(b hardware.Button) {
	c.mu.Lock()
	fn := c.handlers[b]
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// OnPress implements hardware.Buttons
func (c *Console) OnPress(b hardware.Button, fn func()) {
	if b != hardware.Button1 && b != hardware.Button2 {
		return
	}
	c.mu.Lock()
	c.handlers[b] = fn
	c.mu.Unlock()
}

// Read implements hardware.AnalogInput
func (c *Console) Read() (uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pot, nil
}

// DefineGlyph implements hardware.Display; frames print glyph fallbacks
func (c *Console) DefineGlyph(hardware.Glyph) error {
	return nil
}

// MoveTo implements hardware.Display
func (c *Console) MoveTo(col, row int) error {
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return fmt.Errorf("cursor %d,%d outside %dx%d display", col, row, cols, rows)
	}
	c.mu.Lock()
	c.col, c.row = col, row
	c.mu.Unlock()
	return nil
}

// PutChar implements hardware.Display
// Completing the last row prints the frame when it differs from the previous one
func (c *Console) PutChar(ch rune) error {
	c.mu.Lock()
	if c.col >= cols {
		c.mu.Unlock()
		return nil
	}
	c.cells[c.row][c.col] = ch
	c.col++
	if c.col < cols || c.row != rows-1 {
		c.mu.Unlock()
		return nil
	}
	frame := c.frame()
	if frame == c.shown {
		c.mu.Unlock()
		return nil
	}
	c.shown = frame
	c.mu.Unlock()

	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := io.WriteString(c.out, frame)
	return err
}

// Clear implements hardware.Display
func (c *Console) Clear() error {
	c.mu.Lock()
	c.blank()
	c.col, c.row = 0, 0
	c.mu.Unlock()
	return nil
}

// Frame returns the last printed frame
func (c *Console) Frame() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shown
}

func (c *Console) blank() {
	for r := range c.cells {
		for i := range c.cells[r] {
			c.cells[r][i] = ' '
		}
	}
}

// frame renders the LCD between bars; caller holds mu
func (c *Console) frame() string {
	var sb strings.Builder
	for r := range c.cells {
		sb.WriteByte('|')
		for _, ch := range c.cells[r] {
			sb.WriteRune(hardware.Printable(ch))
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}

func (c *Console) printf(format string, args ...any) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}
