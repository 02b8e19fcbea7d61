package render

import (
	"errors"
	"testing"

	"github.com/lixenwraith/chess-clock/core"
	"github.com/lixenwraith/chess-clock/hardware"
)

func TestFlushWritesCompositeRows(t *testing.T) {
	buf := core.NewBuffer(16, 2)
	disp := hardware.NewFakeDisplay()
	f := NewFlusher(buf, disp)

	buf.Write(" P1: ", 0, 0)
	buf.Write("10:00+5", 5, 0)
	buf.SetOverlay(1, 1, 'X')

	if err := f.Flush(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := disp.Row(0); got != " P1: 10:00+5    " {
		t.Errorf("Expected row 0 mirrored, got %q", got)
	}
	if got := disp.Cell(1, 1); got != 'X' {
		t.Errorf("Expected overlay on display, got %q", got)
	}
	if disp.Puts() != 32 {
		t.Errorf("Expected 32 characters written, got %d", disp.Puts())
	}
	if f.Flushes() != 1 {
		t.Errorf("Expected 1 flush, got %d", f.Flushes())
	}
}

func TestFlushPropagatesDisplayError(t *testing.T) {
	disp := hardware.NewFakeDisplay()
	f := NewFlusher(core.NewBuffer(16, 2), disp)

	boom := errors.New("bus error")
	disp.FailWith(boom)
	if err := f.Flush(); !errors.Is(err, boom) {
		t.Errorf("Expected bus error, got %v", err)
	}
	if f.Flushes() != 0 {
		t.Errorf("Expected failed flush not counted, got %d", f.Flushes())
	}
}

func TestClearBlanksBufferAndDisplay(t *testing.T) {
	buf := core.NewBuffer(16, 2)
	disp := hardware.NewFakeDisplay()
	f := NewFlusher(buf, disp)

	buf.Write("hello", 0, 0)
	f.Flush()
	if err := f.Clear(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := buf.Line(0); got != "                " {
		t.Errorf("Expected blank buffer, got %q", got)
	}
	if got := disp.Row(0); got != "                " {
		t.Errorf("Expected blank display, got %q", got)
	}
	if disp.Clears() != 1 {
		t.Errorf("Expected 1 display clear, got %d", disp.Clears())
	}
}
