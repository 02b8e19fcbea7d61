package core

import "fmt"

// Point represents a 2D cell coordinate (X is the column, Y the row)
type Point struct {
	X, Y int
}

// RangeError reports a buffer access outside the grid
// It is a contract violation by the caller, not an operational failure
type RangeError struct {
	Col, Row int
	Width    int
	Height   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("buffer position (%d,%d) outside %dx%d grid", e.Col, e.Row, e.Width, e.Height)
}

// Buffer is the in-memory character grid every renderer writes to
// The base grid holds the true content; the overlay holds transient cells
// (blink highlights) composited on top when read for output
// Not synchronized: callers hold the scheduler lock
type Buffer struct {
	width   int
	height  int
	lines   [][]rune
	overlay map[Point]rune
}

// NewBuffer creates a new buffer with the given dimensions, filled with spaces
func NewBuffer(width, height int) *Buffer {
	lines := make([][]rune, height)
	for y := 0; y < height; y++ {
		lines[y] = make([]rune, width)
		for x := 0; x < width; x++ {
			lines[y][x] = ' '
		}
	}

	return &Buffer{
		width:   width,
		height:  height,
		lines:   lines,
		overlay: make(map[Point]rune),
	}
}

// Width returns the buffer width
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height
func (b *Buffer) Height() int {
	return b.height
}

func (b *Buffer) check(col, row int) error {
	if col < 0 || col >= b.width || row < 0 || row >= b.height {
		return &RangeError{Col: col, Row: row, Width: b.width, Height: b.height}
	}
	return nil
}

// Write writes text starting at (col, row), clipping at the last column
// Does not wrap to the next row
func (b *Buffer) Write(text string, col, row int) error {
	if err := b.check(col, row); err != nil {
		return err
	}
	x := col
	for _, ch := range text {
		if x >= b.width {
			break
		}
		b.lines[row][x] = ch
		x++
	}
	return nil
}

// Set stores a single character in the base grid
func (b *Buffer) Set(col, row int, ch rune) error {
	if err := b.check(col, row); err != nil {
		return err
	}
	b.lines[row][col] = ch
	return nil
}

// Get returns the base (true) content of a cell
func (b *Buffer) Get(col, row int) (rune, bool) {
	if b.check(col, row) != nil {
		return 0, false
	}
	return b.lines[row][col], true
}

// SetOverlay places a transient character over a cell without touching its content
func (b *Buffer) SetOverlay(col, row int, ch rune) error {
	if err := b.check(col, row); err != nil {
		return err
	}
	b.overlay[Point{X: col, Y: row}] = ch
	return nil
}

// ClearOverlay removes a transient character, exposing the stored content again
func (b *Buffer) ClearOverlay(col, row int) {
	delete(b.overlay, Point{X: col, Y: row})
}

// Clear resets every cell to space and drops all overlays
func (b *Buffer) Clear() {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.lines[y][x] = ' '
		}
	}
	b.overlay = make(map[Point]rune)
}

// Line returns the base content of a row as a string
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= b.height {
		return ""
	}
	return string(b.lines[row])
}

// Composite returns a copy of a row with overlays applied
func (b *Buffer) Composite(row int) []rune {
	if row < 0 || row >= b.height {
		return nil
	}
	line := make([]rune, b.width)
	copy(line, b.lines[row])
	for p, ch := range b.overlay {
		if p.Y == row {
			line[p.X] = ch
		}
	}
	return line
}
