package render

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/chess-clock/core"
	"github.com/lixenwraith/chess-clock/hardware"
)

// Flusher pushes the buffer's composite grid to the physical display
// Flushes are serialized; a flush never interleaves with another
type Flusher struct {
	mu      sync.Mutex
	buf     *core.Buffer
	display hardware.Display
	flushes int
}

// NewFlusher binds a buffer to a display
func NewFlusher(buf *core.Buffer, display hardware.Display) *Flusher {
	return &Flusher{buf: buf, display: display}
}

// Buffer returns the bound buffer
func (f *Flusher) Buffer() *core.Buffer {
	return f.buf
}

// Flush writes every row, positioning the cursor once per row
func (f *Flusher) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for row := 0; row < f.buf.Height(); row++ {
		if err := f.display.MoveTo(0, row); err != nil {
			return fmt.Errorf("display move row %d: %w", row, err)
		}
		for _, ch := range f.buf.Composite(row) {
			if err := f.display.PutChar(ch); err != nil {
				return fmt.Errorf("display put row %d: %w", row, err)
			}
		}
	}
	f.flushes++
	return nil
}

// Clear blanks both the buffer and the physical display
func (f *Flusher) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf.Clear()
	if err := f.display.Clear(); err != nil {
		return fmt.Errorf("display clear: %w", err)
	}
	return nil
}

// Flushes returns the number of completed flushes
func (f *Flusher) Flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}
