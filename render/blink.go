// @lixen: #dev{feature[blink(render)]}
package render

import (
	"fmt"
	"time"

	"github.com/lixenwraith/chess-clock/core"
	"github.com/lixenwraith/chess-clock/engine"
	"github.com/lixenwraith/chess-clock/hardware"
	"github.com/lixenwraith/chess-clock/parameter"
)

// Blinker flashes a set of cells with the full-block glyph
// At most one set is live per Blinker; callers hold the scheduler lock
type Blinker struct {
	sched   *engine.Scheduler
	flusher *Flusher
	period  time.Duration
	revert  time.Duration

	points []core.Point
	timer  *engine.Timer
}

// NewBlinker creates an idle blinker with the default cadence
func NewBlinker(sched *engine.Scheduler, flusher *Flusher) *Blinker {
	return &Blinker{
		sched:   sched,
		flusher: flusher,
		period:  parameter.BlinkPeriod,
		revert:  parameter.BlinkRevert,
	}
}

// Start replaces the live set with points and flashes them immediately
func (b *Blinker) Start(points []core.Point) error {
	b.Stop()

	b.points = append([]core.Point(nil), points...)
	if len(b.points) == 0 {
		return nil
	}

	set := b.points
	if err := b.flash(set); err != nil {
		return err
	}
	b.timer = b.sched.Every(b.period, func() error {
		return b.flash(set)
	})
	return nil
}

// Stop cancels the periodic flash
// A revert already scheduled still runs and restores its cells
func (b *Blinker) Stop() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.points = nil
}

// Points returns the live set
func (b *Blinker) Points() []core.Point {
	return b.points
}

// Active reports whether a set is blinking
func (b *Blinker) Active() bool {
	return b.timer != nil && b.timer.Active()
}

func (b *Blinker) flash(set []core.Point) error {
	buf := b.flusher.Buffer()
	for _, p := range set {
		if err := buf.SetOverlay(p.X, p.Y, hardware.GlyphFull.Rune()); err != nil {
			return fmt.Errorf("blink: %w", err)
		}
	}
	if err := b.flusher.Flush(); err != nil {
		return err
	}

	b.sched.After(b.revert, func() error {
		for _, p := range set {
			buf.ClearOverlay(p.X, p.Y)
		}
		return b.flusher.Flush()
	})
	return nil
}
