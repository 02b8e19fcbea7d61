package input

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/chess-clock/engine"
	"github.com/lixenwraith/chess-clock/hardware"
	"github.com/lixenwraith/chess-clock/status"
)

// Debouncer collapses bursts of edge events into one logical event
// Each logical handler owns its own Debouncer so concurrently bouncing
// buttons never share guard state
type Debouncer struct {
	clock   engine.Clock
	guardMs int32
	handler func() error

	mu   sync.Mutex
	last uint32 // Tick of the last accepted event
	seen bool

	accepted *atomic.Int64
	rejected *atomic.Int64
}

// NewDebouncer wraps handler with a guard interval
func NewDebouncer(clock engine.Clock, guard time.Duration, handler func() error) *Debouncer {
	return &Debouncer{
		clock:    clock,
		guardMs:  int32(guard.Milliseconds()),
		handler:  handler,
		accepted: new(atomic.Int64),
		rejected: new(atomic.Int64),
	}
}

// WithMetrics publishes accept/reject counts to the registry
func (d *Debouncer) WithMetrics(reg *status.Registry) *Debouncer {
	d.accepted = reg.Ints.Get("input.accepted")
	d.rejected = reg.Ints.Get("input.rejected")
	return d
}

// Fire invokes the handler unless the last accepted event is within the guard
// A discarded event has no side effect; the first event is always accepted
func (d *Debouncer) Fire() error {
	now := engine.TicksMs(d.clock)

	d.mu.Lock()
	if d.seen && engine.TicksDiff(now, d.last) <= d.guardMs {
		d.mu.Unlock()
		d.rejected.Add(1)
		return nil
	}
	d.last = now
	d.seen = true
	d.mu.Unlock()

	d.accepted.Add(1)
	return d.handler()
}

// Attach routes a button's edges through d into the scheduler's interrupt context
func Attach(s *engine.Scheduler, buttons hardware.Buttons, btn hardware.Button, d *Debouncer) {
	buttons.OnPress(btn, func() {
		s.Interrupt(d.Fire)
	})
}

// Detach removes the handlers of every listed button
func Detach(buttons hardware.Buttons, btns ...hardware.Button) {
	for _, b := range btns {
		buttons.OnPress(b, nil)
	}
}
