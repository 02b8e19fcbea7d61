// Package wizard implements the potentiometer-driven time control setup
package wizard

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/chess-clock/engine"
	"github.com/lixenwraith/chess-clock/hardware"
	"github.com/lixenwraith/chess-clock/input"
	"github.com/lixenwraith/chess-clock/parameter"
	"github.com/lixenwraith/chess-clock/render"
	"github.com/lixenwraith/chess-clock/status"
	"github.com/lixenwraith/chess-clock/timecontrol"
)

// Config holds the wizard's cadences
type Config struct {
	SamplePeriod time.Duration
	Debounce     time.Duration
}

// DefaultConfig returns the appliance cadences
func DefaultConfig() Config {
	return Config{
		SamplePeriod: parameter.SamplePeriod,
		Debounce:     parameter.DebounceInterval,
	}
}

// Wizard walks the operator through the configuration stages
// Stage and time control are mutated only under the scheduler lock
type Wizard struct {
	sched   *engine.Scheduler
	flusher *render.Flusher
	blinker *render.Blinker
	analog  hardware.AnalogInput
	buttons hardware.Buttons
	cfg     Config
	reg     *status.Registry

	stage     Stage
	tc        timecontrol.TimeControl
	confirmed bool

	renders  *atomic.Int64
	advances *atomic.Int64
}

// New creates a wizard drawing through flusher
func New(sched *engine.Scheduler, flusher *render.Flusher, analog hardware.AnalogInput,
	buttons hardware.Buttons, cfg Config, reg *status.Registry) *Wizard {
	return &Wizard{
		sched:    sched,
		flusher:  flusher,
		blinker:  render.NewBlinker(sched, flusher),
		analog:   analog,
		buttons:  buttons,
		cfg:      cfg,
		reg:      reg,
		renders:  reg.Ints.Get("wizard.renders"),
		advances: reg.Ints.Get("wizard.advances"),
	}
}

// Run shows the summary for initial and returns the confirmed time control
// Button1 advances the stage, Button2 confirms
func (w *Wizard) Run(ctx context.Context, initial timecontrol.TimeControl) (timecontrol.TimeControl, error) {
	err := w.sched.Critical(func() error {
		w.stage = StageType
		w.tc = initial
		w.confirmed = false

		if err := w.render(); err != nil {
			return err
		}
		return w.blinker.Start(w.stage.Cells())
	})
	if err != nil {
		return initial, err
	}
	defer w.sched.Critical(func() error {
		w.blinker.Stop()
		return nil
	})

	clock := w.sched.Clock()
	input.Attach(w.sched, w.buttons, hardware.Button1, input.NewDebouncer(clock, w.cfg.Debounce, w.advance).WithMetrics(w.reg))
	input.Attach(w.sched, w.buttons, hardware.Button2, input.NewDebouncer(clock, w.cfg.Debounce, w.confirm).WithMetrics(w.reg))
	defer input.Detach(w.buttons, hardware.Button1, hardware.Button2)

	for {
		var done bool
		err := w.sched.Critical(func() error {
			if w.confirmed {
				done = true
				return nil
			}
			return w.sample()
		})
		if err != nil {
			return w.tc, err
		}
		if done {
			break
		}
		if err := w.sched.Sleep(ctx, w.cfg.SamplePeriod); err != nil {
			return w.tc, err
		}
	}

	log.Printf("wizard: confirmed %s", w.tc)
	return w.tc, nil
}

// Stage returns the active stage
func (w *Wizard) Stage() Stage {
	var s Stage
	w.sched.Critical(func() error {
		s = w.stage
		return nil
	})
	return s
}

// advance runs in interrupt context
func (w *Wizard) advance() error {
	if w.confirmed {
		return nil
	}
	w.stage = w.stage.Next()
	w.advances.Add(1)
	log.Printf("wizard: stage %s", w.stage)
	return w.blinker.Start(w.stage.Cells())
}

// confirm runs in interrupt context
func (w *Wizard) confirm() error {
	w.confirmed = true
	return nil
}

// sample reads the potentiometer into the field the stage edits
// The summary is redrawn only when the time control changed
func (w *Wizard) sample() error {
	prev := w.tc

	switch w.stage {
	case StageType:
		v, err := w.analog.Read()
		if err != nil {
			return fmt.Errorf("wizard sample: %w", err)
		}
		w.tc.Kind = timecontrol.KindFromADC(v)
	case StageBothMainTimes:
		v, err := w.analog.Read()
		if err != nil {
			return fmt.Errorf("wizard sample: %w", err)
		}
		m := timecontrol.MainTimeFromADC(v)
		w.tc.P1InitialTime, w.tc.P2InitialTime = m, m
	case StageBothAltTimes:
		v, err := w.analog.Read()
		if err != nil {
			return fmt.Errorf("wizard sample: %w", err)
		}
		a := timecontrol.AltTimeFromADC(v)
		w.tc.P1AltTime, w.tc.P2AltTime = a, a
	case StageSecondMainTime, StageSecondAltTime:
		// Highlighted only; per-player entry is not wired
		return nil
	}

	if w.tc == prev {
		return nil
	}
	return w.render()
}

// render draws the summary and flushes
//
//	" P1  ◷bonus  P2 "
//	"10 +5   10 +5   "
func (w *Wizard) render() error {
	buf := w.flusher.Buffer()

	if err := buf.Write(fmt.Sprintf(" P1   %s  P2 ", w.tc.Kind), 0, 0); err != nil {
		return err
	}
	if err := buf.Set(5, 0, hardware.GlyphClock.Rune()); err != nil {
		return err
	}
	if err := buf.Write(fmt.Sprintf("%-3d+%-2d", w.tc.P1InitialTime, w.tc.P1AltTime), 0, 1); err != nil {
		return err
	}
	if err := buf.Write(fmt.Sprintf("%-3d+%-2d", w.tc.P2InitialTime, w.tc.P2AltTime), 7, 1); err != nil {
		return err
	}

	w.renders.Add(1)
	return w.flusher.Flush()
}
