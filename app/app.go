// Package app runs the appliance's top-level cycle: configure, play, show
// the result, repeat
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/chess-clock/core"
	"github.com/lixenwraith/chess-clock/engine"
	"github.com/lixenwraith/chess-clock/game"
	"github.com/lixenwraith/chess-clock/hardware"
	"github.com/lixenwraith/chess-clock/parameter"
	"github.com/lixenwraith/chess-clock/render"
	"github.com/lixenwraith/chess-clock/status"
	"github.com/lixenwraith/chess-clock/store"
	"github.com/lixenwraith/chess-clock/timecontrol"
	"github.com/lixenwraith/chess-clock/wizard"
)

// Config groups the cadences of both phases
type Config struct {
	Wizard wizard.Config
	Game   game.Config
}

// DefaultConfig returns the appliance cadences
func DefaultConfig() Config {
	return Config{
		Wizard: wizard.DefaultConfig(),
		Game:   game.DefaultConfig(),
	}
}

// Hardware bundles the three front panel collaborators
type Hardware struct {
	Display hardware.Display
	Analog  hardware.AnalogInput
	Buttons hardware.Buttons
}

// App owns the shared display buffer and drives wizard and game in turn
type App struct {
	sched   *engine.Scheduler
	flusher *render.Flusher
	wizard  *wizard.Wizard
	clock   *game.Clock
	store   store.Store

	cycles *atomic.Int64
	aborts *atomic.Int64
	saves  *atomic.Int64
	phase  *status.AtomicString
}

// New wires the wizard and the game clock to hw; a nil sounder plays nothing
func New(sched *engine.Scheduler, hw Hardware, st store.Store, sounder game.Sounder,
	cfg Config, reg *status.Registry) *App {
	flusher := render.NewFlusher(core.NewBuffer(parameter.DisplayCols, parameter.DisplayRows), hw.Display)
	return &App{
		sched:   sched,
		flusher: flusher,
		wizard:  wizard.New(sched, flusher, hw.Analog, hw.Buttons, cfg.Wizard, reg),
		clock:   game.New(sched, flusher, hw.Analog, hw.Buttons, sounder, cfg.Game, reg),
		store:   st,
		cycles:  reg.Ints.Get("app.cycles"),
		aborts:  reg.Ints.Get("app.aborts"),
		saves:   reg.Ints.Get("store.saves"),
		phase:   reg.Strings.Get("app.phase"),
	}
}

// Run cycles until ctx ends or something fails
// Cancellation returns nil; any other error is returned after every timer is
// stopped and the display is blanked
func (a *App) Run(ctx context.Context) error {
	tc := store.LoadOrDefault(a.store)
	log.Printf("app: stored time control %s", tc)

	for {
		next, err := a.cycle(ctx, tc)
		if err != nil {
			return a.shutdown(err)
		}
		tc = next
	}
}

// Snapshot returns the current game state, for status displays
func (a *App) Snapshot() game.State {
	return a.clock.Snapshot()
}

// cycle runs one wizard and one game, returning the confirmed time control
func (a *App) cycle(ctx context.Context, initial timecontrol.TimeControl) (timecontrol.TimeControl, error) {
	a.phase.Store("wizard")
	if err := a.flusher.Clear(); err != nil {
		return initial, err
	}

	tc, err := a.wizard.Run(ctx, initial)
	if err != nil {
		return initial, fmt.Errorf("wizard: %w", err)
	}
	if err := a.store.Save(tc); err != nil {
		// The appliance keeps running on the confirmed values
		log.Printf("store: save: %v", err)
	} else {
		a.saves.Add(1)
	}

	// Leftover blink reverts must not touch the game screen
	a.sched.CancelAll()

	a.phase.Store("game")
	if err := a.clock.Start(tc); err != nil {
		return tc, fmt.Errorf("game start: %w", err)
	}
	outcome, err := a.clock.Play(ctx)
	if err != nil {
		return tc, fmt.Errorf("game: %w", err)
	}
	if outcome == game.OutcomeAborted {
		a.aborts.Add(1)
		a.cycles.Add(1)
		return tc, nil
	}

	a.phase.Store("result")
	if err := a.clock.ShowResult(); err != nil {
		return tc, fmt.Errorf("result: %w", err)
	}
	if err := a.clock.AwaitDismissal(ctx); err != nil {
		return tc, fmt.Errorf("result: %w", err)
	}
	a.cycles.Add(1)
	return tc, nil
}

// shutdown stops every timer and blanks the display
func (a *App) shutdown(cause error) error {
	a.sched.CancelAll()
	a.phase.Store("stopped")
	if err := a.flusher.Clear(); err != nil {
		log.Printf("app: clear on shutdown: %v", err)
	}

	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		log.Printf("app: stopped after %d cycles", a.cycles.Load())
		return nil
	}
	log.Printf("app: fatal: %v", cause)
	return cause
}
