// @lixen: #dev{feature[clock(game)],feature[abort(game)]}
package game

import (
	"context"
	"fmt"
	"log"
	"math"
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

// Outcome is how a game ended
type Outcome int

const (
	// OutcomeGameOver means a flag fell
	OutcomeGameOver Outcome = iota
	// OutcomeAborted means the cancel gesture fired
	OutcomeAborted
)

func (o Outcome) String() string {
	if o == OutcomeAborted {
		return "aborted"
	}
	return "game-over"
}

// Config holds the clock's cadences
type Config struct {
	TickPeriod    time.Duration
	PollPeriod    time.Duration
	Debounce      time.Duration
	DismissSettle time.Duration
}

// DefaultConfig returns the appliance cadences
func DefaultConfig() Config {
	return Config{
		TickPeriod:    parameter.TickPeriod,
		PollPeriod:    parameter.PollPeriod,
		Debounce:      parameter.DebounceInterval,
		DismissSettle: parameter.DismissSettle,
	}
}

// Clock runs games on the display
// All state is touched under the scheduler lock: callbacks hold it implicitly,
// the main thread enters through Critical
type Clock struct {
	sched   *engine.Scheduler
	flusher *render.Flusher
	analog  hardware.AnalogInput
	buttons hardware.Buttons
	sounder Sounder
	cfg     Config
	reg     *status.Registry

	tc        timecontrol.TimeControl
	state     *State
	tick      *engine.Timer
	abort     AbortDetector
	dismissed bool

	ticks *atomic.Int64
	turns *atomic.Int64
}

// New creates an idle clock; a nil sounder plays nothing
func New(sched *engine.Scheduler, flusher *render.Flusher, analog hardware.AnalogInput,
	buttons hardware.Buttons, sounder Sounder, cfg Config, reg *status.Registry) *Clock {
	if sounder == nil {
		sounder = Silent{}
	}
	return &Clock{
		sched:   sched,
		flusher: flusher,
		analog:  analog,
		buttons: buttons,
		sounder: sounder,
		cfg:     cfg,
		reg:     reg,
		ticks:   reg.Ints.Get("game.ticks"),
		turns:   reg.Ints.Get("game.turns"),
	}
}

// Start creates a fresh game for tc, wires the move buttons and the tick
// Button1 ends player 1's move, Button2 ends player 2's
func (c *Clock) Start(tc timecontrol.TimeControl) error {
	err := c.sched.Critical(func() error {
		c.tc = tc
		c.state = NewState(tc)
		c.abort.Reset()
		c.dismissed = false

		c.flusher.Buffer().Clear()
		c.tick = c.sched.Every(c.cfg.TickPeriod, c.onTick)
		log.Printf("game %s: start %s", c.state.ID, tc)
		return c.render()
	})
	if err != nil {
		return err
	}

	clock := c.sched.Clock()
	input.Attach(c.sched, c.buttons, hardware.Button1,
		input.NewDebouncer(clock, c.cfg.Debounce, c.onTurn(false)).WithMetrics(c.reg))
	input.Attach(c.sched, c.buttons, hardware.Button2,
		input.NewDebouncer(clock, c.cfg.Debounce, c.onTurn(true)).WithMetrics(c.reg))
	return nil
}

// Play polls until a flag falls or the abort gesture fires
// Each poll redraws, checks the gesture, then samples the knob
// An abort cancels every timer and blanks the display
func (c *Clock) Play(ctx context.Context) (Outcome, error) {
	defer input.Detach(c.buttons, hardware.Button1, hardware.Button2)

	for {
		var (
			done    bool
			outcome Outcome
		)
		err := c.sched.Critical(func() error {
			if c.state.GameOver {
				done, outcome = true, OutcomeGameOver
				return nil
			}
			if err := c.render(); err != nil {
				return err
			}
			if c.abort.Triggered() {
				done, outcome = true, OutcomeAborted
				return nil
			}
			v, err := c.analog.Read()
			if err != nil {
				return fmt.Errorf("abort sample: %w", err)
			}
			c.abort.Observe(v)
			return nil
		})
		if err != nil {
			return OutcomeGameOver, err
		}

		if done {
			if outcome == OutcomeAborted {
				log.Printf("game %s: aborted", c.state.ID)
				c.sched.CancelAll()
				if err := c.flusher.Clear(); err != nil {
					return outcome, err
				}
			}
			return outcome, nil
		}

		if err := c.sched.Sleep(ctx, c.cfg.PollPeriod); err != nil {
			return OutcomeGameOver, err
		}
	}
}

// ShowResult marks the winner's row with trophies
func (c *Clock) ShowResult() error {
	return c.sched.Critical(func() error {
		buf := c.flusher.Buffer()
		winRow, loseRow := 1, 0
		if c.state.P1Wins() {
			winRow, loseRow = 0, 1
		}
		log.Printf("game %s: over, winner p%d", c.state.ID, winRow+1)

		if err := buf.Set(0, loseRow, ' '); err != nil {
			return err
		}
		if err := buf.Set(0, winRow, hardware.GlyphTrophy.Rune()); err != nil {
			return err
		}
		if err := buf.Set(parameter.DisplayCols-1, winRow, hardware.GlyphTrophy.Rune()); err != nil {
			return err
		}
		return c.flusher.Flush()
	})
}

// AwaitDismissal blocks until either button is pressed, then settles
func (c *Clock) AwaitDismissal(ctx context.Context) error {
	clock := c.sched.Clock()
	dismiss := func() error {
		c.dismissed = true
		return nil
	}
	input.Attach(c.sched, c.buttons, hardware.Button1, input.NewDebouncer(clock, c.cfg.Debounce, dismiss).WithMetrics(c.reg))
	input.Attach(c.sched, c.buttons, hardware.Button2, input.NewDebouncer(clock, c.cfg.Debounce, dismiss).WithMetrics(c.reg))
	defer input.Detach(c.buttons, hardware.Button1, hardware.Button2)

	for {
		var done bool
		c.sched.Critical(func() error {
			done = c.dismissed
			return nil
		})
		if done {
			break
		}
		if err := c.sched.Sleep(ctx, c.cfg.PollPeriod); err != nil {
			return err
		}
	}
	return c.sched.Sleep(ctx, c.cfg.DismissSettle)
}

// Snapshot returns a copy of the current game state
func (c *Clock) Snapshot() State {
	var s State
	c.sched.Critical(func() error {
		if c.state != nil {
			s = *c.state
		}
		return nil
	})
	return s
}

// TickActive reports whether the tick timer can still fire
func (c *Clock) TickActive() bool {
	var active bool
	c.sched.Critical(func() error {
		active = c.tick != nil && c.tick.Active()
		return nil
	})
	return active
}

func (c *Clock) onTick() error {
	s := c.state
	s.Tick(c.cfg.TickPeriod.Seconds())
	c.ticks.Add(1)

	if s.GameOver {
		c.tick.Stop()
		c.sounder.Alarm()
		log.Printf("game %s: flag fell %s", s.ID, s)
		return c.render()
	}
	if s.ActiveMainTime() <= parameter.LowTimeWarning {
		c.sounder.Warn()
	}
	return c.render()
}

func (c *Clock) onTurn(isP1 bool) func() error {
	return func() error {
		s := c.state
		if s.GameOver || !s.SetTurn(isP1, c.tc) {
			return nil
		}
		c.turns.Add(1)
		c.sounder.Click()
		log.Printf("game %s: turn %s", s.ID, s)
		return c.render()
	}
}

// render draws both players' rows with the pawn on the active one
//
//	"♟P1: 9:58+5     "
//	" P2: 10:00+5    "
func (c *Clock) render() error {
	buf := c.flusher.Buffer()
	s := c.state

	rows := [2]struct {
		label     string
		main, alt float64
	}{
		{" P1: ", s.P1MainTime, s.P1AltTime},
		{" P2: ", s.P2MainTime, s.P2AltTime},
	}
	for row, r := range rows {
		if err := buf.Write(r.label, 0, row); err != nil {
			return err
		}
		if err := buf.Write(fmt.Sprintf("%-11s", FormatTime(r.main, r.alt)), 5, row); err != nil {
			return err
		}
	}

	activeRow := 1
	if s.P1sTurn {
		activeRow = 0
	}
	if err := buf.Set(0, activeRow, hardware.GlyphPawn.Rune()); err != nil {
		return err
	}
	return c.flusher.Flush()
}

// FormatTime renders main seconds as m:ss and alternate seconds whole, rounded and floored at zero
func FormatTime(main, alt float64) string {
	total := int(math.Round(math.Max(main, 0)))
	return fmt.Sprintf("%d:%02d+%d", total/60, total%60, int(math.Round(math.Max(alt, 0))))
}
