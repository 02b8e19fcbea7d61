package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/chess-clock/engine"
	"github.com/lixenwraith/chess-clock/hardware"
	"github.com/lixenwraith/chess-clock/status"
	"github.com/lixenwraith/chess-clock/store"
	"github.com/lixenwraith/chess-clock/timecontrol"
)

type rig struct {
	clock   *engine.FakeClock
	sched   *engine.Scheduler
	disp    *hardware.FakeDisplay
	analog  *hardware.FakeAnalog
	buttons *hardware.FakeButtons
	store   *store.MemoryStore
	reg     *status.Registry
	app     *App

	ctx    context.Context
	cancel context.CancelFunc
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		clock:   engine.NewFakeClock(time.Unix(20000, 0)),
		disp:    hardware.NewFakeDisplay(),
		analog:  hardware.NewFakeAnalog(30000),
		buttons: hardware.NewFakeButtons(),
		store:   store.NewMemoryStore(),
		reg:     status.NewRegistry(),
	}
	r.sched = engine.NewScheduler(r.clock)
	hw := Hardware{Display: r.disp, Analog: r.analog, Buttons: r.buttons}
	r.app = New(r.sched, hw, r.store, nil, DefaultConfig(), r.reg)
	r.ctx, r.cancel = context.WithCancel(context.Background())
	t.Cleanup(r.cancel)
	return r
}

// at schedules fn on the fake timeline, outside the scheduler
func (r *rig) at(d time.Duration, fn func()) {
	r.clock.AfterFunc(d, fn)
}

func (r *rig) press(d time.Duration, b hardware.Button) {
	r.at(d, func() { r.buttons.Press(b) })
}

func (r *rig) metric(key string) int64 {
	return r.reg.Ints.Get(key).Load()
}

func oneMinute() timecontrol.TimeControl {
	return timecontrol.TimeControl{Kind: timecontrol.Bonus, P1InitialTime: 1, P2InitialTime: 1}
}

func TestRunFullCycle(t *testing.T) {
	r := newRig(t)
	if err := r.store.Save(oneMinute()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	// Confirm at once; player 1 never moves and flags at ~61.5s
	r.press(100*time.Millisecond, hardware.Button2)

	var trophy, loser rune
	r.at(65*time.Second, func() {
		trophy = r.disp.Cell(0, 1)
		loser = r.disp.Cell(0, 0)
	})
	r.press(70*time.Second, hardware.Button1)
	r.at(80*time.Second, r.cancel)

	if err := r.app.Run(r.ctx); err != nil {
		t.Fatalf("Run returned %v, expected nil on cancel", err)
	}

	if trophy != hardware.GlyphTrophy.Rune() {
		t.Errorf("Expected trophy on player 2's row, got %q", trophy)
	}
	if loser != ' ' {
		t.Errorf("Expected blank marker on player 1's row, got %q", loser)
	}
	if got := r.metric("app.cycles"); got != 1 {
		t.Errorf("Expected 1 completed cycle, got %d", got)
	}
	if got := r.metric("app.aborts"); got != 0 {
		t.Errorf("Expected no aborts, got %d", got)
	}
	if got := r.metric("game.ticks"); got != 61 {
		t.Errorf("Expected 61 ticks, got %d", got)
	}
	if got := r.metric("store.saves"); got != 1 {
		t.Errorf("Expected 1 save on confirm, got %d", got)
	}
	if got := r.reg.Strings.Get("app.phase").Load(); got != "stopped" {
		t.Errorf("Expected phase stopped, got %q", got)
	}
	if got := r.sched.Live(); got != 0 {
		t.Errorf("Expected no live timers after shutdown, got %d", got)
	}
	if got := r.disp.Row(0); got != "                " {
		t.Errorf("Expected blank display after shutdown, got %q", got)
	}
}

func TestRunAbortReturnsToWizard(t *testing.T) {
	r := newRig(t)
	if err := r.store.Save(oneMinute()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	r.press(100*time.Millisecond, hardware.Button2)
	r.at(2*time.Second, func() { r.analog.Set(100) })
	r.at(3*time.Second, func() { r.analog.Set(65001) })

	var phase string
	r.at(5*time.Second, func() { phase = r.reg.Strings.Get("app.phase").Load() })
	r.at(6*time.Second, r.cancel)

	if err := r.app.Run(r.ctx); err != nil {
		t.Fatalf("Run returned %v, expected nil on cancel", err)
	}

	if got := r.metric("app.aborts"); got != 1 {
		t.Errorf("Expected 1 abort, got %d", got)
	}
	if phase != "wizard" {
		t.Errorf("Expected wizard after abort, got %q", phase)
	}
	if got := r.metric("game.ticks"); got > 3 {
		t.Errorf("Expected ticks to stop at abort, got %d", got)
	}
}

func TestRunHardwareFailureStops(t *testing.T) {
	r := newRig(t)
	if err := r.store.Save(oneMinute()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	r.press(100*time.Millisecond, hardware.Button2)
	r.at(2*time.Second, func() { r.analog.FailWith(errors.New("adc stuck")) })

	err := r.app.Run(r.ctx)
	if err == nil {
		t.Fatal("Expected error from failed analog read")
	}
	var readErr *hardware.ReadError
	if !errors.As(err, &readErr) {
		t.Errorf("Expected ReadError in chain, got %v", err)
	}
	if got := r.sched.Live(); got != 0 {
		t.Errorf("Expected every timer cancelled, got %d live", got)
	}
	if got := r.disp.Row(1); got != "                " {
		t.Errorf("Expected blank display after failure, got %q", got)
	}
}

func TestRunDisplayFailureStops(t *testing.T) {
	r := newRig(t)
	r.press(100*time.Millisecond, hardware.Button2)
	r.at(1500*time.Millisecond, func() { r.disp.FailWith(errors.New("i2c nack")) })

	if err := r.app.Run(r.ctx); err == nil {
		t.Fatal("Expected error from failed display")
	}
	if got := r.sched.Live(); got != 0 {
		t.Errorf("Expected every timer cancelled, got %d live", got)
	}
}

func TestRunWritesDefaultOnEmptyStore(t *testing.T) {
	r := newRig(t)
	r.at(time.Second, r.cancel)

	if err := r.app.Run(r.ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	tc, err := r.store.Load()
	if err != nil {
		t.Fatalf("Expected default to be stored, got %v", err)
	}
	if tc != timecontrol.Default() {
		t.Errorf("Expected default %s, got %s", timecontrol.Default(), tc)
	}
}

func TestRunSurvivesSaveFailure(t *testing.T) {
	r := newRig(t)
	r.store.FailSaves(errors.New("read-only"))

	r.press(100*time.Millisecond, hardware.Button2)
	var snap bool
	r.at(5*time.Second, func() { snap = r.reg.Strings.Get("app.phase").Load() == "game" })
	r.at(6*time.Second, r.cancel)

	if err := r.app.Run(r.ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if !snap {
		t.Error("Expected the game to start despite the failed save")
	}
	if got := r.metric("store.saves"); got != 0 {
		t.Errorf("Expected no successful saves, got %d", got)
	}
}
