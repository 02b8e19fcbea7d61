package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestScheduler() (*Scheduler, *FakeClock) {
	clock := NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewScheduler(clock), clock
}

func TestSchedulerEvery(t *testing.T) {
	s, clock := newTestScheduler()
	count := 0

	timer := s.Every(time.Second, func() error {
		count++
		return nil
	})

	clock.Advance(999 * time.Millisecond)
	if count != 0 {
		t.Errorf("Expected no tick before first period, got %d", count)
	}

	clock.Advance(4001 * time.Millisecond)
	if count != 5 {
		t.Errorf("Expected 5 ticks after 5s, got %d", count)
	}
	if !timer.Active() {
		t.Error("Expected periodic timer to remain active")
	}
	if s.Fired() != 5 {
		t.Errorf("Expected Fired()=5, got %d", s.Fired())
	}
}

func TestSchedulerAfterFiresOnce(t *testing.T) {
	s, clock := newTestScheduler()
	count := 0

	timer := s.After(250*time.Millisecond, func() error {
		count++
		return nil
	})

	clock.Advance(time.Second)
	if count != 1 {
		t.Errorf("Expected one-shot to fire once, got %d", count)
	}
	if timer.Active() {
		t.Error("Expected one-shot inactive after firing")
	}
	if s.Live() != 0 {
		t.Errorf("Expected no live timers, got %d", s.Live())
	}
}

func TestSchedulerStopFromCallback(t *testing.T) {
	s, clock := newTestScheduler()
	count := 0

	var timer *Timer
	timer = s.Every(100*time.Millisecond, func() error {
		count++
		if count == 3 {
			timer.Stop()
		}
		return nil
	})

	clock.Advance(time.Second)
	if count != 3 {
		t.Errorf("Expected timer stopped after 3 calls, got %d", count)
	}
}

func TestSchedulerCancelAll(t *testing.T) {
	s, clock := newTestScheduler()
	count := 0
	inc := func() error {
		count++
		return nil
	}

	s.Every(100*time.Millisecond, inc)
	s.Every(300*time.Millisecond, inc)
	s.After(500*time.Millisecond, inc)

	if s.Live() != 3 {
		t.Fatalf("Expected 3 live timers, got %d", s.Live())
	}

	s.CancelAll()
	clock.Advance(time.Second)

	if count != 0 {
		t.Errorf("Expected no callbacks after CancelAll, got %d", count)
	}
	if s.Live() != 0 {
		t.Errorf("Expected 0 live timers, got %d", s.Live())
	}
	if clock.Pending() != 0 {
		t.Errorf("Expected clock timers released, got %d", clock.Pending())
	}
}

func TestSchedulerFaultCancelsEverything(t *testing.T) {
	s, clock := newTestScheduler()
	boom := errors.New("boom")
	others := 0

	s.Every(time.Second, func() error {
		others++
		return nil
	})
	s.After(1500*time.Millisecond, func() error {
		return boom
	})

	clock.Advance(5 * time.Second)

	if !errors.Is(s.Err(), boom) {
		t.Errorf("Expected fault %v, got %v", boom, s.Err())
	}
	if others != 1 {
		t.Errorf("Expected periodic timer to stop at fault, got %d calls", others)
	}
	if s.Live() != 0 {
		t.Errorf("Expected no live timers after fault, got %d", s.Live())
	}

	// Sleep surfaces the fault to the main thread
	if err := s.Sleep(context.Background(), time.Second); !errors.Is(err, boom) {
		t.Errorf("Expected Sleep to report fault, got %v", err)
	}

	// New work is refused
	if timer := s.After(time.Millisecond, func() error { return nil }); timer.Active() {
		t.Error("Expected faulted scheduler to refuse timers")
	}
}

func TestSchedulerPanicBecomesFault(t *testing.T) {
	s, clock := newTestScheduler()

	s.After(time.Millisecond, func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	clock.Advance(time.Second)

	err := s.Err()
	if err == nil || !strings.Contains(err.Error(), "callback panic") {
		t.Errorf("Expected panic converted to fault, got %v", err)
	}
}

func TestSchedulerInterrupt(t *testing.T) {
	s, _ := newTestScheduler()
	calls := 0

	s.Interrupt(func() error {
		calls++
		return nil
	})
	if calls != 1 {
		t.Fatalf("Expected interrupt handler to run, got %d", calls)
	}

	s.Interrupt(func() error {
		return errors.New("read failed")
	})
	s.Interrupt(func() error {
		calls++
		return nil
	})
	if calls != 1 {
		t.Errorf("Expected interrupts ignored after fault, got %d calls", calls)
	}
}

func TestSchedulerCriticalReturnsError(t *testing.T) {
	s, _ := newTestScheduler()
	boom := errors.New("boom")

	if err := s.Critical(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Expected critical error returned, got %v", err)
	}
	if s.Err() != nil {
		t.Errorf("Expected main-thread errors not to fault the scheduler, got %v", s.Err())
	}
}

func TestSchedulerDriftFree(t *testing.T) {
	s, clock := newTestScheduler()
	start := clock.Now()
	var offsets []time.Duration

	s.Every(time.Second, func() error {
		offsets = append(offsets, clock.Now().Sub(start))
		return nil
	})

	// Uneven advances must not shift deadlines
	clock.Advance(700 * time.Millisecond)
	clock.Advance(700 * time.Millisecond)
	clock.Advance(1700 * time.Millisecond)

	expected := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}
	if len(offsets) != len(expected) {
		t.Fatalf("Expected %d ticks, got %d", len(expected), len(offsets))
	}
	for i := range expected {
		if offsets[i] != expected[i] {
			t.Errorf("Tick %d: expected at %v, got %v", i, expected[i], offsets[i])
		}
	}
}
