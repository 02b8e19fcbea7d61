package engine

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestRealClockNowMonotonic(t *testing.T) {
	clock := NewRealClock()

	t1 := clock.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := clock.Now()

	if diff := t2.Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", diff)
	}
}

func TestRealClockSleepCancelled(t *testing.T) {
	clock := NewRealClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := clock.Sleep(ctx, time.Second); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Expected cancelled sleep to return immediately")
	}
}

func TestTicksDiffWraparound(t *testing.T) {
	tests := []struct {
		name string
		a, b uint32
		want int32
	}{
		{"forward", 1500, 1000, 500},
		{"backward", 1000, 1500, -500},
		{"across wrap", 100, math.MaxUint32 - 399, 500},
		{"equal", 42, 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TicksDiff(tt.a, tt.b); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)

	if !clock.Now().Equal(start) {
		t.Errorf("Expected initial time %v, got %v", start, clock.Now())
	}

	clock.Advance(90 * time.Minute)
	if expected := start.Add(90 * time.Minute); !clock.Now().Equal(expected) {
		t.Errorf("Expected %v after advance, got %v", expected, clock.Now())
	}
}

func TestFakeClockFiresInDeadlineOrder(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	var order []string
	var seenAt []time.Duration

	record := func(name string) func() {
		return func() {
			order = append(order, name)
			seenAt = append(seenAt, clock.Now().Sub(time.Unix(0, 0)))
		}
	}

	clock.AfterFunc(300*time.Millisecond, record("c"))
	clock.AfterFunc(100*time.Millisecond, record("a"))
	clock.AfterFunc(200*time.Millisecond, record("b"))
	stopped := clock.AfterFunc(150*time.Millisecond, record("x"))

	if !stopped.Stop() {
		t.Error("Expected Stop on pending timer to report true")
	}

	clock.Advance(250 * time.Millisecond)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("Expected [a b], got %v", order)
	}
	if seenAt[0] != 100*time.Millisecond || seenAt[1] != 200*time.Millisecond {
		t.Errorf("Expected callbacks to observe their deadlines, got %v", seenAt)
	}

	clock.Advance(100 * time.Millisecond)
	if len(order) != 3 || order[2] != "c" {
		t.Errorf("Expected c to fire on second advance, got %v", order)
	}
	if clock.Pending() != 0 {
		t.Errorf("Expected no pending timers, got %d", clock.Pending())
	}
}

func TestFakeClockNestedScheduling(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	count := 0

	var rearm func()
	rearm = func() {
		count++
		clock.AfterFunc(100*time.Millisecond, rearm)
	}
	clock.AfterFunc(100*time.Millisecond, rearm)

	clock.Advance(time.Second)
	if count != 10 {
		t.Errorf("Expected 10 chained callbacks within one advance, got %d", count)
	}
}

func TestFakeClockSleepHonoursContext(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := clock.Sleep(ctx, time.Second); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if !clock.Now().Equal(time.Unix(0, 0)) {
		t.Error("Expected cancelled sleep not to advance time")
	}
}
