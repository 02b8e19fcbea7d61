package engine

import (
	"context"
	"time"
)

// Clock abstracts time for the scheduler and the main control thread
// Real hardware and the terminal simulator use RealClock; tests use FakeClock
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// AfterFunc calls f on its own goroutine (or, for fakes, synchronously
	// while time is advanced) once d has elapsed
	AfterFunc(d time.Duration, f func()) Stopper

	// Sleep blocks the caller for d, returning early with ctx.Err() on cancellation
	Sleep(ctx context.Context, d time.Duration) error
}

// Stopper cancels a pending AfterFunc; reports whether the call was prevented
type Stopper interface {
	Stop() bool
}

// RealClock provides the real system time with monotonic clock readings
type RealClock struct{}

// NewRealClock creates a clock backed by the time package
func NewRealClock() *RealClock {
	return &RealClock{}
}

// Now returns the current time with monotonic clock reading
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc
func (c *RealClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Sleep blocks for d or until ctx is done
func (c *RealClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TicksMs returns a 32-bit millisecond tick counter that wraps like a
// microcontroller's ticks_ms
func TicksMs(c Clock) uint32 {
	return uint32(c.Now().UnixMilli())
}

// TicksDiff returns a - b, correct across counter wraparound as long as the
// real distance is under 2^31 ms
func TicksDiff(a, b uint32) int32 {
	return int32(a - b)
}
