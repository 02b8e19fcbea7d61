package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler owns every periodic and one-shot callback of the appliance
// Callbacks model interrupt handlers: each runs to completion under a single
// global lock, so no callback ever observes state mid-mutation by another
// The main control thread takes the same lock through Critical
type Scheduler struct {
	clock Clock

	// cb serializes callbacks and main-thread critical sections
	cb sync.Mutex

	// mu guards the timer registry and fault; never held while running callbacks
	mu     sync.Mutex
	timers map[*Timer]struct{}
	fault  error

	fired atomic.Uint64
}

// Timer is a handle to a scheduled callback
type Timer struct {
	s       *Scheduler
	period  time.Duration // 0 for one-shot
	next    time.Time     // Next deadline, drift-free for periodic timers
	fn      func() error
	handle  Stopper
	stopped atomic.Bool
}

// NewScheduler creates a scheduler driven by clock
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{
		clock:  clock,
		timers: make(map[*Timer]struct{}),
	}
}

// Clock returns the scheduler's time source
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// Every schedules fn every period, first call one period from now
func (s *Scheduler) Every(period time.Duration, fn func() error) *Timer {
	return s.schedule(period, period, fn)
}

// After schedules fn once after d
func (s *Scheduler) After(d time.Duration, fn func() error) *Timer {
	return s.schedule(d, 0, fn)
}

func (s *Scheduler) schedule(delay, period time.Duration, fn func() error) *Timer {
	t := &Timer{
		s:      s,
		period: period,
		next:   s.clock.Now().Add(delay),
		fn:     fn,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fault != nil {
		// Faulted schedulers accept no new work
		t.stopped.Store(true)
		return t
	}
	s.timers[t] = struct{}{}
	t.handle = s.clock.AfterFunc(delay, t.fire)
	return t
}

// fire runs on the clock's goroutine when the deadline passes
func (t *Timer) fire() {
	s := t.s

	s.cb.Lock()
	defer s.cb.Unlock()

	if t.stopped.Load() {
		return
	}

	if t.period == 0 {
		s.mu.Lock()
		t.stopped.Store(true)
		delete(s.timers, t)
		s.mu.Unlock()
	}

	s.fired.Add(1)
	if err := run(t.fn); err != nil {
		s.fail(err)
		return
	}

	if t.period > 0 {
		s.rearm(t)
	}
}

// rearm schedules the next periodic deadline, skipping ahead when badly behind
func (s *Scheduler) rearm(t *Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.stopped.Load() {
		return
	}

	now := s.clock.Now()
	t.next = t.next.Add(t.period)
	if now.Sub(t.next) > t.period*2 {
		t.next = now.Add(t.period)
	}

	delay := t.next.Sub(now)
	if delay < 0 {
		delay = 0
	}
	t.handle = s.clock.AfterFunc(delay, t.fire)
}

// Stop cancels the timer; no invocation starts after Stop returns
func (t *Timer) Stop() {
	s := t.s

	s.mu.Lock()
	defer s.mu.Unlock()

	t.stopped.Store(true)
	if t.handle != nil {
		t.handle.Stop()
	}
	delete(s.timers, t)
}

// Active reports whether the timer can still fire
func (t *Timer) Active() bool {
	return !t.stopped.Load()
}

// CancelAll stops every live timer
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
}

func (s *Scheduler) cancelAllLocked() {
	for t := range s.timers {
		t.stopped.Store(true)
		if t.handle != nil {
			t.handle.Stop()
		}
	}
	s.timers = make(map[*Timer]struct{})
}

// Live returns the number of timers that can still fire
func (s *Scheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Fired returns the total number of callback invocations
func (s *Scheduler) Fired() uint64 {
	return s.fired.Load()
}

// Interrupt runs an input event handler under the callback lock
// An error recorded here faults the scheduler like a timer callback error
func (s *Scheduler) Interrupt(fn func() error) {
	s.cb.Lock()
	defer s.cb.Unlock()

	if s.Err() != nil {
		return
	}
	if err := run(fn); err != nil {
		s.fail(err)
	}
}

// Critical runs main-thread code under the callback lock
func (s *Scheduler) Critical(fn func() error) error {
	s.cb.Lock()
	defer s.cb.Unlock()
	return run(fn)
}

// Sleep blocks the main thread for d and then reports any callback fault
func (s *Scheduler) Sleep(ctx context.Context, d time.Duration) error {
	if err := s.Err(); err != nil {
		return err
	}
	if err := s.clock.Sleep(ctx, d); err != nil {
		return err
	}
	return s.Err()
}

// Err returns the first fault raised by a callback, if any
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

// fail records the first fault and cancels every timer
func (s *Scheduler) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fault == nil {
		s.fault = err
	}
	s.cancelAllLocked()
}

// run invokes fn, converting a panic into an error
func run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn()
}
