// Package audio drives the clock's buzzer through the system speaker
package audio

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/chess-clock/parameter"
)

// Config selects whether and how loud the buzzer plays
type Config struct {
	Enabled    bool
	Volume     float64 // base-2 exponent, 0 leaves the tone unchanged
	SampleRate int
}

// DefaultConfig returns an enabled buzzer at the default volume
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Volume:     parameter.DefaultVolume,
		SampleRate: parameter.AudioSampleRate,
	}
}

// Buzzer plays cues without blocking the caller
// Before Init succeeds every cue is dropped, so a host without an audio
// device runs silent
type Buzzer struct {
	mu          sync.Mutex
	cfg         Config
	rate        beep.SampleRate
	mixer       *beep.Mixer
	out         func(beep.Streamer)
	initialized bool

	muted  atomic.Bool
	played atomic.Int64
}

// NewBuzzer creates an idle buzzer
func NewBuzzer(cfg Config) *Buzzer {
	b := &Buzzer{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		mixer: &beep.Mixer{},
	}
	b.muted.Store(!cfg.Enabled)
	return b
}

// Init opens the speaker; failure leaves the buzzer silent
func (b *Buzzer) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if err := speaker.Init(b.rate, b.rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(b.mixer)

	b.out = func(s beep.Streamer) {
		speaker.Lock()
		b.mixer.Add(s)
		speaker.Unlock()
	}
	b.initialized = true
	return nil
}

// Close silences and releases the speaker
func (b *Buzzer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	b.out = nil
	b.initialized = false
}

func (b *Buzzer) Click() { b.Play(CueClick) }
func (b *Buzzer) Warn()  { b.Play(CueWarn) }
func (b *Buzzer) Alarm() { b.Play(CueAlarm) }

// Play queues c on the mixer; reports whether it will sound
func (b *Buzzer) Play(c Cue) bool {
	if b.muted.Load() {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.out == nil {
		return false
	}
	s := Build(c, b.rate, b.cfg.Volume)
	if s == nil {
		log.Printf("audio: cannot build %s cue", c)
		return false
	}
	b.out(s)
	b.played.Add(1)
	return true
}

// ToggleMute flips muting, returns true if sound is now on
func (b *Buzzer) ToggleMute() bool {
	muted := !b.muted.Load()
	b.muted.Store(muted)
	return !muted
}

// Muted reports the mute state
func (b *Buzzer) Muted() bool {
	return b.muted.Load()
}

// Played returns the number of cues sent to the speaker
func (b *Buzzer) Played() int64 {
	return b.played.Load()
}
