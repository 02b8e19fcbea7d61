package store

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/chess-clock/parameter"
	"github.com/lixenwraith/chess-clock/toml"
)

// Settings is the optional appliance configuration file
type Settings struct {
	Timing TimingSettings `toml:"timing"`
	Audio  AudioSettings  `toml:"audio"`
	Store  StoreSettings  `toml:"store"`
}

// TimingSettings holds cadences in milliseconds
type TimingSettings struct {
	TickPeriodMs   int `toml:"tick_period_ms"`
	DebounceMs     int `toml:"debounce_ms"`
	SamplePeriodMs int `toml:"sample_period_ms"`
	PollPeriodMs   int `toml:"poll_period_ms"`
}

type AudioSettings struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type StoreSettings struct {
	Path string `toml:"path"`
}

// DefaultSettings returns the built-in configuration
func DefaultSettings() Settings {
	return Settings{
		Timing: TimingSettings{
			TickPeriodMs:   int(parameter.TickPeriod.Milliseconds()),
			DebounceMs:     int(parameter.DebounceInterval.Milliseconds()),
			SamplePeriodMs: int(parameter.SamplePeriod.Milliseconds()),
			PollPeriodMs:   int(parameter.PollPeriod.Milliseconds()),
		},
		Audio: AudioSettings{
			Enabled: true,
			Volume:  parameter.DefaultVolume,
		},
		Store: StoreSettings{
			Path: parameter.DefaultStorePath,
		},
	}
}

// LoadSettings reads path over the defaults; an empty path yields the defaults
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects non-positive cadences and an empty store path
func (s Settings) Validate() error {
	for _, f := range []struct {
		name string
		ms   int
	}{
		{"tick_period_ms", s.Timing.TickPeriodMs},
		{"debounce_ms", s.Timing.DebounceMs},
		{"sample_period_ms", s.Timing.SamplePeriodMs},
		{"poll_period_ms", s.Timing.PollPeriodMs},
	} {
		if f.ms <= 0 {
			return fmt.Errorf("timing.%s must be positive, got %d", f.name, f.ms)
		}
	}
	if s.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	return nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func (t TimingSettings) TickPeriod() time.Duration   { return ms(t.TickPeriodMs) }
func (t TimingSettings) Debounce() time.Duration     { return ms(t.DebounceMs) }
func (t TimingSettings) SamplePeriod() time.Duration { return ms(t.SamplePeriodMs) }
func (t TimingSettings) PollPeriod() time.Duration   { return ms(t.PollPeriodMs) }
