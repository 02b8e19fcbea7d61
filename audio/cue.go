package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/lixenwraith/chess-clock/parameter"
)

// Cue is one of the buzzer's signals
type Cue int

const (
	CueClick Cue = iota
	CueWarn
	CueAlarm
)

func (c Cue) String() string {
	switch c {
	case CueClick:
		return "click"
	case CueWarn:
		return "warn"
	case CueAlarm:
		return "alarm"
	}
	return "unknown"
}

// tone returns a sine beep of d at freq, nil when the generator rejects the frequency
func tone(rate beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil
	}
	return beep.Take(rate.N(d), sine)
}

// Build renders a cue at rate with volume as a base-2 exponent
func Build(c Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueClick:
		s = tone(rate, parameter.ClickFreq, parameter.ClickDuration)
	case CueWarn:
		s = tone(rate, parameter.WarnFreq, parameter.WarnDuration)
	case CueAlarm:
		parts := make([]beep.Streamer, 0, parameter.AlarmBeeps*2)
		for i := 0; i < parameter.AlarmBeeps; i++ {
			if i > 0 {
				parts = append(parts, beep.Silence(rate.N(parameter.AlarmGapDuration)))
			}
			t := tone(rate, parameter.AlarmFreq, parameter.AlarmBeepDuration)
			if t == nil {
				return nil
			}
			parts = append(parts, t)
		}
		s = beep.Seq(parts...)
	}
	if s == nil {
		return nil
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: volume, Silent: math.IsInf(volume, -1)}
}

// Duration returns the playing time of a cue
func Duration(c Cue) time.Duration {
	switch c {
	case CueClick:
		return parameter.ClickDuration
	case CueWarn:
		return parameter.WarnDuration
	case CueAlarm:
		return parameter.AlarmBeeps*parameter.AlarmBeepDuration + (parameter.AlarmBeeps-1)*parameter.AlarmGapDuration
	}
	return 0
}
