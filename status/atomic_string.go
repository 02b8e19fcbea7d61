package status

import (
	"sync/atomic"
	"unicode/utf8"
)

// MaxStringLen bounds string metrics so a status line stays one row
const MaxStringLen = 36

// AtomicString is a string metric; the zero value holds ""
type AtomicString struct {
	v atomic.Value
}

// Store replaces the value, cut to MaxStringLen bytes on a rune boundary
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		cut := MaxStringLen
		for cut > 0 && !utf8.RuneStart(val[cut]) {
			cut--
		}
		val = val[:cut]
	}
	s.v.Store(val)
}

func (s *AtomicString) Load() string {
	val, _ := s.v.Load().(string)
	return val
}
