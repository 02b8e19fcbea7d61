package game

import (
	"testing"

	"github.com/lixenwraith/chess-clock/timecontrol"
)

func bonusTC(initial, alt int) timecontrol.TimeControl {
	return timecontrol.TimeControl{Kind: timecontrol.Bonus, P1InitialTime: initial, P2InitialTime: initial, P1AltTime: alt, P2AltTime: alt}
}

func delayTC(initial, alt int) timecontrol.TimeControl {
	return timecontrol.TimeControl{Kind: timecontrol.Delay, P1InitialTime: initial, P2InitialTime: initial, P1AltTime: alt, P2AltTime: alt}
}

func TestNewState(t *testing.T) {
	tc := timecontrol.TimeControl{Kind: timecontrol.Delay, P1InitialTime: 3, P2InitialTime: 7, P1AltTime: 2, P2AltTime: 9}
	s := NewState(tc)

	if !s.P1sTurn || s.GameOver {
		t.Error("Expected player 1 on the clock, game running")
	}
	if s.P1MainTime != 180 || s.P2MainTime != 420 {
		t.Errorf("Expected 180/420 seconds, got %v/%v", s.P1MainTime, s.P2MainTime)
	}
	if s.P1AltTime != 2 || s.P2AltTime != 9 {
		t.Errorf("Expected alt 2/9, got %v/%v", s.P1AltTime, s.P2AltTime)
	}
	if s.Kind != timecontrol.Delay {
		t.Errorf("Expected kind copied, got %s", s.Kind)
	}
	if NewState(tc).ID == s.ID {
		t.Error("Expected distinct session ids")
	}
}

func TestSetTurnIdempotent(t *testing.T) {
	tc := bonusTC(10, 5)
	s := NewState(tc)

	if !s.SetTurn(false, tc) {
		t.Fatal("Expected first turn change to apply")
	}
	if s.SetTurn(false, tc) {
		t.Error("Expected repeated turn change to be a no-op")
	}
	if s.P1MainTime != 605 {
		t.Errorf("Expected bonus posted once (605), got %v", s.P1MainTime)
	}
	if s.SetTurn(true, tc) == false || !s.P1sTurn {
		t.Error("Expected turn back to player 1")
	}
}

func TestBonusTurnChange(t *testing.T) {
	tests := []struct {
		name     string
		toP1     bool
		wantMain [2]float64
		wantAlt  [2]float64
	}{
		{"p1 finishes", false, [2]float64{103, 200}, [2]float64{3, 4}},
		{"p2 finishes", true, [2]float64{100, 204}, [2]float64{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := bonusTC(10, 5)
			s := &State{Kind: timecontrol.Bonus, P1sTurn: !tt.toP1, P1MainTime: 100, P2MainTime: 200, P1AltTime: 3, P2AltTime: 4}

			s.SetTurn(tt.toP1, tc)
			if got := [2]float64{s.P1MainTime, s.P2MainTime}; got != tt.wantMain {
				t.Errorf("Expected main %v, got %v", tt.wantMain, got)
			}
			if got := [2]float64{s.P1AltTime, s.P2AltTime}; got != tt.wantAlt {
				t.Errorf("Expected alt untouched %v, got %v", tt.wantAlt, got)
			}
		})
	}
}

func TestDelayTurnChange(t *testing.T) {
	tc := delayTC(10, 5)
	s := &State{Kind: timecontrol.Delay, P1sTurn: true, P1MainTime: 100, P2MainTime: 200, P1AltTime: 1.5, P2AltTime: 0}

	s.SetTurn(false, tc)
	if s.P1AltTime != 5 {
		t.Errorf("Expected player 1 delay rearmed to 5, got %v", s.P1AltTime)
	}
	if s.P2AltTime != 0 {
		t.Errorf("Expected player 2 alt untouched, got %v", s.P2AltTime)
	}
	if s.P1MainTime != 100 || s.P2MainTime != 200 {
		t.Errorf("Expected main times untouched, got %v/%v", s.P1MainTime, s.P2MainTime)
	}
}

func TestTickPolicy(t *testing.T) {
	tests := []struct {
		name     string
		kind     timecontrol.Kind
		main     float64
		alt      float64
		wantMain float64
		wantAlt  float64
		wantOver bool
	}{
		{"bonus drains main", timecontrol.Bonus, 10, 5, 9, 5, false},
		{"delay drains alt first", timecontrol.Delay, 10, 5, 10, 4, false},
		{"delay drains main when alt spent", timecontrol.Delay, 10, 0, 9, 0, false},
		{"bonus flag falls", timecontrol.Bonus, 0, 3, 0, 3, true},
		{"delay flag falls", timecontrol.Delay, 0, 0, 0, 0, true},
		{"partial main clamps", timecontrol.Bonus, 0.5, 0, 0, 0, false},
		{"partial alt clamps", timecontrol.Delay, 10, 0.25, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{Kind: tt.kind, P1sTurn: true, P1MainTime: tt.main, P1AltTime: tt.alt, P2MainTime: 77, P2AltTime: 7}
			s.Tick(1)

			if s.P1MainTime != tt.wantMain || s.P1AltTime != tt.wantAlt {
				t.Errorf("Expected %v+%v, got %v+%v", tt.wantMain, tt.wantAlt, s.P1MainTime, s.P1AltTime)
			}
			if s.GameOver != tt.wantOver {
				t.Errorf("Expected game over %t, got %t", tt.wantOver, s.GameOver)
			}
			if s.P2MainTime != 77 || s.P2AltTime != 7 {
				t.Error("Expected inactive player untouched")
			}
		})
	}
}

func TestTickAfterGameOverIsInert(t *testing.T) {
	s := &State{Kind: timecontrol.Bonus, P1sTurn: true, GameOver: true, P1MainTime: 0}
	s.Tick(1)
	if s.P1MainTime != 0 {
		t.Errorf("Expected frozen time, got %v", s.P1MainTime)
	}
}

func TestBonusFlagFallsAfter61Ticks(t *testing.T) {
	s := NewState(bonusTC(1, 0))
	for i := 0; i < 61; i++ {
		s.Tick(1)
		if s.P1MainTime < 0 {
			t.Fatalf("Tick %d: main time went negative", i+1)
		}
		if i < 60 && s.GameOver {
			t.Fatalf("Tick %d: game over too early", i+1)
		}
	}
	if s.P1MainTime > 0 || !s.GameOver {
		t.Errorf("Expected flag fallen, got %v over=%t", s.P1MainTime, s.GameOver)
	}
	if s.P1Wins() {
		t.Error("Expected player 2 to win")
	}
}

func TestDelayRearmsAfterThreeTicks(t *testing.T) {
	tc := delayTC(10, 5)
	s := NewState(tc)
	for i := 0; i < 3; i++ {
		s.Tick(1)
	}
	if s.P1AltTime != 2 {
		t.Fatalf("Expected alt 2 after 3 ticks, got %v", s.P1AltTime)
	}

	s.SetTurn(false, tc)
	if s.P1AltTime != 5 {
		t.Errorf("Expected alt reset to 5, got %v", s.P1AltTime)
	}
	if s.P1MainTime != 600 {
		t.Errorf("Expected main unchanged, got %v", s.P1MainTime)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		main, alt float64
		want      string
	}{
		{600, 5, "10:00+5"},
		{599.4, 5, "9:59+5"},
		{59.6, 0, "1:00+0"},
		{0, 2.5, "0:00+3"},
		{-1, -1, "0:00+0"},
		{10800, 30, "180:00+30"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.main, tt.alt); got != tt.want {
			t.Errorf("FormatTime(%v, %v): expected %q, got %q", tt.main, tt.alt, tt.want, got)
		}
	}
}

func TestAbortDetector(t *testing.T) {
	tests := []struct {
		name    string
		samples []uint16
		want    bool
	}{
		{"low then high", []uint16{100, 65001}, true},
		{"high then low", []uint16{65535, 0}, true},
		{"with noise between", []uint16{100, 30000, 40000, 65100}, true},
		{"high threshold is strict", []uint16{100, 65000}, false},
		{"64999 does not arm", []uint16{100, 64999}, false},
		{"low threshold is strict", []uint16{300, 65535}, false},
		{"only low", []uint16{0, 1, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a AbortDetector
			for _, v := range tt.samples {
				a.Observe(v)
			}
			if a.Triggered() != tt.want {
				t.Errorf("Expected triggered %t, got %t", tt.want, a.Triggered())
			}
		})
	}

	var a AbortDetector
	a.Observe(0)
	a.Observe(65535)
	a.Reset()
	if a.Triggered() {
		t.Error("Expected reset to clear flags")
	}
}
