// Package game implements the live two-player countdown
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lixenwraith/chess-clock/timecontrol"
)

// State is the mutable record of one game
// Times are seconds; only the active player's times count down
type State struct {
	ID         uuid.UUID
	Kind       timecontrol.Kind
	P1sTurn    bool
	P1MainTime float64
	P2MainTime float64
	P1AltTime  float64
	P2AltTime  float64
	GameOver   bool
}

// NewState creates the opening state for tc with player 1 on the clock
func NewState(tc timecontrol.TimeControl) *State {
	return &State{
		ID:         uuid.New(),
		Kind:       tc.Kind,
		P1sTurn:    true,
		P1MainTime: float64(tc.P1InitialTime) * 60,
		P2MainTime: float64(tc.P2InitialTime) * 60,
		P1AltTime:  float64(tc.P1AltTime),
		P2AltTime:  float64(tc.P2AltTime),
	}
}

// active returns pointers to the times of the player on the clock
func (s *State) active() (main, alt *float64) {
	if s.P1sTurn {
		return &s.P1MainTime, &s.P1AltTime
	}
	return &s.P2MainTime, &s.P2AltTime
}

// Tick consumes delta seconds from the active player
// Under delay the alternate time drains first; under bonus only main time drains
// A tick landing on an exhausted main time ends the game instead
func (s *State) Tick(delta float64) {
	if s.GameOver {
		return
	}
	main, alt := s.active()

	if s.Kind == timecontrol.Delay && *alt > 0 {
		*alt = max(0, *alt-delta)
		return
	}
	if *main > 0 {
		*main = max(0, *main-delta)
		return
	}
	s.GameOver = true
}

// SetTurn hands the clock to player 1 (isP1) or player 2
// The player who just finished gets the time control applied: delay rearms
// their alternate time, bonus posts it onto their main time
// Returns false when the requested turn is already active
func (s *State) SetTurn(isP1 bool, tc timecontrol.TimeControl) bool {
	if s.P1sTurn == isP1 {
		return false
	}
	s.P1sTurn = isP1

	// Finished player is now the inactive one
	if isP1 {
		switch s.Kind {
		case timecontrol.Delay:
			s.P2AltTime = float64(tc.P2AltTime)
		case timecontrol.Bonus:
			s.P2MainTime += s.P2AltTime
		}
	} else {
		switch s.Kind {
		case timecontrol.Delay:
			s.P1AltTime = float64(tc.P1AltTime)
		case timecontrol.Bonus:
			s.P1MainTime += s.P1AltTime
		}
	}
	return true
}

// ActiveMainTime returns the remaining main time of the player on the clock
func (s *State) ActiveMainTime() float64 {
	main, _ := s.active()
	return *main
}

// P1Wins reports the winner of a finished game: the player not on the clock
func (s *State) P1Wins() bool {
	return !s.P1sTurn
}

func (s *State) String() string {
	turn := "p2"
	if s.P1sTurn {
		turn = "p1"
	}
	return fmt.Sprintf("%s %s turn=%s p1=%.1f+%.1f p2=%.1f+%.1f over=%t",
		s.ID, s.Kind, turn, s.P1MainTime, s.P1AltTime, s.P2MainTime, s.P2AltTime, s.GameOver)
}
