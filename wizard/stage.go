package wizard

import (
	"fmt"

	"github.com/lixenwraith/chess-clock/core"
)

// Stage is one step of the configuration wizard
type Stage int

const (
	StageType Stage = iota
	StageBothMainTimes
	StageBothAltTimes
	StageSecondMainTime
	StageSecondAltTime

	stageCount
)

var stageNames = [stageCount]string{
	StageType:           "type",
	StageBothMainTimes:  "both-main-times",
	StageBothAltTimes:   "both-alt-times",
	StageSecondMainTime: "second-main-time",
	StageSecondAltTime:  "second-alt-time",
}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Next returns the following stage, wrapping after the last
func (s Stage) Next() Stage {
	return (s + 1) % stageCount
}

// stageCells are the summary cells highlighted while a stage is active
var stageCells = [stageCount][]core.Point{
	StageType:           {{X: 6, Y: 0}, {X: 7, Y: 0}, {X: 8, Y: 0}, {X: 9, Y: 0}, {X: 10, Y: 0}},
	StageBothMainTimes:  {{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 7, Y: 1}, {X: 8, Y: 1}, {X: 9, Y: 1}},
	StageBothAltTimes:   {{X: 4, Y: 1}, {X: 5, Y: 1}, {X: 11, Y: 1}, {X: 12, Y: 1}},
	StageSecondMainTime: {{X: 7, Y: 1}, {X: 8, Y: 1}, {X: 9, Y: 1}},
	StageSecondAltTime:  {{X: 11, Y: 1}, {X: 12, Y: 1}},
}

// Cells returns a copy of the stage's highlight set
func (s Stage) Cells() []core.Point {
	if s < 0 || s >= stageCount {
		return nil
	}
	return append([]core.Point(nil), stageCells[s]...)
}
