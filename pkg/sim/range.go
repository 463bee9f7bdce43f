package sim

import (
	"github.com/teslashibe/go-enic/pkg/sense"
)

// Obstacle distance limits, cm. Beyond sense.EchoRange the echo misses the
// sensor's timeout and the way reads as clear.
const (
	MinObstacle = 2.0
	MaxObstacle = 400.0
	NudgeStep   = 5.0
)

// Range is a virtual obstacle in front of the robot, moved from the
// keyboard. It implements sense.RangeFinder.
type Range struct {
	*sense.Fixed
}

// NewRange places the obstacle d cm away.
func NewRange(d float64) *Range {
	return &Range{Fixed: sense.NewFixed(clampObstacle(d))}
}

// Nudge moves the obstacle by delta cm and returns the new distance.
func (r *Range) Nudge(delta float64) float64 {
	d := clampObstacle(r.Get() + delta)
	r.Set(d)
	return d
}

// Measure implements sense.RangeFinder.
func (r *Range) Measure() (float64, error) {
	d := r.Get()
	if d > sense.EchoRange {
		return 0, sense.ErrNoEcho
	}
	return d, nil
}

func clampObstacle(d float64) float64 {
	return min(max(d, MinObstacle), MaxObstacle)
}
