package behavior

import (
	"time"

	"github.com/teslashibe/go-enic/pkg/face"
	"github.com/teslashibe/go-enic/pkg/motor"
)

// Status is a value snapshot of the brain, safe to hand to other goroutines.
type Status struct {
	Mode       Mode             `json:"mode"`
	Distance   float64          `json:"distance_cm"`
	Target     motor.Pair       `json:"target"`
	Output     motor.Pair       `json:"output"`
	Expression face.Expression  `json:"expression"`
	Override   bool             `json:"override"`
	Effect     string           `json:"effect"`
	Latched    bool             `json:"obstacle_latched"`
	Avoid      string           `json:"avoid_phase,omitempty"`
	Countdown  *CountdownStatus `json:"countdown,omitempty"`
}

// CountdownStatus describes the running countdown show.
type CountdownStatus struct {
	Phase     string `json:"phase"`
	Progress  uint8  `json:"progress"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// Status snapshots the brain at now.
func (b *Brain) Status(now time.Duration) Status {
	st := Status{
		Mode:       b.state.mode(),
		Distance:   b.dist,
		Target:     b.motors.Target(),
		Output:     b.motors.Current(),
		Expression: b.idle.Shown(),
		Effect:     b.sound.Current().String(),
		Latched:    b.latched,
	}

	switch s := b.state.(type) {
	case *idleState:
		st.Override = s.override != nil
	case *avoidState:
		st.Avoid = s.phase.String()
	case countdownState:
		st.Countdown = &CountdownStatus{
			Phase:     b.countdown.Phase().String(),
			Progress:  b.countdown.Progress(),
			ElapsedMs: b.countdown.Elapsed(now).Milliseconds(),
		}
	}
	return st
}

// Distance returns the last filtered distance in cm.
func (b *Brain) Distance() float64 {
	return b.dist
}
