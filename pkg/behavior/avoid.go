package behavior

import (
	"time"

	"github.com/teslashibe/go-enic/pkg/clock"
	"github.com/teslashibe/go-enic/pkg/face"
	"github.com/teslashibe/go-enic/pkg/sound"
)

// AvoidPhase is a step of the obstacle avoidance manoeuvre.
type AvoidPhase int

const (
	AvoidStart AvoidPhase = iota
	AvoidBack
	AvoidTurn
	AvoidDone
)

func (p AvoidPhase) String() string {
	switch p {
	case AvoidStart:
		return "start"
	case AvoidBack:
		return "back"
	case AvoidTurn:
		return "turn"
	case AvoidDone:
		return "done"
	default:
		return "unknown"
	}
}

// avoidState stops, backs up and turns away. Each phase runs once its
// deadline has passed; the back and turn legs are cut short when the path
// already reads clear.
type avoidState struct {
	phase   AvoidPhase
	until   time.Duration
	turnDir int
}

func newAvoidState(rng clock.Rand, now time.Duration) *avoidState {
	dir := 1
	if clock.Between(rng, 0, 2) != 0 {
		dir = -1
	}
	return &avoidState{phase: AvoidStart, until: now, turnDir: dir}
}

func (*avoidState) mode() Mode { return ModeAvoiding }

func (s *avoidState) tick(b *Brain, now time.Duration, dist float64) {
	pathClear := dist >= b.cfg.EarlyClear

	switch s.phase {
	case AvoidStart:
		b.motors.Drive(0, 0)
		b.idle.Draw(face.Shock)
		b.play(sound.EffectFear, now)
		s.until = now + msec(b.cfg.AvoidStartMs)
		s.phase = AvoidBack

	case AvoidBack:
		if !clock.Reached(now, s.until) {
			return
		}
		b.idle.Draw(face.Sneaky)
		b.motors.Drive(-b.cfg.ReverseSpeed, -b.cfg.ReverseSpeed)
		if pathClear {
			s.until = now + msec(b.cfg.BackShortMs)
		} else {
			s.until = now + msec(b.cfg.BackLongMs)
		}
		s.phase = AvoidTurn

	case AvoidTurn:
		if !clock.Reached(now, s.until) {
			return
		}
		if s.turnDir > 0 {
			b.motors.Drive(-b.cfg.TurnSpeed, b.cfg.TurnSpeed)
		} else {
			b.motors.Drive(b.cfg.TurnSpeed, -b.cfg.TurnSpeed)
		}
		if pathClear {
			s.until = now + clock.Millis(b.rng, b.cfg.TurnShortMin, b.cfg.TurnShortMax)
		} else {
			s.until = now + clock.Millis(b.rng, b.cfg.TurnLongMin, b.cfg.TurnLongMax)
		}
		s.phase = AvoidDone

	case AvoidDone:
		if !clock.Reached(now, s.until) {
			return
		}
		b.motors.Drive(0, 0)
		b.enter(ModeAuto, now)
	}
}
