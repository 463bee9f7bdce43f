package behavior

import (
	"log/slog"
	"strings"
	"time"

	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/clock"
	"github.com/teslashibe/go-enic/pkg/countdown"
	"github.com/teslashibe/go-enic/pkg/face"
	"github.com/teslashibe/go-enic/pkg/motor"
	"github.com/teslashibe/go-enic/pkg/sense"
	"github.com/teslashibe/go-enic/pkg/sound"
)

// Parts are the components the brain drives. Missing parts get defaults;
// Idle and Countdown are built over Display.
type Parts struct {
	Rand      clock.Rand
	Motors    *motor.Ramp
	Sensor    *sense.Filter
	Sound     *sound.Sequencer
	Display   face.Display
	Idle      *face.Idle
	Countdown *countdown.Timeline
}

// Brain is the top-level state machine. It is not safe for concurrent use;
// one goroutine owns it and feeds it commands between ticks.
type Brain struct {
	cfg       Config
	rng       clock.Rand
	motors    *motor.Ramp
	sensor    *sense.Filter
	sound     *sound.Sequencer
	display   face.Display
	idle      *face.Idle
	countdown *countdown.Timeline
	log       *slog.Logger

	state   modeState
	latched bool
	dist    float64
}

// modeState is the per-mode payload. Entering a mode installs a fresh one.
type modeState interface {
	mode() Mode
	tick(b *Brain, now time.Duration, dist float64)
}

// New creates a brain. Call Reset before the first Update.
func New(cfg Config, p Parts) *Brain {
	if p.Rand == nil {
		p.Rand = clock.NewRand(0)
	}
	if p.Idle == nil {
		p.Idle = face.NewIdle(p.Display, p.Rand, face.DefaultIdleConfig())
	}
	if p.Motors == nil {
		p.Motors = motor.NewRamp(nil)
	}
	if p.Sound == nil {
		p.Sound = sound.NewSequencer(nil, p.Rand)
	}
	if p.Countdown == nil {
		p.Countdown = countdown.NewTimeline(p.Display, p.Sound, p.Rand)
	}
	return &Brain{
		cfg:       cfg,
		rng:       p.Rand,
		motors:    p.Motors,
		sensor:    p.Sensor,
		sound:     p.Sound,
		display:   p.Display,
		idle:      p.Idle,
		countdown: p.Countdown,
		log:       log.Component("behavior"),
		state:     &idleState{},
		dist:      sense.NoEcho,
	}
}

// Reset starts over in Idle with the idle face scheduler armed.
func (b *Brain) Reset(now time.Duration) {
	b.countdown.Stop()
	b.sound.Stop()
	b.motors.Drive(0, 0)
	b.state = &idleState{}
	b.latched = false
	b.idle.Reset(now)
}

// Close stops the motors and the sound.
func (b *Brain) Close() error {
	b.countdown.Stop()
	b.sound.Stop()
	return b.motors.Stop()
}

// Mode returns the active mode.
func (b *Brain) Mode() Mode {
	return b.state.mode()
}

// HandleCommandAt applies one command word as of now, the same time the
// caller passes to the following Update. Unknown words are dropped and
// reported with false.
func (b *Brain) HandleCommandAt(text string, now time.Duration) bool {
	cmd := strings.ToLower(strings.TrimSpace(text))

	switch cmd {
	case "dur":
		b.enter(ModeIdle, now)
	case "otonom", "gez":
		b.enter(ModeAuto, now)
	case "dans":
		b.enter(ModeDance, now)
	case "bomb":
		b.enter(ModeCountdown, now)
	default:
		if ov, ok := Overrides[cmd]; ok {
			b.enter(ModeIdle, now)
			b.state.(*idleState).set(b, ov, now)
			return true
		}
		if p, ok := b.cfg.manualDrive(cmd); ok {
			b.enter(ModeManual, now)
			b.motors.Drive(p.Left, p.Right)
			return true
		}
		b.log.Debug("command dropped", "command", cmd)
		return false
	}
	return true
}

// Update runs one tick: sample the range finder, advance the tone
// sequencer and the motor ramp, then the active mode. Only motor driver
// errors are returned; they never stop the machine.
func (b *Brain) Update(now time.Duration) error {
	if b.sensor != nil {
		b.sensor.Update(now)
		b.dist = b.sensor.Distance()
	}
	b.sound.Update(now)
	err := b.motors.Update()

	b.state.tick(b, now, b.dist)
	return err
}

// enter switches modes and runs the entry actions. Re-entering the active
// mode does nothing and returns false.
func (b *Brain) enter(m Mode, now time.Duration) bool {
	prev := b.state.mode()
	if prev == m {
		return false
	}
	if prev == ModeCountdown {
		b.countdown.Stop()
	}

	switch m {
	case ModeIdle:
		b.motors.Drive(0, 0)
		b.state = &idleState{}
	case ModeManual:
		b.idle.Draw(face.Normal)
		b.state = manualState{}
	case ModeManualObstacle:
		b.motors.Drive(0, 0)
		b.idle.Draw(face.Fear)
		b.play(sound.EffectFear, now)
		b.state = manualObstacleState{}
	case ModeAuto:
		b.idle.Draw(face.Normal)
		b.play(sound.EffectHappy, now)
		b.state = &autoState{
			moving:   true,
			toggleAt: now + clock.Millis(b.rng, b.cfg.FirstMoveMin, b.cfg.FirstMoveMax),
		}
	case ModeAvoiding:
		b.state = newAvoidState(b.rng, now)
	case ModeDance:
		b.motors.Drive(0, 0)
		b.state = &danceState{last: now}
	case ModeCountdown:
		b.motors.Drive(0, 0)
		b.countdown.Start(now)
		b.state = countdownState{}
	default:
		return false
	}

	b.log.Info("mode change", "from", prev, "to", m)
	return true
}

func (b *Brain) play(e sound.Effect, now time.Duration) {
	b.sound.Play(e, now)
}

// idleState shows either a commanded override or the idle face schedule.
type idleState struct {
	override *Override
	until    time.Duration
}

func (*idleState) mode() Mode { return ModeIdle }

func (s *idleState) set(b *Brain, ov Override, now time.Duration) {
	s.override = &ov
	s.until = now + ov.Hold
	b.idle.Draw(ov.Expression)
	b.play(ov.Effect, now)
}

func (s *idleState) tick(b *Brain, now time.Duration, _ float64) {
	if s.override == nil {
		b.idle.Update(now)
		return
	}
	if clock.Reached(now, s.until) {
		s.override = nil
		b.idle.Draw(face.Normal)
	}
}

type manualState struct{}

func (manualState) mode() Mode { return ModeManual }

func (manualState) tick(b *Brain, now time.Duration, dist float64) {
	if dist < b.cfg.ManualStop {
		b.enter(ModeManualObstacle, now)
	}
}

type manualObstacleState struct{}

func (manualObstacleState) mode() Mode { return ModeManualObstacle }

func (manualObstacleState) tick(b *Brain, now time.Duration, dist float64) {
	b.motors.Drive(0, 0)
	if dist > b.cfg.ManualClear {
		b.enter(ModeIdle, now)
	}
}

// autoState alternates cruising and pausing on random timers.
type autoState struct {
	moving   bool
	toggleAt time.Duration
}

func (*autoState) mode() Mode { return ModeAuto }

func (s *autoState) tick(b *Brain, now time.Duration, dist float64) {
	if !b.latched {
		if dist < b.cfg.AutoEnter {
			b.latched = true
			b.enter(ModeAvoiding, now)
			return
		}
	} else if dist > b.cfg.AutoExit {
		b.latched = false
	}

	if now > s.toggleAt {
		s.moving = !s.moving
		if s.moving {
			s.toggleAt = now + clock.Millis(b.rng, b.cfg.MoveMin, b.cfg.MoveMax)
		} else {
			s.toggleAt = now + clock.Millis(b.rng, b.cfg.PauseMin, b.cfg.PauseMax)
			b.motors.Drive(0, 0)
		}
	}

	if s.moving {
		b.motors.Drive(b.cfg.CruiseSpeed, b.cfg.CruiseSpeed)
	} else {
		b.idle.Update(now)
	}
}

type danceState struct {
	frame int
	last  time.Duration
}

func (*danceState) mode() Mode { return ModeDance }

func (s *danceState) tick(b *Brain, now time.Duration, _ float64) {
	if now-s.last <= msec(b.cfg.DanceBeatMs) {
		return
	}
	s.last = now
	b.play(sound.EffectDance, now)
	if b.display != nil {
		b.display.DrawDanceFrame(s.frame)
	}
	s.frame++
	if s.frame >= b.cfg.DanceFrames {
		s.frame = 0
	}
}

type countdownState struct{}

func (countdownState) mode() Mode { return ModeCountdown }

func (countdownState) tick(b *Brain, now time.Duration, _ float64) {
	b.motors.Drive(0, 0)
	if !b.countdown.Update(now) {
		b.enter(ModeIdle, now)
	}
}
