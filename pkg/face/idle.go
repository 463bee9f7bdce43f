package face

import (
	"time"

	"github.com/teslashibe/go-enic/pkg/clock"
)

// IdleConfig holds the idle scheduler timings. Ranges are [min, max) in ms.
type IdleConfig struct {
	BaseEveryMin   int `yaml:"base_every_min"`
	BaseEveryMax   int `yaml:"base_every_max"`
	BaseHold       int `yaml:"base_hold"`
	BaseParked     int `yaml:"base_parked"`
	FirstBlinkMin  int `yaml:"first_blink_min"`
	FirstBlinkMax  int `yaml:"first_blink_max"`
	BlinkEveryMin  int `yaml:"blink_every_min"`
	BlinkEveryMax  int `yaml:"blink_every_max"`
	BlinkLengthMin int `yaml:"blink_length_min"`
	BlinkLengthMax int `yaml:"blink_length_max"`
}

// DefaultIdleConfig returns the timings used on the robot.
func DefaultIdleConfig() IdleConfig {
	return IdleConfig{
		BaseEveryMin:   5000,
		BaseEveryMax:   7000,
		BaseHold:       2000,
		BaseParked:     999999,
		FirstBlinkMin:  400,
		FirstBlinkMax:  1400,
		BlinkEveryMin:  600,
		BlinkEveryMax:  1800,
		BlinkLengthMin: 90,
		BlinkLengthMax: 180,
	}
}

// Idle layers a blink clock over a base-expression clock. The two never write
// each other's state: a blink only decides what is drawn while it lasts.
type Idle struct {
	cfg     IdleConfig
	display Display
	rng     clock.Rand

	base       Expression
	baseUntil  time.Duration
	nextBase   time.Duration
	blinking   bool
	blinkUntil time.Duration
	nextBlink  time.Duration

	shown Expression
}

// NewIdle creates an idle scheduler. Call Reset before the first Update.
func NewIdle(display Display, rng clock.Rand, cfg IdleConfig) *Idle {
	return &Idle{cfg: cfg, display: display, rng: rng}
}

// Reset arms both clocks from now and draws the neutral face.
func (i *Idle) Reset(now time.Duration) {
	i.base = Normal
	i.baseUntil = 0
	i.nextBase = now + clock.Millis(i.rng, i.cfg.BaseEveryMin, i.cfg.BaseEveryMax)
	i.blinking = false
	i.blinkUntil = 0
	i.nextBlink = now + clock.Millis(i.rng, i.cfg.FirstBlinkMin, i.cfg.FirstBlinkMax)
	i.Draw(Normal)
}

// Draw shows e immediately. Mode logic uses this for one-shot expressions.
func (i *Idle) Draw(e Expression) {
	i.shown = e
	if i.display != nil {
		i.display.DrawExpression(e)
	}
}

// Update advances both clocks.
func (i *Idle) Update(now time.Duration) {
	// Blink over: put the base expression back.
	if i.blinking && clock.Reached(now, i.blinkUntil) {
		i.blinking = false
		i.Draw(i.base)
	}

	// Base expression held long enough: back to neutral, schedule the next.
	if i.base != Normal && clock.Reached(now, i.baseUntil) {
		i.base = Normal
		if !i.blinking {
			i.Draw(i.base)
		}
		i.nextBase = now + clock.Millis(i.rng, i.cfg.BaseEveryMin, i.cfg.BaseEveryMax)
	}

	// Time for a big expression. nextBase is parked far ahead while it shows
	// and only rescheduled above, once the expression reverts.
	if i.base == Normal && clock.Reached(now, i.nextBase) {
		i.base = i.pick()
		i.baseUntil = now + time.Duration(i.cfg.BaseHold)*time.Millisecond
		if !i.blinking {
			i.Draw(i.base)
		}
		i.nextBase = now + time.Duration(i.cfg.BaseParked)*time.Millisecond
	}

	if !i.blinking && clock.Reached(now, i.nextBlink) {
		i.blinking = true
		i.blinkUntil = now + clock.Millis(i.rng, i.cfg.BlinkLengthMin, i.cfg.BlinkLengthMax)
		i.nextBlink = now + clock.Millis(i.rng, i.cfg.BlinkEveryMin, i.cfg.BlinkEveryMax)
		i.Draw(Blink)
	}
}

// pick draws from IdleWeights.
func (i *Idle) pick() Expression {
	return PickWeighted(clock.Between(i.rng, 0, 100), IdleWeights)
}

// PickWeighted maps a roll in [0, total weight) onto the cumulative weights.
func PickWeighted(roll int, weights []Weighted) Expression {
	acc := 0
	for _, w := range weights {
		acc += w.Weight
		if roll < acc {
			return w.Expression
		}
	}
	if len(weights) == 0 {
		return Normal
	}
	return weights[len(weights)-1].Expression
}

// Shown returns the last expression drawn.
func (i *Idle) Shown() Expression {
	return i.shown
}
