// Package sense turns raw ultrasonic range readings into a smoothed distance.
package sense

import (
	"time"
)

// NoEcho is the distance reported when nothing is in range. It also seeds the
// filter so an unfed filter reads as "clear".
const NoEcho = 999.0

// RangeFinder takes one raw range measurement in centimetres. Implementations
// bound their own wait for the echo; a timeout should return ErrNoEcho.
type RangeFinder interface {
	Measure() (float64, error)
}

// Config tunes the filter.
type Config struct {
	Interval  time.Duration `yaml:"interval"`   // minimum time between sample pairs
	SampleGap time.Duration `yaml:"sample_gap"` // pause between the two samples of a pair
	Alpha     float64       `yaml:"alpha"`      // EMA weight of the new sample
	MaxRange  float64       `yaml:"max_range"`  // readings above this are discarded (cm)
}

// DefaultConfig returns the tuning used on the robot.
func DefaultConfig() Config {
	return Config{
		Interval:  80 * time.Millisecond,
		SampleGap: 200 * time.Microsecond,
		Alpha:     0.45,
		MaxRange:  400,
	}
}

// Filter is an exponential moving average over paired range samples.
type Filter struct {
	cfg    Config
	finder RangeFinder
	pause  func(time.Duration)

	ema      float64
	seeded   bool
	lastPing time.Duration
	pinged   bool
	samples  uint64
}

// NewFilter creates a filter reading from finder.
func NewFilter(finder RangeFinder, cfg Config) *Filter {
	return &Filter{
		cfg:    cfg,
		finder: finder,
		pause:  time.Sleep,
		ema:    NoEcho,
	}
}

// SetPause replaces the inter-sample pause. Tests pass a no-op.
func (f *Filter) SetPause(pause func(time.Duration)) {
	f.pause = pause
}

// Distance returns the filtered distance in centimetres.
func (f *Filter) Distance() float64 {
	return f.ema
}

// Samples returns how many sample pairs have been folded in.
func (f *Filter) Samples() uint64 {
	return f.samples
}

// Update takes a new sample pair if the filter interval has elapsed since the
// last one. It reports whether a pair was taken.
func (f *Filter) Update(now time.Duration) bool {
	if f.pinged && now-f.lastPing < f.cfg.Interval {
		return false
	}
	f.lastPing = now
	f.pinged = true

	d1 := f.read()
	if f.pause != nil && f.cfg.SampleGap > 0 {
		f.pause(f.cfg.SampleGap)
	}
	d2 := f.read()

	f.Fold((d1 + d2) * 0.5)
	return true
}

// Fold mixes one averaged sample into the EMA. The first sample seeds it.
func (f *Filter) Fold(d float64) {
	f.samples++
	if !f.seeded {
		f.ema = d
		f.seeded = true
		return
	}
	f.ema = f.cfg.Alpha*d + (1-f.cfg.Alpha)*f.ema
}

// Valid reports whether a raw reading is physically plausible.
func (f *Filter) Valid(d float64) bool {
	return d > 0 && d <= f.cfg.MaxRange
}

func (f *Filter) read() float64 {
	if f.finder == nil {
		return NoEcho
	}
	d, err := f.finder.Measure()
	if err != nil || !f.Valid(d) {
		return NoEcho
	}
	return d
}
