package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-enic/pkg/motor"
	"github.com/teslashibe/go-enic/pkg/robot"
)

// Load reads a YAML tuning file. Keys missing from the file keep their
// defaults. An empty path returns the defaults.
func Load(path string) (robot.Config, error) {
	cfg := robot.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over cfg and validates the result.
func Parse(data []byte, cfg *robot.Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return Validate(*cfg)
}

// Validate checks that a configuration can drive the robot.
func Validate(cfg robot.Config) error {
	if cfg.TickInterval <= 0 || cfg.TickInterval > 100*time.Millisecond {
		return invalid("tick_interval %v out of (0, 100ms]", cfg.TickInterval)
	}
	if cfg.QueueSize <= 0 {
		return invalid("queue_size must be positive")
	}
	if cfg.RampStep < motor.MinRampStep || cfg.RampStep > motor.MaxRampStep {
		return invalid("ramp_step %d out of [%d, %d]", cfg.RampStep, motor.MinRampStep, motor.MaxRampStep)
	}

	b := cfg.Behavior
	if !(b.AutoEnter < b.AutoExit && b.AutoExit <= b.EarlyClear) {
		return invalid("behavior thresholds need auto_enter < auto_exit <= early_clear")
	}
	if b.ManualStop >= b.ManualClear {
		return invalid("behavior thresholds need manual_stop < manual_clear")
	}
	for name, v := range map[string]int{
		"cruise_speed":  b.CruiseSpeed,
		"manual_speed":  b.ManualSpeed,
		"turn_speed":    b.TurnSpeed,
		"reverse_speed": b.ReverseSpeed,
	} {
		if v < 0 || v > 255 {
			return invalid("behavior.%s %d out of [0, 255]", name, v)
		}
	}
	if b.DanceBeatMs <= 0 || b.DanceFrames <= 0 {
		return invalid("dance beat and frame count must be positive")
	}
	if err := ranges("behavior", []window{
		{"first_move", b.FirstMoveMin, b.FirstMoveMax},
		{"move", b.MoveMin, b.MoveMax},
		{"pause", b.PauseMin, b.PauseMax},
		{"turn_short", b.TurnShortMin, b.TurnShortMax},
		{"turn_long", b.TurnLongMin, b.TurnLongMax},
	}); err != nil {
		return err
	}

	s := cfg.Sense
	if s.Alpha <= 0 || s.Alpha > 1 {
		return invalid("sense.alpha %v out of (0, 1]", s.Alpha)
	}
	if s.MaxRange <= 0 {
		return invalid("sense.max_range must be positive")
	}
	if s.Interval <= 0 || s.SampleGap < 0 {
		return invalid("sense intervals must be positive")
	}

	i := cfg.Idle
	if i.BaseHold <= 0 {
		return invalid("idle.base_hold must be positive")
	}
	return ranges("idle", []window{
		{"base_every", i.BaseEveryMin, i.BaseEveryMax},
		{"first_blink", i.FirstBlinkMin, i.FirstBlinkMax},
		{"blink_every", i.BlinkEveryMin, i.BlinkEveryMax},
		{"blink_length", i.BlinkLengthMin, i.BlinkLengthMax},
	})
}

// window is a randomized millisecond interval.
type window struct {
	name   string
	lo, hi int
}

func ranges(section string, ws []window) error {
	for _, w := range ws {
		if w.lo <= 0 || w.hi < w.lo {
			return invalid("%s.%s window [%d, %d] is empty", section, w.name, w.lo, w.hi)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}
