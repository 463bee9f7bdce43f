// Package behavior is the robot's top-level state machine. It arbitrates
// between manual driving, autonomous wandering with obstacle avoidance,
// dancing and the countdown show, and owns expression overrides.
package behavior

import "fmt"

// Mode is the top-level behavior mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeManual
	ModeManualObstacle
	ModeAuto
	ModeAvoiding
	ModeDance
	ModeCountdown
)

var modeNames = [...]string{
	ModeIdle:           "idle",
	ModeManual:         "manual",
	ModeManualObstacle: "manual_obstacle",
	ModeAuto:           "auto",
	ModeAvoiding:       "avoiding",
	ModeDance:          "dance",
	ModeCountdown:      "countdown",
}

// String returns the mode name.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	for i, name := range modeNames {
		if name == string(text) {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("behavior: unknown mode %q", text)
}
