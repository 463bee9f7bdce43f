package behavior

import "time"

// Config holds obstacle thresholds (cm), drive speeds and mode timings (ms).
type Config struct {
	AutoEnter   float64 `yaml:"auto_enter"`
	AutoExit    float64 `yaml:"auto_exit"`
	EarlyClear  float64 `yaml:"early_clear"`
	ManualStop  float64 `yaml:"manual_stop"`
	ManualClear float64 `yaml:"manual_clear"`

	CruiseSpeed  int `yaml:"cruise_speed"`
	ManualSpeed  int `yaml:"manual_speed"`
	TurnSpeed    int `yaml:"turn_speed"`
	ReverseSpeed int `yaml:"reverse_speed"`
	DanceBeatMs  int `yaml:"dance_beat_ms"`
	DanceFrames  int `yaml:"dance_frames"`
	FirstMoveMin int `yaml:"first_move_min"`
	FirstMoveMax int `yaml:"first_move_max"`
	MoveMin      int `yaml:"move_min"`
	MoveMax      int `yaml:"move_max"`
	PauseMin     int `yaml:"pause_min"`
	PauseMax     int `yaml:"pause_max"`
	AvoidStartMs int `yaml:"avoid_start_ms"`
	BackShortMs  int `yaml:"back_short_ms"`
	BackLongMs   int `yaml:"back_long_ms"`
	TurnShortMin int `yaml:"turn_short_min"`
	TurnShortMax int `yaml:"turn_short_max"`
	TurnLongMin  int `yaml:"turn_long_min"`
	TurnLongMax  int `yaml:"turn_long_max"`
}

// DefaultConfig returns the tuning used on the robot.
func DefaultConfig() Config {
	return Config{
		AutoEnter:   20,
		AutoExit:    28,
		EarlyClear:  35,
		ManualStop:  15,
		ManualClear: 25,

		CruiseSpeed:  130,
		ManualSpeed:  200,
		TurnSpeed:    180,
		ReverseSpeed: 180,
		DanceBeatMs:  250,
		DanceFrames:  4,
		FirstMoveMin: 2000,
		FirstMoveMax: 5000,
		MoveMin:      2500,
		MoveMax:      6500,
		PauseMin:     1500,
		PauseMax:     4500,
		AvoidStartMs: 250,
		BackShortMs:  220,
		BackLongMs:   480,
		TurnShortMin: 180,
		TurnShortMax: 320,
		TurnLongMin:  420,
		TurnLongMax:  780,
	}
}

func msec(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
