// Package motor slews a two-channel differential drive toward its target.
//
// Mode logic sets targets as abruptly as it likes; Ramp moves the applied
// output by at most one step per tick so the gearbox and supply never see
// a full-scale reversal in a single update.
package motor

// Output limits and ramp defaults.
const (
	MaxSpeed        = 255
	DefaultRampStep = 14
	MinRampStep     = 1
	MaxRampStep     = 60
)

// Driver applies a signed duty pair to the motor bridge.
type Driver interface {
	Write(left, right int) error
}

// Pair is a left/right speed pair.
type Pair struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Ramp tracks target and applied output for both channels.
type Ramp struct {
	driver  Driver
	step    int
	target  Pair
	current Pair
}

// NewRamp creates a Ramp writing to driver with the default step.
func NewRamp(driver Driver) *Ramp {
	return &Ramp{driver: driver, step: DefaultRampStep}
}

// Clamp limits v to ±MaxSpeed.
func Clamp(v int) int {
	if v > MaxSpeed {
		return MaxSpeed
	}
	if v < -MaxSpeed {
		return -MaxSpeed
	}
	return v
}

// approach moves cur toward tgt by step without passing it.
func approach(cur, tgt, step int) int {
	if cur < tgt {
		cur += step
		if cur > tgt {
			cur = tgt
		}
	} else if cur > tgt {
		cur -= step
		if cur < tgt {
			cur = tgt
		}
	}
	return cur
}

// SetRampStep sets the per-tick step, clamped to [MinRampStep, MaxRampStep].
func (r *Ramp) SetRampStep(step int) {
	if step < MinRampStep {
		step = MinRampStep
	}
	if step > MaxRampStep {
		step = MaxRampStep
	}
	r.step = step
}

// RampStep returns the configured per-tick step.
func (r *Ramp) RampStep() int {
	return r.step
}

// Drive sets the target pair. Output follows on subsequent Update calls.
func (r *Ramp) Drive(left, right int) {
	r.target = Pair{Left: Clamp(left), Right: Clamp(right)}
}

// Stop zeroes target and output immediately, bypassing the ramp.
func (r *Ramp) Stop() error {
	r.target = Pair{}
	r.current = Pair{}
	return r.write()
}

// Update advances the output one step toward the target and writes it.
func (r *Ramp) Update() error {
	r.current.Left = approach(r.current.Left, r.target.Left, r.step)
	r.current.Right = approach(r.current.Right, r.target.Right, r.step)
	return r.write()
}

func (r *Ramp) write() error {
	if r.driver == nil {
		return nil
	}
	return r.driver.Write(Clamp(r.current.Left), Clamp(r.current.Right))
}

// Target returns the commanded pair.
func (r *Ramp) Target() Pair {
	return r.target
}

// Current returns the applied pair.
func (r *Ramp) Current() Pair {
	return r.current
}
