package motor

import (
	"sync"
)

// Recorder is a Driver that keeps every write. The simulator reads Last to
// draw motor bars; tests use Writes.
type Recorder struct {
	mu     sync.Mutex
	writes []Pair
	limit  int
}

// NewRecorder returns a Recorder keeping at most limit writes (0 = unlimited).
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Write records the pair.
func (d *Recorder) Write(left, right int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = append(d.writes, Pair{Left: left, Right: right})
	if d.limit > 0 && len(d.writes) > d.limit {
		d.writes = d.writes[len(d.writes)-d.limit:]
	}
	return nil
}

// Last returns the most recent write.
func (d *Recorder) Last() Pair {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.writes) == 0 {
		return Pair{}
	}
	return d.writes[len(d.writes)-1]
}

// Writes returns a copy of the recorded writes.
func (d *Recorder) Writes() []Pair {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Pair, len(d.writes))
	copy(out, d.writes)
	return out
}

// Bridge splits a signed speed into the forward/reverse duty pair of an
// H-bridge channel: positive drives IN1, negative drives IN2.
func Bridge(speed int) (forward, reverse uint8) {
	speed = Clamp(speed)
	if speed >= 0 {
		return uint8(speed), 0
	}
	return 0, uint8(-speed)
}
