// Package countdown runs the 30 second "bomb" show: a burning fuse, a flash,
// a growing blast and a settling cloud of smoke.
package countdown

import "time"

// Phase is a stage of the countdown show.
type Phase uint8

const (
	PhaseFuse Phase = iota
	PhaseFlash
	PhaseBlast
	PhaseSmoke
)

func (p Phase) String() string {
	switch p {
	case PhaseFuse:
		return "fuse"
	case PhaseFlash:
		return "flash"
	case PhaseBlast:
		return "blast"
	case PhaseSmoke:
		return "smoke"
	default:
		return "unknown"
	}
}

// Timeline constants.
const (
	Duration      = 30 * time.Second
	FrameInterval = 70 * time.Millisecond
)

type span struct {
	phase       Phase
	start, stop int64 // ms
}

var spans = [...]span{
	{PhaseFuse, 0, 5000},
	{PhaseFlash, 5000, 7000},
	{PhaseBlast, 7000, 12000},
	{PhaseSmoke, 12000, 30000},
}

// At maps time since start to a phase and a 0..255 progress inside it.
// finished is true from Duration on.
func At(elapsed time.Duration) (phase Phase, progress uint8, finished bool) {
	if elapsed >= Duration {
		return PhaseSmoke, 255, true
	}
	ms := elapsed.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	for _, s := range spans {
		if ms >= s.stop {
			continue
		}
		p := (ms - s.start) * 255 / (s.stop - s.start)
		if p > 255 {
			p = 255
		}
		return s.phase, uint8(p), false
	}
	return PhaseSmoke, 255, true
}
