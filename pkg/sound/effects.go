// Package sound runs short buzzer effects as step programs, one tone per due
// tick, so playing a sound never holds up the control loop.
package sound

import "time"

// Effect identifies a step program.
type Effect int

// Built-in effects. Zero means "no sound".
const (
	EffectNone Effect = iota
	EffectFear
	EffectHappy
	EffectSpeech
	EffectDance
	EffectCry
)

// String returns the effect name.
func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectFear:
		return "fear"
	case EffectHappy:
		return "happy"
	case EffectSpeech:
		return "speech"
	case EffectDance:
		return "dance"
	case EffectCry:
		return "cry"
	default:
		return "unknown"
	}
}

// Step is one instruction of a program. When FreqMax > Freq the frequency is
// drawn from [Freq, FreqMax) each time the step plays.
type Step struct {
	Freq    int
	FreqMax int
	Volume  uint8
	Delay   time.Duration
}

// Program is an ordered list of steps. Reaching its end ends the job.
type Program []Step

func tone(freq int, vol uint8, ms int) Step {
	return Step{Freq: freq, Volume: vol, Delay: time.Duration(ms) * time.Millisecond}
}

func rest(ms int) Step {
	return tone(0, 0, ms)
}

func sweep(vol uint8, ms int, freqs ...int) Program {
	p := make(Program, 0, len(freqs))
	for _, f := range freqs {
		v := vol
		if f == 0 {
			v = 0
		}
		p = append(p, tone(f, v, ms))
	}
	return p
}

// DefaultPrograms returns the five built-in effect programs.
func DefaultPrograms() map[Effect]Program {
	return map[Effect]Program{
		EffectFear: sweep(200, 18, 2000, 1700, 1400, 1100, 900, 750, 650, 550),
		EffectHappy: {
			tone(1000, 220, 90),
			rest(35),
			tone(2000, 220, 90),
		},
		EffectSpeech: {
			{Freq: 700, FreqMax: 2600, Volume: 190, Delay: 90 * time.Millisecond},
		},
		EffectDance: {
			tone(120, 220, 70),
			rest(25),
			tone(850, 220, 55),
		},
		EffectCry: sweep(170, 90, 420, 360, 300, 360, 420, 0, 420, 360, 300, 0),
	}
}
