package sound

import (
	"time"

	"github.com/teslashibe/go-enic/pkg/clock"
)

// Sink produces tones. Tone with a zero frequency or volume is silence.
type Sink interface {
	Tone(freq int, volume uint8)
	Silence()
}

// Player is what schedulers use to trigger effects.
type Player interface {
	Play(effect Effect, now time.Duration)
}

// Sequencer holds at most one running job. Starting a new effect replaces the
// running one without queueing.
type Sequencer struct {
	sink     Sink
	rng      clock.Rand
	programs map[Effect]Program

	active  bool
	effect  Effect
	step    int
	nextDue time.Duration
	emitted uint64
}

// NewSequencer creates a sequencer over the built-in programs.
func NewSequencer(sink Sink, rng clock.Rand) *Sequencer {
	return NewSequencerWithPrograms(sink, rng, DefaultPrograms())
}

// NewSequencerWithPrograms creates a sequencer over custom programs.
func NewSequencerWithPrograms(sink Sink, rng clock.Rand, programs map[Effect]Program) *Sequencer {
	return &Sequencer{sink: sink, rng: rng, programs: programs}
}

// Play starts effect at now, replacing any running job. Unknown effects are
// ignored.
func (s *Sequencer) Play(effect Effect, now time.Duration) {
	if effect <= EffectNone {
		return
	}
	if _, ok := s.programs[effect]; !ok {
		return
	}
	s.active = true
	s.effect = effect
	s.step = 0
	s.nextDue = now
}

// Stop silences the sink and drops the job.
func (s *Sequencer) Stop() {
	if s.sink != nil {
		s.sink.Silence()
	}
	s.active = false
	s.effect = EffectNone
	s.step = 0
}

// Update emits at most one instruction if the job is due.
func (s *Sequencer) Update(now time.Duration) {
	if !s.active || !clock.Reached(now, s.nextDue) {
		return
	}

	prog := s.programs[s.effect]
	if s.step >= len(prog) {
		s.Stop()
		return
	}

	st := prog[s.step]
	s.step++

	freq := st.Freq
	if st.FreqMax > st.Freq && s.rng != nil {
		freq = clock.Between(s.rng, st.Freq, st.FreqMax)
	}
	if s.sink != nil {
		s.sink.Tone(freq, st.Volume)
	}
	s.emitted++
	s.nextDue = now + st.Delay
}

// Active reports whether a job is running.
func (s *Sequencer) Active() bool {
	return s.active
}

// Current returns the running effect, or EffectNone.
func (s *Sequencer) Current() Effect {
	if !s.active {
		return EffectNone
	}
	return s.effect
}

// Emitted returns the total number of tone instructions issued.
func (s *Sequencer) Emitted() uint64 {
	return s.emitted
}
