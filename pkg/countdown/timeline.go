package countdown

import (
	"time"

	"github.com/teslashibe/go-enic/pkg/clock"
	"github.com/teslashibe/go-enic/pkg/face"
	"github.com/teslashibe/go-enic/pkg/sound"
)

// Fuse chirps are spaced randomly in [250, 600) ms.
const (
	chirpMinMs = 250
	chirpMaxMs = 600
)

// Timeline drives one countdown show. Motors are the caller's concern.
type Timeline struct {
	display face.Display
	player  sound.Player
	rng     clock.Rand

	active    bool
	start     time.Duration
	nextFrame time.Duration
	nextChirp time.Duration

	blastCued bool
	smokeCued bool

	phase    Phase
	progress uint8
}

// NewTimeline creates an idle timeline.
func NewTimeline(display face.Display, player sound.Player, rng clock.Rand) *Timeline {
	return &Timeline{display: display, player: player, rng: rng}
}

// Start begins the show at now. The first frame and chirp are due at once.
func (t *Timeline) Start(now time.Duration) {
	t.active = true
	t.start = now
	t.nextFrame = now
	t.nextChirp = now
	t.blastCued = false
	t.smokeCued = false
	t.phase, t.progress = PhaseFuse, 0
	t.play(sound.EffectSpeech, now)
}

// Stop aborts the show.
func (t *Timeline) Stop() {
	t.active = false
}

// Active reports whether a show is running.
func (t *Timeline) Active() bool { return t.active }

// Phase returns the phase of the last drawn frame.
func (t *Timeline) Phase() Phase { return t.phase }

// Progress returns the progress of the last drawn frame.
func (t *Timeline) Progress() uint8 { return t.progress }

// Elapsed returns the time since Start.
func (t *Timeline) Elapsed(now time.Duration) time.Duration {
	if !t.active {
		return 0
	}
	return now - t.start
}

// Update advances the show. It returns false once the show is over.
func (t *Timeline) Update(now time.Duration) bool {
	if !t.active {
		return false
	}

	elapsed := now - t.start
	phase, progress, finished := At(elapsed)
	if finished {
		t.active = false
		return false
	}

	if phase == PhaseFuse && clock.Reached(now, t.nextChirp) {
		t.nextChirp = now + clock.Millis(t.rng, chirpMinMs, chirpMaxMs)
		t.play(sound.EffectSpeech, now)
	}

	if !clock.Reached(now, t.nextFrame) {
		return true
	}
	t.nextFrame = now + FrameInterval
	t.phase, t.progress = phase, progress

	if t.display != nil {
		t.display.DrawCountdownScene(uint8(phase), progress, elapsed)
	}

	// One cue at the start of the blast and one as the smoke rolls in.
	if phase == PhaseBlast && progress < 15 && !t.blastCued {
		t.blastCued = true
		t.play(sound.EffectFear, now)
	}
	if phase == PhaseSmoke && progress < 10 && !t.smokeCued {
		t.smokeCued = true
		t.play(sound.EffectHappy, now)
	}
	return true
}

func (t *Timeline) play(e sound.Effect, now time.Duration) {
	if t.player != nil {
		t.player.Play(e, now)
	}
}
