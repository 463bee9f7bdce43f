package countdown

import (
	"reflect"
	"testing"
	"time"

	"github.com/teslashibe/go-enic/pkg/face"
	"github.com/teslashibe/go-enic/pkg/sound"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }

type frame struct {
	phase    uint8
	progress uint8
	elapsed  time.Duration
}

type recordingDisplay struct {
	frames []frame
}

func (d *recordingDisplay) DrawExpression(face.Expression) {}
func (d *recordingDisplay) DrawDanceFrame(int)             {}
func (d *recordingDisplay) DrawCountdownScene(phase, progress uint8, elapsed time.Duration) {
	d.frames = append(d.frames, frame{phase, progress, elapsed})
}

type played struct {
	effect sound.Effect
	at     time.Duration
}

type recordingPlayer struct {
	plays []played
}

func (p *recordingPlayer) Play(e sound.Effect, now time.Duration) {
	p.plays = append(p.plays, played{e, now})
}

func (p *recordingPlayer) count(e sound.Effect) int {
	n := 0
	for _, pl := range p.plays {
		if pl.effect == e {
			n++
		}
	}
	return n
}

func TestAt_Boundaries(t *testing.T) {
	tests := []struct {
		elapsed  int
		phase    Phase
		progress uint8
		finished bool
	}{
		{0, PhaseFuse, 0, false},
		{2500, PhaseFuse, 127, false},
		{4999, PhaseFuse, 254, false},
		{5000, PhaseFlash, 0, false},
		{6999, PhaseFlash, 254, false},
		{7000, PhaseBlast, 0, false},
		{11999, PhaseBlast, 254, false},
		{12000, PhaseSmoke, 0, false},
		{29999, PhaseSmoke, 254, false},
		{30000, PhaseSmoke, 255, true},
		{45000, PhaseSmoke, 255, true},
	}
	for _, tt := range tests {
		phase, progress, finished := At(ms(tt.elapsed))
		if phase != tt.phase || progress != tt.progress || finished != tt.finished {
			t.Errorf("At(%dms) = %v/%d/%v, want %v/%d/%v", tt.elapsed,
				phase, progress, finished, tt.phase, tt.progress, tt.finished)
		}
	}
}

func TestAt_ProgressIsMonotonicWithinPhase(t *testing.T) {
	prevPhase, prev, _ := At(0)
	for e := 1; e < 30000; e++ {
		phase, progress, _ := At(ms(e))
		if phase == prevPhase && progress < prev {
			t.Fatalf("progress went backwards at %dms: %d -> %d", e, prev, progress)
		}
		prevPhase, prev = phase, progress
	}
}

func TestLCG_Sequence(t *testing.T) {
	g := NewLCG(1469598103)
	want := []uint8{13, 37, 118, 141}
	for i, w := range want {
		if got := g.Next(); got != w {
			t.Errorf("Next() #%d = %d, want %d", i, got, w)
		}
	}

	g = NewLCG(FrameSeed(ms(70)))
	if got := g.Next(); got != 71 {
		t.Errorf("frame 1 first byte = %d, want 71", got)
	}
}

func TestCompose_Reproducible(t *testing.T) {
	for _, e := range []int{800, 7140, 15000} {
		phase, progress, _ := At(ms(e))
		a := Compose(phase, progress, ms(e))
		b := Compose(phase, progress, ms(e))
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Compose at %dms not reproducible", e)
		}
	}
}

func TestCompose_Fuse(t *testing.T) {
	sc := Compose(PhaseFuse, 0, 0)
	if sc.Title != "BOMB MODE" || sc.SecondsLeft != 5 || !sc.Spark {
		t.Errorf("scene at 0 = %+v", sc)
	}
	sc = Compose(PhaseFuse, 229, ms(4500))
	if sc.SecondsLeft != 1 {
		t.Errorf("SecondsLeft at 4.5s = %d, want 1", sc.SecondsLeft)
	}
	if Compose(PhaseFuse, 12, ms(250)).Spark {
		t.Error("spark should be off at 250ms")
	}
}

func TestCompose_Flash(t *testing.T) {
	if !Compose(PhaseFlash, 0, ms(5040)).Flash {
		t.Error("flash should be on at 5040ms")
	}
	if Compose(PhaseFlash, 0, ms(5160)).Flash {
		t.Error("flash should be off at 5160ms")
	}
}

func TestCompose_BlastRings(t *testing.T) {
	sc := Compose(PhaseBlast, 0, ms(7000))
	if !reflect.DeepEqual(sc.Rings, []int{2}) {
		t.Errorf("rings at progress 0 = %v", sc.Rings)
	}
	sc = Compose(PhaseBlast, 255, ms(11990))
	if !reflect.DeepEqual(sc.Rings, []int{32, 28, 24}) {
		t.Errorf("rings at progress 255 = %v", sc.Rings)
	}
	if len(sc.Shrapnel) != 10 {
		t.Errorf("len(Shrapnel) = %d, want 10", len(sc.Shrapnel))
	}
}

func TestCompose_ShrapnelFromFrameSeed(t *testing.T) {
	// 7000ms is frame 100; its first byte is 81.
	sc := Compose(PhaseBlast, 0, ms(7000))
	want := Line{From: Point{69, 31}, To: Point{48, 22}}
	if sc.Shrapnel[0] != want {
		t.Errorf("Shrapnel[0] = %+v, want %+v", sc.Shrapnel[0], want)
	}
}

func TestCompose_Smoke(t *testing.T) {
	sc := Compose(PhaseSmoke, 0, ms(12000))
	if len(sc.Smoke) != 60 || sc.SmokeRing != 18 {
		t.Errorf("progress 0: %d points, ring %d", len(sc.Smoke), sc.SmokeRing)
	}
	sc = Compose(PhaseSmoke, 255, ms(29990))
	if len(sc.Smoke) != 15 || sc.SmokeRing != 8 {
		t.Errorf("progress 255: %d points, ring %d", len(sc.Smoke), sc.SmokeRing)
	}
	for _, p := range sc.Smoke {
		if p.X < 0 || p.X >= Width || p.Y < 0 || p.Y >= GroundY {
			t.Fatalf("smoke point out of field: %+v", p)
		}
	}
}

func TestTimeline_StartChirpsAndDrawsAtOnce(t *testing.T) {
	d := &recordingDisplay{}
	p := &recordingPlayer{}
	tl := NewTimeline(d, p, zeroRand{})

	tl.Start(ms(1000))
	if !tl.Active() {
		t.Fatal("timeline not active after Start")
	}
	if len(p.plays) != 1 || p.plays[0].effect != sound.EffectSpeech {
		t.Fatalf("plays after Start = %v", p.plays)
	}
	if !tl.Update(ms(1000)) {
		t.Fatal("Update returned false at start")
	}
	if len(d.frames) != 1 || d.frames[0].elapsed != 0 {
		t.Errorf("frames = %v", d.frames)
	}
}

func TestTimeline_FrameThrottle(t *testing.T) {
	d := &recordingDisplay{}
	tl := NewTimeline(d, &recordingPlayer{}, zeroRand{})
	tl.Start(0)
	for e := 0; e < 70; e += 10 {
		tl.Update(ms(e))
	}
	if len(d.frames) != 1 {
		t.Fatalf("frames in first 70ms = %d, want 1", len(d.frames))
	}
	tl.Update(ms(70))
	if len(d.frames) != 2 {
		t.Fatalf("frames at 70ms = %d, want 2", len(d.frames))
	}
}

func TestTimeline_ChirpsOnlyDuringFuse(t *testing.T) {
	p := &recordingPlayer{}
	tl := NewTimeline(&recordingDisplay{}, p, zeroRand{})
	tl.Start(0)
	for e := 0; e < 30000; e += 10 {
		tl.Update(ms(e))
	}
	for _, pl := range p.plays {
		if pl.effect == sound.EffectSpeech && pl.at >= ms(5000) {
			t.Fatalf("chirp at %v, after the fuse", pl.at)
		}
	}
	// Start plus one chirp every 250ms from 0 through 4750.
	if got := p.count(sound.EffectSpeech); got != 21 {
		t.Errorf("chirps = %d, want 21", got)
	}
}

func TestTimeline_CuesFireOnce(t *testing.T) {
	p := &recordingPlayer{}
	tl := NewTimeline(&recordingDisplay{}, p, zeroRand{})
	tl.Start(0)
	for e := 0; e < 30000; e += 10 {
		tl.Update(ms(e))
	}
	if got := p.count(sound.EffectFear); got != 1 {
		t.Errorf("blast cue played %d times, want 1", got)
	}
	if got := p.count(sound.EffectHappy); got != 1 {
		t.Errorf("smoke cue played %d times, want 1", got)
	}
}

func TestTimeline_Finishes(t *testing.T) {
	d := &recordingDisplay{}
	tl := NewTimeline(d, &recordingPlayer{}, zeroRand{})
	tl.Start(ms(500))
	if !tl.Update(ms(30499)) {
		t.Fatal("finished early")
	}
	n := len(d.frames)
	if tl.Update(ms(30500)) {
		t.Fatal("still running at 30s")
	}
	if tl.Active() {
		t.Error("still active after finishing")
	}
	if len(d.frames) != n {
		t.Error("drew a frame after finishing")
	}
	if tl.Update(ms(31000)) {
		t.Error("Update after finish returned true")
	}
}
