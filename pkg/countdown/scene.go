package countdown

import "time"

// Scene geometry on the 128x64 panel.
const (
	Width   = 128
	Height  = 64
	CenterX = 64
	CenterY = 34
	GroundY = 60
)

// LCG is the frame-seeded generator behind the shrapnel and smoke. The same
// seed always yields the same bytes, so a frame redraws identically.
type LCG struct {
	seed uint32
}

// NewLCG seeds a generator.
func NewLCG(seed uint32) *LCG {
	return &LCG{seed: seed}
}

// FrameSeed is the seed used for the frame containing elapsed.
func FrameSeed(elapsed time.Duration) uint32 {
	return 1469598103 ^ uint32(elapsed/FrameInterval)
}

// Next advances the generator and returns bits 16..23 of the state.
func (g *LCG) Next() uint8 {
	g.seed = g.seed*1103515245 + 12345
	return uint8(g.seed >> 16)
}

// Point is a pixel position.
type Point struct {
	X, Y int
}

// Line is a segment between two pixels.
type Line struct {
	From, To Point
}

// Scene is everything a renderer needs to draw one countdown frame.
type Scene struct {
	Phase    Phase
	Progress uint8
	Title    string

	// fuse
	SecondsLeft int
	Spark       bool

	// flash
	Flash bool

	// blast
	Rings    []int
	Shrapnel []Line

	// smoke
	Smoke     []Point
	SmokeRing int
}

// Compose builds the scene for a frame. It is pure: the same arguments give
// the same scene.
func Compose(phase Phase, progress uint8, elapsed time.Duration) Scene {
	sc := Scene{Phase: phase, Progress: progress}
	rnd := NewLCG(FrameSeed(elapsed))
	p := int(progress)
	ms := elapsed.Milliseconds()

	switch phase {
	case PhaseFuse:
		sc.Title = "BOMB MODE"
		sc.SecondsLeft = max(0, 5-int(ms/1000))
		sc.Spark = (ms/250)%2 == 0

	case PhaseFlash:
		sc.Title = "!!!"
		sc.Flash = (ms/120)%2 == 0

	case PhaseBlast:
		sc.Title = "BOOOOM!"
		r := 2 + p*30/255
		sc.Rings = []int{r}
		if r > 6 {
			sc.Rings = append(sc.Rings, r-4)
		}
		if r > 10 {
			sc.Rings = append(sc.Rings, r-8)
		}
		sc.Shrapnel = make([]Line, 10)
		for i := range sc.Shrapnel {
			a := int(rnd.Next())
			sc.Shrapnel[i] = Line{
				From: Point{CenterX + a%17 - 8, CenterY + (a>>4)%17 - 8},
				To:   Point{CenterX + a%65 - 32, CenterY + (a>>2)%65 - 32},
			}
		}

	case PhaseSmoke:
		sc.Title = "SMOKE..."
		n := max(12, 60-p*45/255)
		sc.Smoke = make([]Point, n)
		for i := range sc.Smoke {
			dx := int(rnd.Next())%81 - 40
			dy := int(rnd.Next())%41 - 20
			sc.Smoke[i] = Point{
				X: clamp(CenterX+dx, 0, Width-1),
				Y: clamp(CenterY+dy, 0, GroundY-1),
			}
		}
		sc.SmokeRing = max(6, 18-p*10/255)
	}
	return sc
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
