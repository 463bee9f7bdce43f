package oled

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/countdown"
	"github.com/teslashibe/go-enic/pkg/face"
)

// Face layout.
const (
	eyeLX  = 40
	eyeRX  = 88
	eyeY   = 25
	eyeR   = 8
	mouthX = 64
	mouthY = 50
)

// Renderer draws expressions, dance frames and countdown scenes into a
// working bitmap and commits each finished frame.
type Renderer struct {
	frame *Frame
	work  Bitmap
	log   *slog.Logger

	failures uint64
}

var _ face.Display = (*Renderer)(nil)

// NewRenderer draws into frame.
func NewRenderer(frame *Frame) *Renderer {
	return &Renderer{frame: frame, log: log.Component("oled")}
}

// Failures returns the number of frames a panel refused.
func (r *Renderer) Failures() uint64 {
	return r.failures
}

func (r *Renderer) commit() {
	if err := r.frame.Commit(&r.work); err != nil {
		r.failures++
		// first failure, then every 100th
		if r.failures%100 == 1 {
			r.log.Warn("display push failed", "error", err, "failures", r.failures)
		}
	}
}

// DrawExpression implements face.Display.
func (r *Renderer) DrawExpression(e face.Expression) {
	b := &r.work
	b.Clear()
	drawEyes(b, e)
	drawMouth(b, e)
	r.commit()
}

func drawEyes(b *Bitmap, e face.Expression) {
	lx, rx, y, rr := eyeLX, eyeRX, eyeY, eyeR
	switch e {
	case face.Dead:
		for _, x := range []int{lx, rx} {
			b.Line(x-6, y-6, x+6, y+6, true)
			b.Line(x+6, y-6, x-6, y+6, true)
		}
	case face.Blink:
		b.FillRect(lx-8, y, 16, 2, true)
		b.FillRect(rx-8, y, 16, 2, true)
	case face.Shock:
		b.Circle(lx, y, rr+3, true)
		b.Circle(rx, y, rr+3, true)
		b.FillCircle(lx, y, 2, true)
		b.FillCircle(rx, y, 2, true)
	case face.Tongue:
		b.FillCircle(lx, y, rr, true)
		b.FillCircle(lx+2, y-2, 2, false)
		b.FillRect(rx-8, y, 16, 3, true)
	case face.Sneaky:
		b.FillCircle(lx, y, rr, true)
		b.FillCircle(rx, y, rr, true)
		b.FillRect(lx-10, y-10, 20, 8, false)
		b.FillRect(rx-10, y-10, 20, 8, false)
	case face.Listen:
		b.FillCircle(lx, y, rr, true)
		b.FillCircle(rx, y, rr, true)
		b.FillCircle(lx+2, y-1, 3, false)
		b.FillCircle(rx+2, y-1, 3, false)
		b.Line(lx-10, y-12, lx+6, y-10, true)
		b.Line(rx-6, y-10, rx+10, y-12, true)
	case face.Fear:
		b.Circle(lx, y, rr+4, true)
		b.Circle(rx, y, rr+4, true)
		b.FillCircle(lx, y, 2, true)
		b.FillCircle(rx, y, 2, true)
		b.Line(lx-10, y-14, lx+2, y-10, true)
		b.Line(rx-2, y-10, rx+10, y-14, true)
	case face.Cry:
		b.FillCircle(lx, y, rr, true)
		b.FillCircle(rx, y, rr, true)
		b.FillCircle(lx+2, y+2, 2, false)
		b.FillCircle(rx-2, y+2, 2, false)
		b.Line(lx+6, y+6, lx+6, y+16, true)
		b.Line(rx-6, y+6, rx-6, y+16, true)
	default: // normal, speak
		b.FillCircle(lx, y, rr, true)
		b.FillCircle(rx, y, rr, true)
		b.FillCircle(lx+2, y-2, 2, false)
		b.FillCircle(rx-2, y-2, 2, false)
	}
}

func drawMouth(b *Bitmap, e face.Expression) {
	mx, my := mouthX, mouthY
	switch e {
	case face.Dead:
		b.Line(mx-10, my+5, mx+10, my-5, true)
	case face.Tongue:
		b.FillCircle(mx, my-2, 8, true)
		b.FillRect(mx-10, my-12, 20, 10, false)
		b.FillCircle(mx+2, my+5, 4, true)
		b.Line(mx+2, my+3, mx+2, my+7, false)
	case face.Shock, face.Speak:
		b.FillCircle(mx, my+2, 6, true)
	case face.Listen:
		b.FillRect(mx-8, my+2, 16, 2, true)
	case face.Fear:
		b.Circle(mx, my+3, 5, true)
	case face.Cry:
		b.Line(mx-10, my+6, mx+10, my+6, true)
		b.Line(mx-10, my+6, mx-6, my+2, true)
		b.Line(mx+10, my+6, mx+6, my+2, true)
	case face.Sneaky:
		b.FillRect(mx-10, my, 20, 2, true)
	default:
		// closed smile: lower half of a disc
		b.FillCircle(mx, my-2, 8, true)
		b.FillRect(mx-10, my-12, 20, 10, false)
	}
}

// danceLimbs holds arm and leg end points, relative to the hip, per frame.
var danceLimbs = [4][4][2]int{
	{{-15, -10}, {15, -10}, {-10, 28}, {10, 28}},
	{{-15, 5}, {15, 5}, {-12, 25}, {12, 25}},
	{{-15, 10}, {15, -15}, {-8, 28}, {8, 28}},
	{{-15, -15}, {15, 10}, {-8, 28}, {8, 28}},
}

// DrawDanceFrame implements face.Display with a stick figure.
func (r *Renderer) DrawDanceFrame(frame int) {
	b := &r.work
	b.Clear()
	b.Line(0, 60, Width-1, 60, true)
	b.Text(30, 0, "DANS MODU!", true)

	const cx, cy = 64, 30
	b.Circle(cx, cy-6, 5, true)
	b.Line(cx, cy, cx, cy+15, true)

	if frame < 0 || frame >= len(danceLimbs) {
		frame = len(danceLimbs) - 1
	}
	limbs := danceLimbs[frame]
	for i, p := range limbs {
		from := cy + 2 // shoulders
		if i >= 2 {
			from = cy + 15 // hips
		}
		b.Line(cx, from, cx+p[0], cy+p[1], true)
	}
	r.commit()
}

// DrawCountdownScene implements face.Display.
func (r *Renderer) DrawCountdownScene(phase, progress uint8, elapsed time.Duration) {
	sc := countdown.Compose(countdown.Phase(phase), progress, elapsed)
	b := &r.work
	b.Clear()

	const cx, cy = countdown.CenterX, countdown.CenterY
	b.Line(0, countdown.GroundY, Width-1, countdown.GroundY, true)

	switch sc.Phase {
	case countdown.PhaseFuse:
		b.FillCircle(cx, cy, 10, true)
		b.FillRect(cx-3, cy-18, 6, 8, true)
		b.Line(cx+5, cy-18, cx+16, cy-28, true)
		if sc.Spark {
			b.Circle(cx+18, cy-30, 2, true)
			b.Line(cx+18, cy-33, cx+18, cy-27, true)
			b.Line(cx+15, cy-30, cx+21, cy-30, true)
		}
		b.Text(0, 0, sc.Title, true)
		b.Text(0, 10, "T-"+strconv.Itoa(sc.SecondsLeft), true)

	case countdown.PhaseFlash:
		ink := true
		if sc.Flash {
			b.Fill()
			ink = false
		}
		b.Text(34, 28, sc.Title, ink)

	case countdown.PhaseBlast:
		for _, rad := range sc.Rings {
			b.Circle(cx, cy, rad, true)
		}
		for _, l := range sc.Shrapnel {
			b.Line(l.From.X, l.From.Y, l.To.X, l.To.Y, true)
		}
		b.Text(0, 0, sc.Title, true)

	case countdown.PhaseSmoke:
		for _, p := range sc.Smoke {
			b.Set(p.X, p.Y, true)
		}
		b.Circle(cx, cy, sc.SmokeRing, true)
		b.Text(0, 0, sc.Title, true)
	}
	r.commit()
}
