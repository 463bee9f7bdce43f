// Package sim is a desktop stand-in for the robot: it shows the OLED
// framebuffer and the wheel outputs, and turns key presses into commands.
package sim

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/motor"
	"github.com/teslashibe/go-enic/pkg/oled"
	"github.com/teslashibe/go-enic/pkg/robot"
	"github.com/teslashibe/go-enic/pkg/sense"
)

// Window geometry.
const (
	Scale        = 4
	panelHeight  = 84
	WindowWidth  = oled.Width * Scale
	WindowHeight = oled.Height*Scale + panelHeight
)

var (
	pixelOn    = color.RGBA{0xd8, 0xec, 0xff, 0xff}
	pixelOff   = color.RGBA{0x05, 0x08, 0x10, 0xff}
	forwardClr = color.RGBA{0x40, 0xc0, 0x60, 0xff}
	reverseClr = color.RGBA{0xd0, 0x50, 0x40, 0xff}
	trackClr   = color.RGBA{0x30, 0x30, 0x38, 0xff}
)

// binding maps a key to a command word.
type binding struct {
	key ebiten.Key
	cmd string
}

var bindings = []binding{
	{ebiten.KeyArrowUp, "ileri"},
	{ebiten.KeyArrowDown, "geri"},
	{ebiten.KeyArrowLeft, "sol"},
	{ebiten.KeyArrowRight, "sag"},
	{ebiten.KeySpace, "dur"},
	{ebiten.KeyA, "otonom"},
	{ebiten.KeyD, "dans"},
	{ebiten.KeyB, "bomb"},
	{ebiten.KeyDigit1, "konus"},
	{ebiten.KeyDigit2, "dinle"},
	{ebiten.KeyDigit3, "sasir"},
	{ebiten.KeyDigit4, "kork"},
	{ebiten.KeyDigit5, "agla"},
	{ebiten.KeyDigit6, "dil"},
}

const helpLine = "arrows drive  space stop  A auto  D dance  B bomb  1-6 faces  +/- obstacle  esc quit"

// Game implements ebiten.Game.
type Game struct {
	ctrl     robot.Controller
	screen   *Panel
	obstacle *Range
	log      *slog.Logger

	panel *ebiten.Image
	pix   []byte
	last  string
}

// NewGame creates the simulator window contents. The control loop runs
// elsewhere; the game only submits commands, reads snapshots and shows what
// the loop displayed on screen.
func NewGame(ctrl robot.Controller, screen *Panel, obstacle *Range) *Game {
	return &Game{
		ctrl:     ctrl,
		screen:   screen,
		obstacle: obstacle,
		log:      log.Component("sim"),
		pix:      make([]byte, oled.Width*oled.Height*4),
	}
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle("ENIC simulator")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("sim: %w", err)
	}
	return nil
}

// Update handles input.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for _, b := range bindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.submit(b.cmd)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		d := g.obstacle.Nudge(NudgeStep)
		g.log.Debug("obstacle moved", "distance", d)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		d := g.obstacle.Nudge(-NudgeStep)
		g.log.Debug("obstacle moved", "distance", d)
	}
	return nil
}

func (g *Game) submit(cmd string) {
	if err := g.ctrl.Submit(cmd); err != nil {
		g.log.Warn("command not queued", "command", cmd, "error", err)
		return
	}
	g.last = cmd
}

// Draw renders the OLED and the status panel.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.panel == nil {
		g.panel = ebiten.NewImage(oled.Width, oled.Height)
	}
	g.screen.CopyPixels(g.pix)
	g.panel.WritePixels(g.pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(Scale, Scale)
	screen.DrawImage(g.panel, op)

	snap := g.ctrl.Snapshot()
	top := float32(oled.Height*Scale + 8)
	drawBar(screen, top, snap.Output.Left)
	drawBar(screen, top+14, snap.Output.Right)

	obstacle := "none"
	if d := g.obstacle.Get(); d <= sense.EchoRange {
		obstacle = fmt.Sprintf("%.0f cm", d)
	}
	status := fmt.Sprintf("mode %s  dist %.0f  obstacle %s  last %s  frames %d",
		snap.Mode, snap.Distance, obstacle, g.last, g.screen.Frames())
	ebitenutil.DebugPrintAt(screen, status, 4, int(top)+30)
	ebitenutil.DebugPrintAt(screen, helpLine, 4, int(top)+50)
}

// Layout fixes the logical screen size.
func (g *Game) Layout(int, int) (int, int) {
	return WindowWidth, WindowHeight
}

// drawBar draws one wheel output growing from the centre line.
func drawBar(screen *ebiten.Image, y float32, v int) {
	const h = 10
	half := float32(WindowWidth)/2 - 8
	mid := float32(WindowWidth) / 2

	vector.DrawFilledRect(screen, 8, y, half*2, h, trackClr, false)
	w := barWidth(v, half)
	if w >= 0 {
		vector.DrawFilledRect(screen, mid, y, w, h, forwardClr, false)
	} else {
		vector.DrawFilledRect(screen, mid+w, y, -w, h, reverseClr, false)
	}
}

// barWidth scales a signed wheel speed to a signed bar length.
func barWidth(v int, half float32) float32 {
	return float32(motor.Clamp(v)) / motor.MaxSpeed * half
}
