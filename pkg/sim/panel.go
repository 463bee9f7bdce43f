package sim

import (
	"image/color"
	"sync"

	"tinygo.org/x/drivers"

	"github.com/teslashibe/go-enic/pkg/oled"
)

// Panel is the simulator's OLED. It is a tinygo Displayer: attach it to the
// robot's frame and every committed frame lands here.
type Panel struct {
	mu     sync.Mutex
	back   []byte // written by SetPixel
	front  []byte // last Display
	frames uint64
}

var _ drivers.Displayer = (*Panel)(nil)

// NewPanel returns a dark panel.
func NewPanel() *Panel {
	p := &Panel{
		back:  make([]byte, oled.Width*oled.Height*4),
		front: make([]byte, oled.Width*oled.Height*4),
	}
	for i := 0; i < oled.Width*oled.Height; i++ {
		putPixel(p.back, i, pixelOff)
		putPixel(p.front, i, pixelOff)
	}
	return p
}

// Size implements drivers.Displayer.
func (p *Panel) Size() (x, y int16) {
	return oled.Width, oled.Height
}

// SetPixel implements drivers.Displayer.
func (p *Panel) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= oled.Width || y >= oled.Height {
		return
	}
	on := pixelOff
	if c.R|c.G|c.B != 0 {
		on = pixelOn
	}
	p.mu.Lock()
	putPixel(p.back, int(y)*oled.Width+int(x), on)
	p.mu.Unlock()
}

// Display implements drivers.Displayer by publishing the drawn pixels.
func (p *Panel) Display() error {
	p.mu.Lock()
	copy(p.front, p.back)
	p.frames++
	p.mu.Unlock()
	return nil
}

// CopyPixels copies the last displayed frame, as RGBA, into dst.
func (p *Panel) CopyPixels(dst []byte) {
	p.mu.Lock()
	copy(dst, p.front)
	p.mu.Unlock()
}

// Frames returns how many frames were displayed.
func (p *Panel) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

func putPixel(dst []byte, i int, c color.RGBA) {
	o := i * 4
	dst[o], dst[o+1], dst[o+2], dst[o+3] = c.R, c.G, c.B, c.A
}
