package web

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"tinygo.org/x/drivers"
)

// Mirror is a headless panel for remote viewers. Attached to the robot's
// frame it receives every displayed frame through the tinygo Displayer
// interface, and the server pushes it to /ws/frame clients as PNG.
type Mirror struct {
	mu      sync.Mutex
	back    *image.Gray
	front   *image.Gray
	changed chan struct{}
}

var _ drivers.Displayer = (*Mirror)(nil)

// NewMirror returns a dark w x h panel.
func NewMirror(w, h int16) *Mirror {
	r := image.Rect(0, 0, int(w), int(h))
	return &Mirror{
		back:    image.NewGray(r),
		front:   image.NewGray(r),
		changed: make(chan struct{}, 1),
	}
}

// Size implements drivers.Displayer.
func (m *Mirror) Size() (x, y int16) {
	b := m.back.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel implements drivers.Displayer.
func (m *Mirror) SetPixel(x, y int16, c color.RGBA) {
	var g uint8
	if c.R|c.G|c.B != 0 {
		g = 0xFF
	}
	m.mu.Lock()
	m.back.SetGray(int(x), int(y), color.Gray{Y: g})
	m.mu.Unlock()
}

// Display implements drivers.Displayer. It publishes the drawn pixels and
// flags a change; it never blocks the caller.
func (m *Mirror) Display() error {
	m.mu.Lock()
	copy(m.front.Pix, m.back.Pix)
	m.mu.Unlock()
	select {
	case m.changed <- struct{}{}:
	default:
	}
	return nil
}

// Changed fires after at least one Display since the last receive.
func (m *Mirror) Changed() <-chan struct{} {
	return m.changed
}

// WritePNG encodes the last displayed frame scaled by scale.
func (m *Mirror) WritePNG(w io.Writer, scale int) error {
	if scale < 1 {
		scale = 1
	}
	m.mu.Lock()
	b := m.front.Bounds()
	img := image.NewGray(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			img.Pix[y*img.Stride+x] = m.front.Pix[(y/scale)*m.front.Stride+x/scale]
		}
	}
	m.mu.Unlock()

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("web: encode frame: %w", err)
	}
	return nil
}
