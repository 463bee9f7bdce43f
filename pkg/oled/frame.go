package oled

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"tinygo.org/x/drivers"
)

var (
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	black = color.RGBA{A: 0xFF}
)

// Frame is the published framebuffer. The renderer commits whole frames;
// readers on other goroutines take copies. Frame is itself a tinygo
// Displayer, and pushes every committed frame to attached panels.
type Frame struct {
	mu      sync.RWMutex
	bm      Bitmap
	mirrors []drivers.Displayer
	count   uint64
}

var _ drivers.Displayer = (*Frame)(nil)

// NewFrame returns a blank frame.
func NewFrame() *Frame {
	return &Frame{}
}

// Attach adds a panel that receives every committed frame, and shows it
// the current one.
func (f *Frame) Attach(d drivers.Displayer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mirrors = append(f.mirrors, d)
	return f.pushTo(d)
}

// Size implements drivers.Displayer.
func (f *Frame) Size() (x, y int16) {
	return Width, Height
}

// SetPixel implements drivers.Displayer. Any non-black colour lights the pixel.
func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	f.mu.Lock()
	f.bm.Set(int(x), int(y), c.R|c.G|c.B != 0)
	f.mu.Unlock()
}

// Display implements drivers.Displayer by pushing the buffer to the
// attached panels.
func (f *Frame) Display() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return f.push()
}

// Commit replaces the buffer with b and pushes it.
func (f *Frame) Commit(b *Bitmap) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bm = *b
	f.count++
	return f.push()
}

// push copies the buffer to every mirror. Caller holds mu.
func (f *Frame) push() error {
	for _, d := range f.mirrors {
		if err := f.pushTo(d); err != nil {
			return err
		}
	}
	return nil
}

func (f *Frame) pushTo(d drivers.Displayer) error {
	w, h := d.Size()
	w, h = min(w, Width), min(h, Height)
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			if f.bm.Get(int(x), int(y)) {
				d.SetPixel(x, y, white)
			} else {
				d.SetPixel(x, y, black)
			}
		}
	}
	if err := d.Display(); err != nil {
		return fmt.Errorf("oled: push frame: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the buffer.
func (f *Frame) Snapshot() Bitmap {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bm
}

// Count returns how many frames have been displayed.
func (f *Frame) Count() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.count
}

// Image returns the buffer as a grayscale image scaled by scale.
func (f *Frame) Image(scale int) *image.Gray {
	if scale < 1 {
		scale = 1
	}
	bm := f.Snapshot()
	img := image.NewGray(image.Rect(0, 0, Width*scale, Height*scale))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if !bm.Get(x, y) {
				continue
			}
			for sy := 0; sy < scale; sy++ {
				for sx := 0; sx < scale; sx++ {
					img.SetGray(x*scale+sx, y*scale+sy, color.Gray{Y: 0xFF})
				}
			}
		}
	}
	return img
}

// WritePNG encodes the buffer as a PNG.
func (f *Frame) WritePNG(w io.Writer, scale int) error {
	if err := png.Encode(w, f.Image(scale)); err != nil {
		return fmt.Errorf("oled: encode png: %w", err)
	}
	return nil
}
