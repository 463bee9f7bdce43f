// Package oled renders the robot's face onto a 128x64 monochrome framebuffer.
//
// The buffer uses the SSD1306 page layout (eight vertical pixels per byte),
// so it can be pushed to a panel as-is. Frame publishes finished frames to
// readers on other goroutines and to any attached tinygo Displayer.
package oled

// Panel size.
const (
	Width  = 128
	Height = 64
	pages  = Height / 8
)

// Bitmap is one monochrome frame in page layout.
type Bitmap [Width * pages]byte

// Clear turns every pixel off.
func (b *Bitmap) Clear() {
	*b = Bitmap{}
}

// Fill turns every pixel on.
func (b *Bitmap) Fill() {
	for i := range b {
		b[i] = 0xFF
	}
}

// Set sets one pixel. Out-of-range coordinates are ignored.
func (b *Bitmap) Set(x, y int, on bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	i := x + (y/8)*Width
	mask := byte(1) << (y % 8)
	if on {
		b[i] |= mask
	} else {
		b[i] &^= mask
	}
}

// Get reports whether a pixel is on. Out-of-range pixels are off.
func (b *Bitmap) Get(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return b[x+(y/8)*Width]&(1<<(y%8)) != 0
}

// Count returns the number of lit pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b {
		for ; v != 0; v &= v - 1 {
			n++
		}
	}
	return n
}
