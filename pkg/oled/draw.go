package oled

// Line draws a segment with Bresenham's algorithm.
func (b *Bitmap) Line(x0, y0, x1, y1 int, on bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		b.Set(x0, y0, on)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// HLine draws a horizontal run of w pixels.
func (b *Bitmap) HLine(x, y, w int, on bool) {
	for i := 0; i < w; i++ {
		b.Set(x+i, y, on)
	}
}

// Rect draws the outline of a w x h rectangle.
func (b *Bitmap) Rect(x, y, w, h int, on bool) {
	if w <= 0 || h <= 0 {
		return
	}
	b.HLine(x, y, w, on)
	b.HLine(x, y+h-1, w, on)
	for j := y; j < y+h; j++ {
		b.Set(x, j, on)
		b.Set(x+w-1, j, on)
	}
}

// FillRect fills a w x h rectangle.
func (b *Bitmap) FillRect(x, y, w, h int, on bool) {
	for j := y; j < y+h; j++ {
		b.HLine(x, j, w, on)
	}
}

// Circle draws a circle outline with the midpoint algorithm.
func (b *Bitmap) Circle(cx, cy, r int, on bool) {
	if r < 0 {
		return
	}
	f := 1 - r
	ddx, ddy := 1, -2*r
	x, y := 0, r

	b.Set(cx, cy+r, on)
	b.Set(cx, cy-r, on)
	b.Set(cx+r, cy, on)
	b.Set(cx-r, cy, on)

	for x < y {
		if f >= 0 {
			y--
			ddy += 2
			f += ddy
		}
		x++
		ddx += 2
		f += ddx

		b.Set(cx+x, cy+y, on)
		b.Set(cx-x, cy+y, on)
		b.Set(cx+x, cy-y, on)
		b.Set(cx-x, cy-y, on)
		b.Set(cx+y, cy+x, on)
		b.Set(cx-y, cy+x, on)
		b.Set(cx+y, cy-x, on)
		b.Set(cx-y, cy-x, on)
	}
}

// FillCircle fills a disc of radius r.
func (b *Bitmap) FillCircle(cx, cy, r int, on bool) {
	if r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		dx := isqrt(r*r - dy*dy)
		b.HLine(cx-dx, cy+dy, 2*dx+1, on)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := 0
	for (x+1)*(x+1) <= n {
		x++
	}
	return x
}
