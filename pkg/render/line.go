package render

import (
	"image/color"
	"math/bits"
)

// Line draws a one pixel wide line from (x0, y0) to (x1, y1) inclusive using
// integer Bresenham stepping along the major axis. Only the part of the major
// axis that crosses the framebuffer is stepped; the error term is advanced
// to the first visible column so the pixels drawn match the unclipped line.
func Line(fb *Framebuffer, x0, y0, x1, y1 int, c color.RGBA) {
	steep := false
	if abs(x0-x1) < abs(y0-y1) {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
		steep = true
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	major, minor := fb.Width, fb.Height
	if steep {
		major, minor = minor, major
	}
	if x1 < 0 || x0 >= major || max(y0, y1) < 0 || min(y0, y1) >= minor {
		return
	}

	dx := x1 - x0
	dy := y1 - y0
	derror2 := abs(dy) * 2
	error2 := 0
	ystep := 1
	if y1 < y0 {
		ystep = -1
	}

	y := y0
	start := x0
	if x0 < 0 {
		k := -x0
		m := minorSteps(k, derror2, dx)
		y += m * ystep
		// Wraps on overflow, but the true value lies in (-dx, dx].
		error2 = k*derror2 - m*2*dx
		start = 0
	}
	end := min(x1, major-1)

	for x := start; x <= end; x++ {
		if steep {
			fb.SetPixel(y, x, c)
		} else {
			fb.SetPixel(x, y, c)
		}
		error2 += derror2
		if error2 > dx {
			y += ystep
			error2 -= dx * 2
		}
	}
}

// minorSteps returns how many times the Bresenham loop has stepped the minor
// axis after k major steps: floor((k*derror2 + dx - 1) / (2*dx)).
func minorSteps(k, derror2, dx int) int {
	if dx == 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(k), uint64(derror2))
	lo, carry := bits.Add64(lo, uint64(dx-1), 0)
	q, _ := bits.Div64(hi+carry, lo, uint64(2*dx))
	return int(q)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
