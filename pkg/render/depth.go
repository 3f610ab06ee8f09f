package render

import "math"

// DepthBuffer records the largest depth written per pixel. Larger values are
// closer to the viewer. It shares the framebuffer's x + y*Width indexing.
type DepthBuffer struct {
	Width  int
	Height int
	Values []float64
}

// NewDepthBuffer creates a depth buffer initialised to negative infinity.
func NewDepthBuffer(width, height int) *DepthBuffer {
	db := &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
	db.Clear()
	return db
}

// Clear resets every entry to negative infinity.
func (db *DepthBuffer) Clear() {
	n := len(db.Values)
	if n == 0 {
		return
	}
	// copy-doubling fill
	db.Values[0] = math.Inf(-1)
	for i := 1; i < n; i *= 2 {
		copy(db.Values[i:], db.Values[:i])
	}
}

// At returns the stored depth, or negative infinity outside the buffer.
// The rasterizer goes through TestAndSet; At is for inspecting a finished
// frame.
func (db *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return math.Inf(-1)
	}
	return db.Values[x+y*db.Width]
}

// TestAndSet stores z at (x, y) if it is strictly greater than the stored
// value and reports whether it did. Coordinates outside the buffer never pass.
func (db *DepthBuffer) TestAndSet(x, y int, z float64) bool {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return false
	}
	i := x + y*db.Width
	if !(z > db.Values[i]) {
		return false
	}
	db.Values[i] = z
	return true
}
