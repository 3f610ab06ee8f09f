package render

import (
	"image/color"
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// DefaultEpsilon is both the degenerate-area threshold of Barycentric and the
// containment tolerance of the triangle fill.
const DefaultEpsilon = 1e-2

// ScreenPoint is a projected vertex: integer pixel coordinates plus depth.
type ScreenPoint struct {
	X, Y int
	Z    float64
}

// Sampler is the texture collaborator used by the textured fill.
type Sampler interface {
	At(x, y int) color.RGBA
}

// RasterStats counts work done by a Rasterizer.
type RasterStats struct {
	Triangles     int // triangles submitted
	Degenerate    int // triangles skipped for zero area
	Pixels        int // pixels written
	DepthRejected int // covered pixels that failed the depth test
}

// Rasterizer fills triangles into a framebuffer, resolving visibility with a
// depth buffer of the same size.
type Rasterizer struct {
	FB    *Framebuffer
	Depth *DepthBuffer

	// Epsilon is the degenerate-area threshold and containment tolerance.
	// Zero means DefaultEpsilon.
	Epsilon float64

	Stats RasterStats
}

// NewRasterizer creates a rasterizer drawing into fb with a fresh depth buffer.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		FB:      fb,
		Depth:   NewDepthBuffer(fb.Width, fb.Height),
		Epsilon: DefaultEpsilon,
	}
}

// ClearDepth resets the depth buffer for a new frame.
func (r *Rasterizer) ClearDepth() {
	r.Depth.Clear()
}

func (r *Rasterizer) epsilon() float64 {
	if r.Epsilon <= 0 {
		return DefaultEpsilon
	}
	return r.Epsilon
}

// Barycentric returns the coordinates (alpha, beta, gamma) of p relative to
// the triangle (a, b, c), so that p = alpha*a + beta*b + gamma*c. If twice the
// signed area of the triangle is smaller than eps in magnitude, it returns
// (-1, 1, 1), which every containment test rejects.
func Barycentric(a, b, c, p math3d.Vec2, eps float64) math3d.Vec3 {
	u := math3d.V3(c.X-a.X, b.X-a.X, a.X-p.X).Cross(math3d.V3(c.Y-a.Y, b.Y-a.Y, a.Y-p.Y))
	if math.Abs(u.Z) < eps {
		return math3d.V3(-1, 1, 1)
	}
	return math3d.V3(1-(u.X+u.Y)/u.Z, u.Y/u.Z, u.X/u.Z)
}

// TriangleTextured fills a triangle whose color comes from tex at the
// interpolated texel coordinate, scaled by intensity.
func (r *Rasterizer) TriangleTextured(pts [3]ScreenPoint, texels [3]math3d.Vec2i, tex Sampler, intensity float64) {
	t0, t1, t2 := texels[0].Vec2(), texels[1].Vec2(), texels[2].Vec2()
	r.fill(pts, func(bc math3d.Vec3) color.RGBA {
		uv := t0.Scale(bc.X).Add(t1.Scale(bc.Y)).Add(t2.Scale(bc.Z)).Round()
		return shade(tex.At(uv.X, uv.Y), intensity)
	})
}

// TriangleFlat fills a triangle with a single color.
func (r *Rasterizer) TriangleFlat(pts [3]ScreenPoint, c color.RGBA) {
	r.fill(pts, func(math3d.Vec3) color.RGBA { return c })
}

// fill walks the clamped bounding box of pts and writes every contained pixel
// that passes the depth test.
func (r *Rasterizer) fill(pts [3]ScreenPoint, colorAt func(bc math3d.Vec3) color.RGBA) {
	r.Stats.Triangles++
	eps := r.epsilon()
	w, h := r.FB.Width, r.FB.Height
	if w == 0 || h == 0 {
		return
	}

	a := math3d.V2(float64(pts[0].X), float64(pts[0].Y))
	b := math3d.V2(float64(pts[1].X), float64(pts[1].Y))
	c := math3d.V2(float64(pts[2].X), float64(pts[2].Y))

	minX := max(int(math.Floor(min(a.X, b.X, c.X))), 0)
	minY := max(int(math.Floor(min(a.Y, b.Y, c.Y))), 0)
	maxX := min(int(math.Ceil(max(a.X, b.X, c.X))), w-1)
	maxY := min(int(math.Ceil(max(a.Y, b.Y, c.Y))), h-1)

	if bc := Barycentric(a, b, c, a, eps); bc.X < 0 {
		r.Stats.Degenerate++
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := Barycentric(a, b, c, math3d.V2(float64(x), float64(y)), eps)
			if bc.X < -eps || bc.Y < -eps || bc.Z < -eps {
				continue
			}
			z := bc.X*pts[0].Z + bc.Y*pts[1].Z + bc.Z*pts[2].Z
			if !r.Depth.TestAndSet(x, y, z) {
				r.Stats.DepthRejected++
				continue
			}
			r.FB.SetPixel(x, y, colorAt(bc))
			r.Stats.Pixels++
		}
	}
}

// shade scales the color channels by intensity. The result is opaque.
func shade(c color.RGBA, intensity float64) color.RGBA {
	out := MultiplyColor(c, intensity)
	out.A = 255
	return out
}
