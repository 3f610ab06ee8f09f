package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/softrender/pkg/math3d"
)

// DefaultLightDir points along -Z, from the viewer into the scene.
var DefaultLightDir = math3d.V3(0, 0, -1)

// WorldToScreen maps a vertex in the [-1, 1] cube orthographically onto a
// width x height raster, rounding to the nearest pixel. Depth passes through.
// Coordinates are clamped to +-screenLimit so far-off vertices stay
// representable; NaN maps to -screenLimit.
func WorldToScreen(v math3d.Vec3, width, height int) ScreenPoint {
	return ScreenPoint{
		X: screenCoord((v.X+1)*float64(width)/2 + .5),
		Y: screenCoord((v.Y+1)*float64(height)/2 + .5),
		Z: v.Z,
	}
}

const screenLimit = 1 << 30

func screenCoord(f float64) int {
	switch {
	case math.IsNaN(f) || f <= -screenLimit:
		return -screenLimit
	case f >= screenLimit:
		return screenLimit
	}
	return int(f)
}

// FaceNormal returns the unit normal (v2-v0) x (v1-v0) of a triangle.
func FaceNormal(v [3]math3d.Vec3) math3d.Vec3 {
	return v[2].Sub(v[0]).Cross(v[1].Sub(v[0])).Normalize()
}

// FaceIntensity returns the Lambert term of a face for the given light
// direction. Faces with a non-positive result are facing away and should be
// culled.
func FaceIntensity(v [3]math3d.Vec3, light math3d.Vec3) float64 {
	return FaceNormal(v).Dot(light)
}

// FitTransform returns a transform that moves center to the origin and
// scales the largest component of size to span [-1, 1].
func FitTransform(center, size math3d.Vec3) mgl64.Mat4 {
	extent := max(size.X, size.Y, size.Z)
	if extent <= 0 {
		return mgl64.Ident4()
	}
	c := center
	s := 2 / extent
	return mgl64.Scale3D(s, s, s).Mul4(mgl64.Translate3D(-c.X, -c.Y, -c.Z))
}

// Apply transforms v by m, including the homogeneous divide.
func Apply(m mgl64.Mat4, v math3d.Vec3) math3d.Vec3 {
	if m == mgl64.Ident4() {
		return v
	}
	out := mgl64.TransformCoordinate(mgl64.Vec3{v.X, v.Y, v.Z}, m)
	return math3d.V3(out[0], out[1], out[2])
}
