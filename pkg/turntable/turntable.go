// Package turntable animates a model spinning about its vertical axis for
// multi-frame renders.
package turntable

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

// Duration is the nominal length of an orbit in seconds. Frame timing is
// derived from it so that any frame count covers the whole ease-in.
const Duration = 2.0

// Orbit eases the yaw angle from zero to a target sweep with a critically
// damped spring, so the model accelerates away and settles without
// overshooting.
type Orbit struct {
	Yaw      float64 // radians
	velocity float64
	target   float64
	spring   harmonica.Spring
}

// NewOrbit creates an orbit advancing at fps frames per second toward
// sweep degrees of rotation.
func NewOrbit(fps int, sweep float64) *Orbit {
	return &Orbit{
		target: sweep * math.Pi / 180,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 4.0, 1.0),
	}
}

// Step advances the orbit by one frame and returns the new yaw.
func (o *Orbit) Step() float64 {
	o.Yaw, o.velocity = o.spring.Update(o.Yaw, o.velocity, o.target)
	return o.Yaw
}

// Transform returns base followed by the current yaw about +Y.
func (o *Orbit) Transform(base mgl64.Mat4) mgl64.Mat4 {
	return mgl64.HomogRotate3DY(o.Yaw).Mul4(base)
}

// FPS returns the frame rate that spreads frames over Duration.
func FPS(frames int) int {
	return max(1, int(math.Round(float64(frames)/Duration)))
}

// Transforms returns one model transform per frame. Frame 0 is base itself;
// each later frame is one spring step further around the orbit.
func Transforms(base mgl64.Mat4, frames int, sweep float64) []mgl64.Mat4 {
	if frames <= 0 {
		return nil
	}
	o := NewOrbit(FPS(frames), sweep)
	out := make([]mgl64.Mat4, frames)
	out[0] = o.Transform(base)
	for i := 1; i < frames; i++ {
		o.Step()
		out[i] = o.Transform(base)
	}
	return out
}
