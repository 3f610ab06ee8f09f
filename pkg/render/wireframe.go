package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// DrawWireframe draws every edge of every face of mesh with Line. Vertices
// are transformed by m and projected like the filled path; no culling or
// depth testing is done.
func DrawWireframe(fb *Framebuffer, mesh Mesh, m mgl64.Mat4, c color.RGBA) {
	for i := range mesh.FaceCount() {
		face := mesh.Face(i)
		for j := range 3 {
			a := WorldToScreen(Apply(m, mesh.Vertex(face[j])), fb.Width, fb.Height)
			b := WorldToScreen(Apply(m, mesh.Vertex(face[(j+1)%3])), fb.Width, fb.Height)
			Line(fb, a.X, a.Y, b.X, b.Y, c)
		}
	}
}
