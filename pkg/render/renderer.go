package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/softrender/pkg/math3d"
)

// Mesh is the geometry the renderer reads. It is implemented by
// *models.Mesh; the interface keeps render free of the loader packages.
type Mesh interface {
	VertexCount() int
	FaceCount() int
	Vertex(i int) math3d.Vec3
	Face(i int) [3]int
	// Texel returns the texture coordinate of a face corner scaled to a
	// width x height texture.
	Texel(face, corner, width, height int) math3d.Vec2i
}

// FrameStats summarises one rendered frame.
type FrameStats struct {
	Faces  int // faces in the mesh
	Culled int // faces skipped for facing away from the light
	Raster RasterStats
}

// Renderer turns a mesh into a frame: each face is transformed, projected,
// lit, culled and filled.
type Renderer struct {
	Width  int
	Height int

	// Epsilon is passed to the Rasterizer.
	Epsilon float64
	// LightDir should be unit length.
	LightDir math3d.Vec3
	// Transform is applied to every vertex before projection.
	Transform  mgl64.Mat4
	Background color.RGBA

	// Wireframe draws face edges with Line instead of filling.
	Wireframe bool
	WireColor color.RGBA
}

// NewRenderer returns a renderer with the default light, tolerance and an
// identity transform.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		Width:      width,
		Height:     height,
		Epsilon:    DefaultEpsilon,
		LightDir:   DefaultLightDir,
		Transform:  mgl64.Ident4(),
		Background: ColorBlack,
		WireColor:  ColorWhite,
	}
}

// Render draws mesh into a new framebuffer with row 0 at the bottom. When tex
// is nil faces are filled with white scaled by their intensity.
func (r *Renderer) Render(mesh Mesh, tex *Texture) (*Framebuffer, FrameStats) {
	fb := NewFramebuffer(r.Width, r.Height)
	fb.Clear(r.Background)

	stats := FrameStats{Faces: mesh.FaceCount()}
	if r.Wireframe {
		DrawWireframe(fb, mesh, r.Transform, r.WireColor)
		Logger().Debug("wireframe rendered", "faces", stats.Faces)
		return fb, stats
	}

	rast := NewRasterizer(fb)
	rast.Epsilon = r.Epsilon

	var world [3]math3d.Vec3
	var screen [3]ScreenPoint
	var texels [3]math3d.Vec2i
	for i := range mesh.FaceCount() {
		face := mesh.Face(i)
		for j := range 3 {
			world[j] = Apply(r.Transform, mesh.Vertex(face[j]))
			screen[j] = WorldToScreen(world[j], r.Width, r.Height)
		}

		intensity := FaceIntensity(world, r.LightDir)
		if intensity <= 0 {
			stats.Culled++
			continue
		}

		if tex == nil {
			rast.TriangleFlat(screen, shade(ColorWhite, intensity))
			continue
		}
		for j := range 3 {
			texels[j] = mesh.Texel(i, j, tex.Width, tex.Height)
		}
		rast.TriangleTextured(screen, texels, tex, intensity)
	}

	stats.Raster = rast.Stats
	Logger().Debug("frame rendered",
		"faces", stats.Faces,
		"culled", stats.Culled,
		"degenerate", stats.Raster.Degenerate,
		"pixels", stats.Raster.Pixels,
		"depth_rejected", stats.Raster.DepthRejected)
	return fb, stats
}
