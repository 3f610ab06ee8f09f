// Package models provides mesh loading and representation for softrender.
package models

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/taigrr/softrender/pkg/math3d"
)

var (
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
	// ErrMalformed is returned when a mesh file cannot be parsed or
	// references data that does not exist.
	ErrMalformed = errors.New("malformed mesh")
)

// Mesh is a triangulated mesh in normalized model space.
// It is immutable once loaded; the renderer only reads from it.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	TexCoords []math3d.Vec2 // (u, v) with v = 0 at the bottom of the texture
	Normals   []math3d.Vec3
	Faces     []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle. Winding order of V determines the sign of its normal.
// VT and VN hold -1 for corners without texture coordinates or normals.
type Face struct {
	V  [3]int
	VT [3]int
	VN [3]int
}

// NewFace returns a face with only vertex indices set.
func NewFace(v0, v1, v2 int) Face {
	return Face{
		V:  [3]int{v0, v1, v2},
		VT: [3]int{-1, -1, -1},
		VN: [3]int{-1, -1, -1},
	}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]math3d.Vec3, 0),
		Faces:     make([]Face, 0),
		BoundsMin: math3d.V3(0, 0, 0),
		BoundsMax: math3d.V3(0, 0, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// Vertex returns the model-space position of vertex i.
func (m *Mesh) Vertex(i int) math3d.Vec3 {
	return m.Vertices[i]
}

// Face returns the vertex indices of face i.
func (m *Mesh) Face(i int) [3]int {
	return m.Faces[i].V
}

// HasTexCoords reports whether every face carries texture coordinates.
func (m *Mesh) HasTexCoords() bool {
	if len(m.TexCoords) == 0 {
		return false
	}
	for _, f := range m.Faces {
		for _, vt := range f.VT {
			if vt < 0 {
				return false
			}
		}
	}
	return true
}

// UV returns the texture coordinate of one corner of a face.
// ok is false when the corner has none.
func (m *Mesh) UV(face, corner int) (uv math3d.Vec2, ok bool) {
	vt := m.Faces[face].VT[corner]
	if vt < 0 || vt >= len(m.TexCoords) {
		return math3d.Vec2{}, false
	}
	return m.TexCoords[vt], true
}

// Texel returns the texture coordinate of a face corner scaled to a
// width x height texture. Corners without coordinates map to (0, 0).
func (m *Mesh) Texel(face, corner, width, height int) math3d.Vec2i {
	uv, ok := m.UV(face, corner)
	if !ok {
		return math3d.Vec2i{}
	}
	return math3d.V2i(int(uv.X*float64(width)), int(uv.Y*float64(height)))
}

// Validate checks that every vertex is finite and every face index refers
// to existing data.
func (m *Mesh) Validate() error {
	for i, v := range m.Vertices {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return fmt.Errorf("%w: vertex %d is not finite: %v", ErrMalformed, i, v)
		}
	}
	for i, f := range m.Faces {
		for c := range 3 {
			if f.V[c] < 0 || f.V[c] >= len(m.Vertices) {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrMalformed, i, f.V[c], len(m.Vertices))
			}
			if f.VT[c] >= len(m.TexCoords) {
				return fmt.Errorf("%w: face %d references texcoord %d of %d", ErrMalformed, i, f.VT[c], len(m.TexCoords))
			}
			if f.VN[c] >= len(m.Normals) {
				return fmt.Errorf("%w: face %d references normal %d of %d", ErrMalformed, i, f.VN[c], len(m.Normals))
			}
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Load reads a mesh, choosing the parser from the file extension.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DiffuseTexturePath returns the conventional diffuse map location for a
// mesh: "head.obj" pairs with "head_diffuse.tga" in the same directory.
func DiffuseTexturePath(meshPath string) string {
	return strings.TrimSuffix(meshPath, filepath.Ext(meshPath)) + "_diffuse.tga"
}
