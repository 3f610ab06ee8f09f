package models

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softrender/pkg/math3d"
)

// LoadGLTF loads a GLTF or GLB file. All triangle primitives of all meshes
// are merged into one Mesh.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return meshFromDocument(doc, filepath.Base(path))
}

// LoadGLTFWithTexture loads a GLTF/GLB file and decodes the first image it
// carries, embedded or referenced by URI. The image is nil when there is
// none; an image that is present but cannot be decoded is an error.
func LoadGLTFWithTexture(path string) (*Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := meshFromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	for i, img := range doc.Images {
		data := imageBytes(doc, img, filepath.Dir(path))
		if len(data) == 0 {
			continue
		}
		decoded, err := decodeImage(data, img.MimeType)
		if err != nil {
			return nil, nil, fmt.Errorf("decode image %d: %w", i, err)
		}
		return mesh, decoded, nil
	}

	return mesh, nil, nil
}

func meshFromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%w: no triangle primitives", ErrMalformed)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh. GLTF winding is
// counter-clockwise for front faces, the same as OBJ, so indices are kept.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readPositions(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readNormals(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readTexCoords(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		baseVertex := len(mesh.Vertices)
		baseUV := len(mesh.TexCoords)
		baseNormal := len(mesh.Normals)
		hasUV := len(uvs) == len(positions)
		hasNormals := len(normals) == len(positions)

		mesh.Vertices = append(mesh.Vertices, positions...)
		if hasUV {
			for _, uv := range uvs {
				// GLTF puts V=0 at the top of the image
				mesh.TexCoords = append(mesh.TexCoords, math3d.V2(uv.X, 1.0-uv.Y))
			}
		}
		if hasNormals {
			mesh.Normals = append(mesh.Normals, normals...)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			f := NewFace(baseVertex+indices[i], baseVertex+indices[i+1], baseVertex+indices[i+2])
			for c := range 3 {
				if hasUV {
					f.VT[c] = baseUV + indices[i+c]
				}
				if hasNormals {
					f.VN[c] = baseNormal + indices[i+c]
				}
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// readPositions reads a VEC3 float accessor.
func readPositions(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return toVec3(data), nil
}

// readNormals reads a VEC3 float accessor holding normals.
func readNormals(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadNormal(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return toVec3(data), nil
}

// readTexCoords reads a VEC2 accessor. Normalized integer components are
// converted to [0, 1] by the modeler.
func readTexCoords(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadTextureCoord(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	result := make([]math3d.Vec2, len(data))
	for i, f := range data {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}
	return result, nil
}

// readIndices reads a SCALAR accessor of unsigned byte, short or int indices.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadIndices(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	result := make([]int, len(data))
	for i, x := range data {
		result[i] = int(x)
	}
	return result, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d of %d", ErrMalformed, idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func toVec3(data [][3]float32) []math3d.Vec3 {
	result := make([]math3d.Vec3, len(data))
	for i, f := range data {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}
	return result
}

// decodeImage decodes an embedded PNG or JPEG. The declared MIME type wins;
// images referenced by URI may omit it, so the PNG signature is checked.
func decodeImage(data []byte, mimeType string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch mimeType {
	case "image/png":
		return png.Decode(r)
	case "image/jpeg":
		return jpeg.Decode(r)
	}
	if bytes.HasPrefix(data, pngMagic) {
		return png.Decode(r)
	}
	return jpeg.Decode(r)
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// imageBytes returns the encoded bytes of a GLTF image, or nil.
func imageBytes(doc *gltf.Document, img *gltf.Image, dir string) []byte {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil || bv.ByteOffset+bv.ByteLength > len(buf.Data) {
			return nil
		}
		return buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	}
	if img.URI == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(dir, img.URI))
	if err != nil {
		return nil
	}
	return data
}
