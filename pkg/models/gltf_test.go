package models

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softrender/pkg/math3d"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

// writeTriangleGLTF writes a single indexed triangle with an embedded
// data-URI buffer and returns the file path.
func writeTriangleGLTF(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	positions := []float32{
		-0.5, -0.5, 0,
		0.5, -0.5, 0,
		0, 0.5, 0,
	}
	for _, p := range positions {
		binary.Write(&buf, binary.LittleEndian, p)
	}
	for _, i := range []uint16{0, 1, 2, 0} { // trailing index pads to 4 bytes
		binary.Write(&buf, binary.LittleEndian, i)
	}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3",
     "min": [-0.5, -0.5, 0], "max": [0.5, 0.5, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}]
}`, buf.Len(), base64.StdEncoding.EncodeToString(buf.Bytes()))

	path := filepath.Join(t.TempDir(), "tri.gltf")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGLTFTriangle(t *testing.T) {
	mesh, err := LoadGLTF(writeTriangleGLTF(t))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}

	if mesh.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", mesh.VertexCount())
	}
	if mesh.FaceCount() != 1 {
		t.Fatalf("FaceCount = %d, want 1", mesh.FaceCount())
	}
	if got := mesh.Face(0); got != [3]int{0, 1, 2} {
		t.Errorf("Face(0) = %v, want winding kept as [0 1 2]", got)
	}
	if mesh.HasTexCoords() {
		t.Error("mesh without TEXCOORD_0 should report no texcoords")
	}
	if mesh.BoundsMax.Y != 0.5 || mesh.BoundsMin.X != -0.5 {
		t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestLoadDispatch(t *testing.T) {
	mesh, err := Load(writeTriangleGLTF(t))
	if err != nil {
		t.Fatalf("Load(.gltf): %v", err)
	}
	if mesh.FaceCount() != 1 {
		t.Errorf("FaceCount = %d, want 1", mesh.FaceCount())
	}

	_, err = Load("model.stl")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.stl) error = %v, want ErrUnsupportedFormat", err)
	}
}

// writeTexturedGLB writes a textured triangle to a binary glTF file with the
// given image bytes embedded in its buffer.
func writeTexturedGLB(t *testing.T, mimeType string, img []byte) string {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0, 0.5, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 1}, {1, 1}, {0.5, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	if _, err := modeler.WriteImage(doc, "diffuse", mimeType, bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
			Indices:    gltf.Index(idx),
		}},
	}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func encodedImage(t *testing.T, mimeType string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	var err error
	switch mimeType {
	case "image/jpeg":
		err = jpeg.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadGLTFWithTexture(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		image    string
	}{
		{"png", "image/png", "image/png"},
		{"jpeg", "image/jpeg", "image/jpeg"},
		{"png without mime type", "", "image/png"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTexturedGLB(t, tc.mimeType, encodedImage(t, tc.image))

			mesh, img, err := LoadGLTFWithTexture(path)
			if err != nil {
				t.Fatalf("LoadGLTFWithTexture: %v", err)
			}
			if img == nil {
				t.Fatal("embedded image was not returned")
			}
			if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
				t.Errorf("image bounds = %v, want 2x2", b)
			}
			if mesh.FaceCount() != 1 || !mesh.HasTexCoords() {
				t.Fatalf("faces = %d, texcoords = %v", mesh.FaceCount(), mesh.HasTexCoords())
			}
			// V is flipped so 0 is the bottom of the image.
			if uv, _ := mesh.UV(0, 2); uv != math3d.V2(0.5, 1) {
				t.Errorf("UV(0, 2) = %v, want (0.5, 1)", uv)
			}
		})
	}
}

func TestLoadGLTFWithTextureNone(t *testing.T) {
	mesh, img, err := LoadGLTFWithTexture(writeTriangleGLTF(t))
	if err != nil {
		t.Fatalf("LoadGLTFWithTexture: %v", err)
	}
	if img != nil {
		t.Error("document without images should return a nil image")
	}
	if mesh.FaceCount() != 1 {
		t.Errorf("FaceCount = %d, want 1", mesh.FaceCount())
	}
}

func TestLoadGLTFWithTextureCorruptImage(t *testing.T) {
	path := writeTexturedGLB(t, "image/png", []byte("not a png"))
	if _, _, err := LoadGLTFWithTexture(path); err == nil {
		t.Error("expected an error for an undecodable embedded image")
	}
}
