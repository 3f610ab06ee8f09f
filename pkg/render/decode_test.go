package render

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeSniffsFormat(t *testing.T) {
	for _, format := range []Format{FormatTGA, FormatPNG, FormatBMP, FormatWebP} {
		t.Run(string(format), func(t *testing.T) {
			fb := testFrame()
			var buf bytes.Buffer
			if err := Encode(&buf, fb.ToImage(), format); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			img, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
				t.Fatalf("bounds = %v, want 4x3", b)
			}
			for _, p := range [][2]int{{0, 0}, {3, 2}, {1, 1}} {
				want := fb.GetPixel(p[0], p[1])
				r, g, b, a := img.At(p[0], p[1]).RGBA()
				got := Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
				if got != want {
					t.Errorf("pixel %v = %v, want %v", p, got, want)
				}
			}
		})
	}
}

func TestDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 6)), nil); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v, want 8x6", b)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not an image")} {
		if _, err := Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) succeeded, want error", data)
		}
	}
}

// TestLoadTextureFormats saves one frame in every supported format under
// an extension that does not match, so only the file contents select the
// decoder.
func TestLoadTextureFormats(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []Format{FormatTGA, FormatPNG, FormatBMP, FormatWebP} {
		t.Run(string(format), func(t *testing.T) {
			fb := testFrame()
			path := filepath.Join(dir, "diffuse_"+string(format)+".img")
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := Encode(f, fb.ToImage(), format); err != nil {
				t.Fatal(err)
			}
			f.Close()

			tex, err := LoadTexture(path)
			if err != nil {
				t.Fatalf("LoadTexture: %v", err)
			}
			if tex.Width != 4 || tex.Height != 3 {
				t.Fatalf("size = %dx%d, want 4x3", tex.Width, tex.Height)
			}
			// Framebuffer row 0 is the image's top row, which the texture
			// stores last.
			if got := tex.At(0, 2); got != ColorRed {
				t.Errorf("At(0, 2) = %v, want red", got)
			}
			if got := tex.At(3, 0); got != RGB(10, 200, 30) {
				t.Errorf("At(3, 0) = %v, want (10, 200, 30)", got)
			}
		})
	}
}
