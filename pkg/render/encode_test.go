package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

func testFrame() *Framebuffer {
	fb := NewFramebuffer(4, 3)
	fb.Clear(ColorBlack)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(3, 2, RGB(10, 200, 30))
	return fb
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"output.tga", FormatTGA, false},
		{"OUT.TGA", FormatTGA, false},
		{"dir/frame.png", FormatPNG, false},
		{"a.bmp", FormatBMP, false},
		{"a.webp", FormatWebP, false},
		{"a.jpg", "", true},
		{"noext", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, err := FormatFromPath(tc.path)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("FormatFromPath = %q, %v; want %q", got, err, tc.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	decoders := map[string]func(*os.File) (image.Image, error){
		"tga": func(f *os.File) (image.Image, error) { return tga.Decode(f) },
		"png": func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"bmp": func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
	}

	for ext, decode := range decoders {
		t.Run(ext, func(t *testing.T) {
			fb := testFrame()
			path := filepath.Join(t.TempDir(), "output."+ext)
			if err := Save(path, fb); err != nil {
				t.Fatalf("Save: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
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

func TestSaveWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.webp")
	if err := Save(path, testFrame()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		t.Errorf("output is not a RIFF/WEBP container")
	}
}

func TestSaveLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()

	err := Save(filepath.Join(dir, "output.jpg"), testFrame())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}

	if err := Save(filepath.Join(dir, "output.tga"), testFrame()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "output.tga" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory holds %v, want only output.tga", names)
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "nope", "output.tga"), testFrame())
	if err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
