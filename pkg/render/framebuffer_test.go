package render

import (
	"image/color"
	"math"
	"testing"
)

func TestFramebufferSetGet(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Clear(ColorBlack)

	fb.SetPixel(1, 2, ColorRed)
	if got := fb.GetPixel(1, 2); got != ColorRed {
		t.Errorf("GetPixel(1, 2) = %v, want red", got)
	}
	if got := fb.Pixels[1+2*4]; got != ColorRed {
		t.Errorf("pixel index x + y*width holds %v, want red", got)
	}

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x past width", 4, 0},
		{"y past height", 0, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb.SetPixel(tc.x, tc.y, ColorGreen)
			if got := fb.GetPixel(tc.x, tc.y); got != (color.RGBA{}) {
				t.Errorf("GetPixel out of bounds = %v, want zero", got)
			}
		})
	}
	if got := countPixels(fb, ColorGreen); got != 0 {
		t.Errorf("%d out of bounds writes landed in the buffer", got)
	}
}

func TestFramebufferFlipVertically(t *testing.T) {
	for _, h := range []int{1, 2, 3, 4} {
		fb := NewFramebuffer(2, h)
		for y := range h {
			fb.SetPixel(0, y, RGB(uint8(y), 0, 0))
			fb.SetPixel(1, y, RGB(0, uint8(y), 0))
		}

		fb.FlipVertically()

		for y := range h {
			want := uint8(h - 1 - y)
			if got := fb.GetPixel(0, y); got != RGB(want, 0, 0) {
				t.Errorf("h=%d: row %d col 0 = %v, want red %d", h, y, got, want)
			}
			if got := fb.GetPixel(1, y); got != RGB(0, want, 0) {
				t.Errorf("h=%d: row %d col 1 = %v, want green %d", h, y, got, want)
			}
		}
	}
}

func TestFramebufferToImage(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.SetPixel(2, 1, ColorBlue)

	img := fb.ToImage()
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 3x2", b)
	}
	if got := img.RGBAAt(2, 1); got != ColorBlue {
		t.Errorf("RGBAAt(2, 1) = %v, want blue", got)
	}
}

func TestFramebufferClone(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	clone := fb.Clone()
	clone.SetPixel(0, 0, ColorRed)
	if fb.GetPixel(0, 0) == ColorRed {
		t.Error("Clone shares pixel storage")
	}
}

func TestDepthBuffer(t *testing.T) {
	db := NewDepthBuffer(4, 4)
	for i, v := range db.Values {
		if !math.IsInf(v, -1) {
			t.Fatalf("Values[%d] = %v, want -Inf", i, v)
		}
	}

	tests := []struct {
		name string
		x, y int
		z    float64
		want bool
	}{
		{"first write", 1, 1, -5, true},
		{"nearer", 1, 1, 0.5, true},
		{"equal", 1, 1, 0.5, false},
		{"farther", 1, 1, 0.2, false},
		{"other pixel", 2, 1, -100, true},
		{"out of bounds", 4, 1, 1, false},
		{"negative", -1, 0, 1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := db.TestAndSet(tc.x, tc.y, tc.z); got != tc.want {
				t.Errorf("TestAndSet(%d, %d, %v) = %v, want %v", tc.x, tc.y, tc.z, got, tc.want)
			}
		})
	}

	if got := db.At(1, 1); got != 0.5 {
		t.Errorf("At(1, 1) = %v, want 0.5", got)
	}
	if got := db.Values[2+1*4]; got != -100 {
		t.Errorf("Values[x + y*width] = %v, want -100", got)
	}

	db.Clear()
	if got := db.At(1, 1); !math.IsInf(got, -1) {
		t.Errorf("At after Clear = %v, want -Inf", got)
	}
}
