package render

import (
	"fmt"
	"image"
	"math"
	"os"
)

// WrapMode determines how texel coordinates outside the image are handled.
type WrapMode int

const (
	WrapClamp  WrapMode = iota // Clamp to edge
	WrapRepeat                 // Tile the texture
)

// Texture is a diffuse map addressed by integer texel coordinates with the
// origin at the bottom-left, matching texture coordinates where v = 0 is the
// bottom of the image.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // Row-major, row 0 is the bottom row
	Wrap   WrapMode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		Wrap:   WrapClamp,
	}
}

// LoadTexture decodes a TGA, PNG, JPEG, BMP or WebP file into a texture.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}

	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image. The image's top
// row becomes the texture's last row.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height)

	for y := range height {
		for x := range width {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, b, a := c.RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.SetPixel(x, height-1-y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}

	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			cx := x / checkSize
			cy := y / checkSize
			if (cx+cy)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// At samples the texel at (x, y), applying the wrap mode to coordinates
// outside the image. An empty texture samples as opaque white.
func (t *Texture) At(x, y int) Color {
	if t.Width == 0 || t.Height == 0 {
		return ColorWhite
	}
	x = wrapTexel(x, t.Width, t.Wrap)
	y = wrapTexel(y, t.Height, t.Wrap)
	return t.Pixels[y*t.Width+x]
}

// wrapTexel maps a texel coordinate into [0, size).
func wrapTexel(x, size int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		x = x % size
		if x < 0 {
			x += size
		}
	default:
		if x < 0 {
			x = 0
		} else if x >= size {
			x = size - 1
		}
	}
	return x
}

// MultiplyColor multiplies a color by a scalar (for lighting).
// Channels are clamped to [0, 255].
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: scaleChannel(c.R, intensity),
		G: scaleChannel(c.G, intensity),
		B: scaleChannel(c.B, intensity),
		A: c.A,
	}
}

func scaleChannel(v uint8, s float64) uint8 {
	return uint8(math.Max(0, math.Min(255, float64(v)*s)))
}

var _ Sampler = (*Texture)(nil)
