// Package render implements a software rasterizer: line drawing, z-buffered
// triangle filling, orthographic projection with flat lighting, and image
// output.
package render

import (
	"image"
	"image/color"
)

// Framebuffer is a row-major grid of RGBA pixels. Row 0 is the bottom of the
// rendered scene until FlipVertically is called.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // indexed x + y*Width
}

// NewFramebuffer creates a framebuffer filled with transparent black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets the pixel at (x, y). Writes outside the buffer are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[x+y*fb.Width] = c
}

// GetPixel returns the color at (x, y), or transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[x+y*fb.Width]
}

// FlipVertically swaps rows in place so that row 0 becomes the last row.
func (fb *Framebuffer) FlipVertically() {
	w := fb.Width
	for top, bot := 0, fb.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := fb.Pixels[top*w : (top+1)*w]
		b := fb.Pixels[bot*w : (bot+1)*w]
		for x := range w {
			a[x], b[x] = b[x], a[x]
		}
	}
}

// Clone returns a deep copy.
func (fb *Framebuffer) Clone() *Framebuffer {
	out := NewFramebuffer(fb.Width, fb.Height)
	copy(out.Pixels, fb.Pixels)
	return out
}

// ToImage converts the framebuffer to an image.RGBA without flipping; image
// row 0 is framebuffer row 0.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[x+y*fb.Width])
		}
	}
	return img
}
