package render

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	bmpMagic  = []byte("BM")
)

// Decode reads a PNG, JPEG, BMP, WebP or TGA image. The format is sniffed
// from the leading bytes; TGA has no signature, so anything unrecognized is
// handed to the TGA decoder. image.Decode is not used because the TGA
// package registers an empty signature that matches every input.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(12)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, pngMagic):
		return png.Decode(br)
	case bytes.HasPrefix(head, jpegMagic):
		return jpeg.Decode(br)
	case isWebP(head):
		return nativewebp.Decode(br)
	case bytes.HasPrefix(head, bmpMagic):
		return bmp.Decode(br)
	default:
		return tga.Decode(br)
	}
}

func isWebP(head []byte) bool {
	return len(head) >= 12 && string(head[:4]) == "RIFF" && string(head[8:12]) == "WEBP"
}
