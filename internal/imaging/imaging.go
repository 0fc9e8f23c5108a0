// Package imaging converts between standard library images and the flat
// RGB pixel buffers the codec consumes. Alpha is dropped on the way in and
// forced to opaque on the way out; the stream format does not carry it.
package imaging

import (
	"image"
	"image/color"

	"github.com/kulaginds/qoi-codec/qoi"
)

// FromImage flattens an image into a row-major RGB buffer. The bounds
// origin may be non-zero; coordinates are normalized away.
func FromImage(img image.Image) ([]qoi.Pixel, int, int) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	pixels := make([]qoi.Pixel, 0, width*height)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels = append(pixels, qoi.Pixel{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
			})
		}
	}
	return pixels, width, height
}

// ToImage builds an opaque NRGBA image from a row-major RGB buffer. The
// buffer length must equal width*height; extra or missing pixels indicate
// a caller bug and yield a nil image.
func ToImage(width, height int, pixels []qoi.Pixel) *image.NRGBA {
	if width < 0 || height < 0 || len(pixels) != width*height {
		return nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, p := range pixels {
		img.SetNRGBA(i%width, i/width, color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255})
	}
	return img
}
