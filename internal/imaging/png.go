// Package imaging converts image files to and from the raw pixel buffer
// the container core operates on. The core itself never touches an image
// codec.
package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	_ "image/jpeg" // accepted as cover input; output is always PNG

	"github.com/pentimento/pentimento/internal/container"
	perrors "github.com/pentimento/pentimento/internal/errors"
)

// Decode reads an image from r and flattens it into an RGBA pixel
// buffer. Any source color model (paletted, grayscale, NRGBA) is drawn
// into RGBA first, so the container codec always sees four bytes per
// pixel.
func Decode(r io.Reader) (*container.PixelBuffer, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", perrors.ErrInvalidImage, err)
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, perrors.ErrInvalidImage
	}
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	return &container.PixelBuffer{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    rgba.Pix,
	}, nil
}

// Encode writes the pixel buffer to w as a PNG. PNG is the only output
// format: it is lossless, so the embedded bits survive the round trip.
// A lossy carrier would destroy the payload.
func Encode(w io.Writer, buf *container.PixelBuffer) error {
	img := &image.RGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * 4,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}
	return png.Encode(w, img)
}
