package container

// PixelBuffer is a fully decoded RGBA image: four bytes per pixel (R, G,
// B, A) in raster order. It is the only image representation the
// container core understands; turning file formats into and out of it is
// the imaging package's job.
type PixelBuffer struct {
	Width  int
	Height int
	// Pix holds the channel bytes in row-major order.
	// len(Pix) == Width*Height*4.
	Pix []byte
}

// NewPixelBuffer returns an all-zero (transparent black) buffer of the
// given dimensions.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Clone returns a deep copy of the buffer.
func (p *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(p.Pix))
	copy(pix, p.Pix)
	return &PixelBuffer{Width: p.Width, Height: p.Height, Pix: pix}
}

// ForceOpaque sets every pixel's alpha to 255. Partially transparent
// pixels are a known corruption vector for embedded bits: alpha-aware
// re-encoding can rewrite the color channels underneath them.
func (p *PixelBuffer) ForceOpaque() {
	for i := 3; i < len(p.Pix); i += 4 {
		p.Pix[i] = 0xFF
	}
}

// channels returns the number of payload-carrying channels in the
// buffer: R, G and B for every pixel, alpha excluded.
func (p *PixelBuffer) channels() int {
	return p.Width * p.Height * 3
}
