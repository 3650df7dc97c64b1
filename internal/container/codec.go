package container

import (
	perrors "github.com/pentimento/pentimento/internal/errors"
)

// The bit-plane codec is plain read/write arithmetic over a pixel
// buffer's least-significant bits. It knows nothing about the container
// format above it: the serializer tells it how many bytes to produce,
// field by field.
//
// Bit order is fixed: pixels in raster order, channels R then G then B
// within each pixel (alpha never carries payload), and within each
// payload byte the most significant bit is placed first.

// pixOffset maps the k-th payload channel to its index in Pix.
func pixOffset(k int) int {
	return (k/3)*4 + k%3
}

// WritePayload overwrites the least-significant bits of buf's color
// channels with the bits of data, stopping after the last byte. Channels
// past that point are left untouched. Callers must have validated the
// fit with PlanFor first; WritePayload does no bounds checking of its
// own.
func WritePayload(buf *PixelBuffer, data []byte) {
	k := 0
	for _, b := range data {
		for j := 7; j >= 0; j-- {
			off := pixOffset(k)
			buf.Pix[off] = buf.Pix[off]&0xFE | (b>>j)&1
			k++
		}
	}
}

// Reader extracts successive payload bytes from a pixel buffer in the
// same raster/channel/bit order WritePayload uses. The container parser
// drives it incrementally: fixed-width length fields first, then the
// variable-length fields those lengths describe.
type Reader struct {
	buf *PixelBuffer
	k   int
}

// NewReader returns a Reader positioned at the first payload bit of buf.
func NewReader(buf *PixelBuffer) *Reader {
	return &Reader{buf: buf}
}

// Remaining returns how many whole payload bytes are still readable.
func (r *Reader) Remaining() int {
	return (r.buf.channels() - r.k) / 8
}

// Next returns the next n payload bytes. It fails with ErrTruncatedData
// if fewer than n bytes remain in the buffer.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, perrors.ErrTruncatedData
	}
	out := make([]byte, n)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b = b<<1 | r.buf.Pix[pixOffset(r.k)]&1
			r.k++
		}
		out[i] = b
	}
	return out, nil
}

// ReadPayload extracts n payload bytes from the start of buf in one
// shot. It fails with ErrTruncatedData if the buffer holds fewer than n
// bytes.
func ReadPayload(buf *PixelBuffer, n int) ([]byte, error) {
	return NewReader(buf).Next(n)
}
