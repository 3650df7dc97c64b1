package container

import (
	perrors "github.com/pentimento/pentimento/internal/errors"
)

// Embed serializes the container and writes it into buf's least
// significant bits. The capacity check runs before anything else: on
// ErrCapacityExceeded the buffer is untouched, alpha included, so a
// failed embed is never observable in the image. On success every alpha
// byte has been forced to 255 and the returned plan reports the fit.
func Embed(buf *PixelBuffer, c *Container) (Plan, error) {
	stream, err := c.Serialize()
	if err != nil {
		return Plan{}, err
	}
	plan := PlanFor(buf.Width, buf.Height, len(stream))
	if !plan.Fits() {
		return plan, perrors.ErrCapacityExceeded
	}
	buf.ForceOpaque()
	WritePayload(buf, stream)
	return plan, nil
}

// Extract parses a container back out of buf without mutating it.
// ErrInvalidHeader and ErrTruncatedData both mean the image carries no
// readable container.
func Extract(buf *PixelBuffer) (*Container, error) {
	return Parse(NewReader(buf))
}
