package container

// CapacityBytes returns the number of whole payload bytes an image of the
// given dimensions can carry: one bit in each of the R, G and B channels
// of every pixel, alpha excluded.
func CapacityBytes(width, height int) int {
	return width * height * 3 / 8
}

// Plan reports how a serialized container fits a cover image. It exists
// so commands can show the numbers behind a capacity failure.
type Plan struct {
	RequiredBytes int
	CapacityBytes int
}

// PlanFor builds the capacity plan for embedding requiredBytes into a
// width×height image.
func PlanFor(width, height, requiredBytes int) Plan {
	return Plan{
		RequiredBytes: requiredBytes,
		CapacityBytes: CapacityBytes(width, height),
	}
}

// Fits reports whether the payload fits the image. It must hold before
// any pixel is touched; embedding is all-or-nothing.
func (p Plan) Fits() bool {
	return p.RequiredBytes <= p.CapacityBytes
}
