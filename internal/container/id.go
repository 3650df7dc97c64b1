package container

import (
	"io"

	"github.com/google/uuid"
)

// IDSize is the embedded width of a container identifier.
const IDSize = 16

// ID identifies one container. It is embedded in the payload itself and
// keys the metadata record, so extraction can locate the key material
// from the image alone.
type ID uuid.UUID

// NewID generates a random identifier from the given source. Production
// callers pass crypto/rand.Reader; tests may pass a deterministic one.
func NewID(random io.Reader) (ID, error) {
	u, err := uuid.NewRandomFromReader(random)
	if err != nil {
		return ID{}, err
	}
	return ID(u), nil
}

// ParseID parses the canonical string form of an identifier.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID(u), nil
}

// IDFromBytes rebuilds an identifier from its embedded 16-byte form.
func IDFromBytes(b []byte) (ID, error) {
	u, err := uuid.FromBytes(b)
	if err != nil {
		return ID{}, err
	}
	return ID(u), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Bytes returns the 16-byte form embedded in the container.
func (id ID) Bytes() []byte {
	out := make([]byte, IDSize)
	copy(out, id[:])
	return out
}

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool {
	return id == ID{}
}
