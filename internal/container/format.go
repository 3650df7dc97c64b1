package container

import (
	"encoding/binary"
	"fmt"

	perrors "github.com/pentimento/pentimento/internal/errors"
)

// MaxNameLen bounds each secret's name field in bytes. A parsed length
// of zero or above this bound is conclusive evidence the stream is not a
// container.
const MaxNameLen = 2000

// headerBytes is the fixed-width portion of the serialized form: the
// four length fields plus the container identifier. Names and
// ciphertexts are variable.
const headerBytes = 2 + 4 + 2 + 4 + IDSize

// Part is one hidden secret's shape inside a container: its name and its
// sealed bytes. Real and decoy parts are structurally identical; only
// field order distinguishes them.
type Part struct {
	Name       string
	Ciphertext []byte
}

// Container is the parsed form of the byte stream a cover image carries.
// Salts and nonces are deliberately absent: they live in the metadata
// store, not in the image.
type Container struct {
	ID    ID
	Real  Part
	Decoy Part
}

// SerializedSize returns the length in bytes of the stream Serialize
// would produce.
func (c *Container) SerializedSize() int {
	return headerBytes + len(c.Real.Name) + len(c.Decoy.Name) +
		len(c.Real.Ciphertext) + len(c.Decoy.Ciphertext)
}

// Serialize flattens the container into the embedding byte stream. All
// multi-byte integers are big-endian and unsigned: 2 bytes per name
// length, 4 bytes per ciphertext length, real fields before decoy
// fields, the 16-byte identifier between the fixed header and the
// ciphertexts.
func (c *Container) Serialize() ([]byte, error) {
	for _, name := range []string{c.Real.Name, c.Decoy.Name} {
		if len(name) == 0 || len(name) > MaxNameLen {
			return nil, fmt.Errorf("secret name must be between 1 and %d bytes, got %d", MaxNameLen, len(name))
		}
	}
	out := make([]byte, 0, c.SerializedSize())
	out = binary.BigEndian.AppendUint16(out, uint16(len(c.Real.Name)))
	out = append(out, c.Real.Name...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(c.Real.Ciphertext)))
	out = binary.BigEndian.AppendUint16(out, uint16(len(c.Decoy.Name)))
	out = append(out, c.Decoy.Name...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(c.Decoy.Ciphertext)))
	out = append(out, c.ID.Bytes()...)
	out = append(out, c.Real.Ciphertext...)
	out = append(out, c.Decoy.Ciphertext...)
	return out, nil
}

// Parse reads a container out of the bit-plane reader, pulling exactly
// the bytes each field describes. Fields are read strictly in order and
// never inferred or defaulted. A name length of zero or above MaxNameLen
// fails with ErrInvalidHeader; any read past the available payload fails
// with ErrTruncatedData.
func Parse(r *Reader) (*Container, error) {
	realName, realCipherLen, err := parsePartHeader(r)
	if err != nil {
		return nil, err
	}
	decoyName, decoyCipherLen, err := parsePartHeader(r)
	if err != nil {
		return nil, err
	}
	rawID, err := r.Next(IDSize)
	if err != nil {
		return nil, err
	}
	id, err := IDFromBytes(rawID)
	if err != nil {
		return nil, perrors.ErrInvalidHeader
	}
	realCipher, err := r.Next(realCipherLen)
	if err != nil {
		return nil, err
	}
	decoyCipher, err := r.Next(decoyCipherLen)
	if err != nil {
		return nil, err
	}
	return &Container{
		ID:    id,
		Real:  Part{Name: realName, Ciphertext: realCipher},
		Decoy: Part{Name: decoyName, Ciphertext: decoyCipher},
	}, nil
}

// parsePartHeader reads one secret's name-length, name, and
// ciphertext-length fields.
func parsePartHeader(r *Reader) (string, int, error) {
	raw, err := r.Next(2)
	if err != nil {
		return "", 0, err
	}
	nameLen := int(binary.BigEndian.Uint16(raw))
	if nameLen == 0 || nameLen > MaxNameLen {
		return "", 0, perrors.ErrInvalidHeader
	}
	name, err := r.Next(nameLen)
	if err != nil {
		return "", 0, err
	}
	raw, err = r.Next(4)
	if err != nil {
		return "", 0, err
	}
	return string(name), int(binary.BigEndian.Uint32(raw)), nil
}
