package workflows

import (
	"bytes"

	"github.com/ulikunitz/xz/lzma"
)

// compressSecret compresses a plaintext secret with LZMA before sealing.
// Whether a secret was compressed is recorded in its metadata record, not
// in the container, so the image format is the same either way.
func compressSecret(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(data)
	if err != nil {
		return nil, err
	}

	err = w.Close()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decompressSecret reverses compressSecret after a successful unlock.
func decompressSecret(data []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
