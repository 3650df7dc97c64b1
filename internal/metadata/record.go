package metadata

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pentimento/pentimento/internal/container"
	"github.com/pentimento/pentimento/internal/envelope"
)

// Record is the key material for one container: everything extraction
// needs besides the image itself. Records never hold plaintext,
// passwords, or derived keys, only salts, nonces, and KDF cost. Deleting
// a record is the kill switch for its container.
type Record struct {
	ContainerID string `json:"container_id"`
	RealSalt    []byte `json:"real_salt"`
	RealNonce   []byte `json:"real_nonce"`
	DecoySalt   []byte `json:"decoy_salt"`
	DecoyNonce  []byte `json:"decoy_nonce"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	// Compression applies to the plaintext before sealing; it is recorded
	// here rather than in the container so the image format never changes.
	RealCompressed  bool      `json:"real_compressed,omitempty"`
	DecoyCompressed bool      `json:"decoy_compressed,omitempty"`
	Label           string    `json:"label,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Params returns the KDF cost the record's secrets were sealed with.
func (r *Record) Params() envelope.Params {
	return envelope.Params{Time: r.KDFTime, MemoryKB: r.KDFMemoryKB, Threads: r.KDFThreads}
}

// KeyMaterial adapts the record into the resolution protocol's input.
func (r *Record) KeyMaterial() container.KeyMaterial {
	return container.KeyMaterial{
		RealSalt:   r.RealSalt,
		RealNonce:  r.RealNonce,
		DecoySalt:  r.DecoySalt,
		DecoyNonce: r.DecoyNonce,
		Params:     r.Params(),
	}
}

func (r *Record) encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding metadata record: %w", err)
	}
	return &rec, nil
}
