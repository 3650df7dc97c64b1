package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pentimento/pentimento/internal/audit"
	"github.com/pentimento/pentimento/internal/configs"
	"github.com/pentimento/pentimento/internal/container"
	perrors "github.com/pentimento/pentimento/internal/errors"
)

// InspectOptions configures the inspect workflow.
type InspectOptions struct {
	// ImagePath is the carrier image to inspect.
	ImagePath string
}

// InspectResult contains the outcome of an inspect operation. Nothing in
// it comes from decryption; names and lengths are stored in the clear by
// the container format.
type InspectResult struct {
	// ContainerID is the identifier embedded in the carrier image.
	ContainerID string

	// RealName and RealCipherLen describe the first secret slot.
	RealName      string
	RealCipherLen int

	// DecoyName and DecoyCipherLen describe the second secret slot.
	DecoyName      string
	DecoyCipherLen int

	// RequiredBytes is the serialized container size inside the image.
	RequiredBytes int

	// CapacityBytes is the image's total payload capacity.
	CapacityBytes int

	// MetadataPresent reports whether the local store still holds this
	// container's record. False means the container cannot be opened
	// from this machine.
	MetadataPresent bool

	// Label and CreatedAt come from the metadata record when present.
	Label     string
	CreatedAt time.Time
}

// Inspect parses a carrier image and reports the container's structure
// without attempting any decryption.
//
// Returns ErrImageNotFound if the carrier image cannot be read.
// Returns ErrInvalidHeader or ErrTruncatedData if the image carries no container.
func Inspect(ctx context.Context, opts InspectOptions) (*InspectResult, error) {
	buf, err := loadCoverImage(opts.ImagePath)
	if err != nil {
		return nil, err
	}

	c, err := container.Extract(buf)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		ContainerID:    c.ID.String(),
		RealName:       c.Real.Name,
		RealCipherLen:  len(c.Real.Ciphertext),
		DecoyName:      c.Decoy.Name,
		DecoyCipherLen: len(c.Decoy.Ciphertext),
		RequiredBytes:  c.SerializedSize(),
		CapacityBytes:  container.CapacityBytes(buf.Width, buf.Height),
	}

	config, _, err := configs.EnsureUserConfig()
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}

	if err := lookupRecord(config, c.ID.String(), result); err != nil {
		return nil, err
	}

	auditEntry := audit.LogWithUser("inspect")
	auditEntry.ContainerID = c.ID.String()
	auditEntry.Image = opts.ImagePath
	audit.Log(auditEntry)

	return result, nil
}

// lookupRecord fills in the metadata fields. A missing store or record is
// not an error here: inspect answers "is this still openable", it does
// not require that it be.
func lookupRecord(config *configs.UserConfig, containerID string, result *InspectResult) error {
	store, err := openMetadataStore(config, false)
	if errors.Is(err, perrors.ErrStoreNotInitialized) {
		return nil
	}
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(containerID)
	if errors.Is(err, perrors.ErrMetadataNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	result.MetadataPresent = true
	result.Label = rec.Label
	result.CreatedAt = rec.CreatedAt
	return nil
}
