package workflows

import (
	"context"
	"fmt"

	"github.com/pentimento/pentimento/internal/audit"
	"github.com/pentimento/pentimento/internal/configs"
	"github.com/pentimento/pentimento/internal/container"
	perrors "github.com/pentimento/pentimento/internal/errors"
)

// RevokeOptions configures the revoke workflow.
type RevokeOptions struct {
	// ContainerID identifies the record to delete.
	ContainerID string

	// PurgeImage also deletes the archived carrier image, if one exists.
	PurgeImage bool

	// DryRun reports what would be deleted without deleting anything.
	DryRun bool
}

// RevokeResult contains the outcome of a revoke operation.
type RevokeResult struct {
	// ContainerID is the record that was (or would be) deleted.
	ContainerID string

	// Label is the record's label, so the caller can confirm the target.
	Label string

	// Revoked indicates the metadata record was deleted.
	Revoked bool

	// HasArchivedImage indicates an archived carrier image exists.
	HasArchivedImage bool

	// ImagePurged indicates the archived carrier image was deleted.
	ImagePurged bool

	// DryRun indicates whether this was a dry-run (nothing deleted).
	DryRun bool
}

// Revoke deletes a container's metadata record. This is the kill switch:
// the salts and nonces are gone, so no password can ever open the
// container again, even though the carrier image is untouched and still
// looks like an ordinary picture.
//
// Returns ErrStoreNotInitialized if there is no metadata store.
// Returns ErrMetadataNotFound if the container is unknown or already revoked.
func Revoke(ctx context.Context, opts RevokeOptions) (*RevokeResult, error) {
	if _, err := container.ParseID(opts.ContainerID); err != nil {
		return nil, fmt.Errorf("%w: %q", perrors.ErrInvalidContainerID, opts.ContainerID)
	}

	config, _, err := configs.EnsureUserConfig()
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}

	store, err := openMetadataStore(config, false)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	rec, err := store.Get(opts.ContainerID)
	if err != nil {
		return nil, err
	}

	archiveStore, err := openArchiveStore(config)
	if err != nil {
		return nil, err
	}

	result := &RevokeResult{
		ContainerID:      opts.ContainerID,
		Label:            rec.Label,
		HasArchivedImage: archiveStore.Has(opts.ContainerID),
		DryRun:           opts.DryRun,
	}

	if opts.DryRun {
		return result, nil
	}

	if err := store.Delete(opts.ContainerID); err != nil {
		return nil, fmt.Errorf("deleting container metadata: %w", err)
	}
	result.Revoked = true

	if opts.PurgeImage && result.HasArchivedImage {
		if err := archiveStore.Delete(opts.ContainerID); err != nil {
			return nil, fmt.Errorf("deleting archived image: %w", err)
		}
		result.ImagePurged = true
	}

	auditEntry := audit.LogWithUser("revoke")
	auditEntry.ContainerID = opts.ContainerID
	audit.Log(auditEntry)

	return result, nil
}
