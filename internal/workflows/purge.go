package workflows

import (
	"context"
	"fmt"

	"github.com/pentimento/pentimento/internal/audit"
	"github.com/pentimento/pentimento/internal/configs"
)

// PurgeOptions configures the purge workflow.
type PurgeOptions struct {
	// KeepArchive leaves archived carrier images in place. The images are
	// unopenable once their records are gone, but they remain plausible
	// covers.
	KeepArchive bool
}

// PurgeResult contains the outcome of a purge operation.
type PurgeResult struct {
	// RecordsDeleted is the number of metadata records dropped.
	RecordsDeleted int

	// ImagesDeleted is the number of archived images removed.
	ImagesDeleted int
}

// Purge drops every metadata record at once. This is the mass kill
// switch: every container hidden from this machine becomes permanently
// unopenable, while the carrier images themselves stay ordinary pictures.
//
// Returns ErrStoreNotInitialized if there is no metadata store.
func Purge(ctx context.Context, opts PurgeOptions) (*PurgeResult, error) {
	config, _, err := configs.EnsureUserConfig()
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}

	store, err := openMetadataStore(config, false)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	deleted, err := store.DropAll()
	if err != nil {
		return nil, fmt.Errorf("dropping metadata records: %w", err)
	}

	result := &PurgeResult{
		RecordsDeleted: deleted,
	}

	if !opts.KeepArchive {
		archiveStore, err := openArchiveStore(config)
		if err != nil {
			return nil, err
		}
		for _, entry := range archiveStore.List() {
			if err := archiveStore.Delete(entry.ContainerID); err != nil {
				return nil, fmt.Errorf("deleting archived image %s: %w", entry.ContainerID, err)
			}
			result.ImagesDeleted++
		}
	}

	auditEntry := audit.LogWithUser("purge")
	auditEntry.RecordsCount = deleted
	audit.Log(auditEntry)

	return result, nil
}
