package workflows

import (
	"context"
	"fmt"
	"sort"

	"github.com/pentimento/pentimento/internal/configs"
	"github.com/pentimento/pentimento/internal/metadata"
)

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// ListContainers includes per-container records in the result.
	ListContainers bool
}

// ContainerInfo summarizes one metadata record for display.
type ContainerInfo struct {
	// ContainerID identifies the container.
	ContainerID string

	// Label is the optional tag recorded at hide time.
	Label string

	// CreatedAt is when the container was hidden.
	CreatedAt string

	// Archived indicates the carrier image is kept in the local archive.
	Archived bool
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	// StorePath is the metadata store directory.
	StorePath string

	// ArchivePath is the image archive directory.
	ArchivePath string

	// Containers is the number of live (unrevoked) metadata records.
	Containers int

	// ArchiveImages is the number of carrier images kept locally.
	ArchiveImages int

	// AuditEntries is the number of recorded operations.
	AuditEntries int

	// Disk describes the volume the store lives on.
	Disk metadata.DiskUsage

	// Records is filled when ListContainers is set, newest first.
	Records []ContainerInfo
}

// Status reports what the local store holds and how much room it has.
//
// Returns ErrStoreNotInitialized if there is no metadata store yet.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	config, _, err := configs.EnsureUserConfig()
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}

	store, err := openMetadataStore(config, false)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	count, err := store.Count()
	if err != nil {
		return nil, fmt.Errorf("counting containers: %w", err)
	}

	usage, err := store.Usage()
	if err != nil {
		return nil, fmt.Errorf("reading disk usage: %w", err)
	}

	archiveStore, err := openArchiveStore(config)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		StorePath:     config.Store.Path,
		ArchivePath:   config.Store.ArchivePath,
		Containers:    count,
		ArchiveImages: archiveStore.Len(),
		Disk:          usage,
	}

	entries, err := readAuditEntries()
	if err != nil {
		return nil, err
	}
	result.AuditEntries = len(entries)

	if opts.ListContainers {
		records, err := store.List()
		if err != nil {
			return nil, fmt.Errorf("listing containers: %w", err)
		}
		sort.Slice(records, func(i, j int) bool {
			if records[i].CreatedAt.Equal(records[j].CreatedAt) {
				return records[i].ContainerID < records[j].ContainerID
			}
			return records[i].CreatedAt.After(records[j].CreatedAt)
		})
		for _, rec := range records {
			result.Records = append(result.Records, ContainerInfo{
				ContainerID: rec.ContainerID,
				Label:       rec.Label,
				CreatedAt:   rec.CreatedAt.Format("2006-01-02 15:04:05"),
				Archived:    archiveStore.Has(rec.ContainerID),
			})
		}
	}

	return result, nil
}
