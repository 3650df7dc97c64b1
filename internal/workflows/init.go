package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/pentimento/pentimento/internal/audit"
	"github.com/pentimento/pentimento/internal/configs"
	perrors "github.com/pentimento/pentimento/internal/errors"
)

// InitStoreOptions configures the init workflow.
type InitStoreOptions struct {
	// Force proceeds even when the store already exists. Existing records
	// are kept; use purge to wipe them.
	Force bool
}

// InitStoreResult contains the outcome of an init operation.
type InitStoreResult struct {
	// StorePath is the metadata store directory.
	StorePath string

	// ArchivePath is the image archive directory.
	ArchivePath string

	// ConfigPath is the user config file.
	ConfigPath string

	// ConfigCreated indicates a fresh config file was written.
	ConfigCreated bool
}

// InitStore creates the user config, the metadata store, and the image
// archive. Hide creates the store on demand too; init exists so users can
// set the store up (and see where it lives) before hiding anything.
//
// Returns ErrStoreAlreadyInitialized if the store exists and Force is not set.
func InitStore(ctx context.Context, opts InitStoreOptions) (*InitStoreResult, error) {
	config, created, err := configs.EnsureUserConfig()
	if err != nil {
		return nil, fmt.Errorf("ensuring user config: %w", err)
	}

	storePath := config.Store.Path
	if !opts.Force {
		entries, err := os.ReadDir(storePath)
		if err == nil && len(entries) > 0 {
			return nil, perrors.ErrStoreAlreadyInitialized
		}
	}

	store, err := openMetadataStore(config, true)
	if err != nil {
		return nil, err
	}
	if err := store.Close(); err != nil {
		return nil, fmt.Errorf("closing metadata store: %w", err)
	}

	if _, err := openArchiveStore(config); err != nil {
		return nil, err
	}

	auditEntry := audit.LogWithUser("init")
	audit.Log(auditEntry)

	return &InitStoreResult{
		StorePath:     storePath,
		ArchivePath:   config.Store.ArchivePath,
		ConfigPath:    configs.ConfigFilePath(),
		ConfigCreated: created,
	}, nil
}
