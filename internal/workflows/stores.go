package workflows

import (
	"fmt"
	"os"

	"github.com/pentimento/pentimento/internal/archive"
	"github.com/pentimento/pentimento/internal/configs"
	perrors "github.com/pentimento/pentimento/internal/errors"
	"github.com/pentimento/pentimento/internal/metadata"
)

// openMetadataStore opens the metadata store described by the user config.
// When create is false and the store directory does not exist yet, it
// returns ErrStoreNotInitialized instead of creating an empty database as
// a side effect of a read.
func openMetadataStore(config *configs.UserConfig, create bool) (*metadata.Store, error) {
	path := config.Store.Path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !create {
			return nil, perrors.ErrStoreNotInitialized
		}
		if err := os.MkdirAll(path, 0700); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	store, err := metadata.Open(metadata.Config{
		Path:             path,
		MinimumFreeBytes: config.MinimumFreeBytes(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}

	return store, nil
}

// openArchiveStore opens the image archive described by the user config.
func openArchiveStore(config *configs.UserConfig) (*archive.Store, error) {
	store, err := archive.Open(config.Store.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("opening image archive: %w", err)
	}
	return store, nil
}
