package metadata

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/shirou/gopsutil/disk"

	perrors "github.com/pentimento/pentimento/internal/errors"
	logger "github.com/pentimento/pentimento/internal/logging"
)

// keyPrefix namespaces container records inside the key-value store.
const keyPrefix = "container/"

// Config configures a metadata store.
type Config struct {
	// Path is the store directory. It must already exist.
	Path string

	// MinimumFreeBytes aborts Open with ErrInsufficientDiskSpace when the
	// store's volume has less free space than this. Zero disables the
	// check.
	MinimumFreeBytes uint64

	// Logger receives store debug output. The zero value is silent.
	Logger logger.Logger
}

// Store persists container key material in an embedded Badger database.
// One record per container, keyed by container ID.
type Store struct {
	config Config
	db     *badger.DB
}

// DiskUsage describes the volume the store lives on.
type DiskUsage struct {
	TotalBytes  uint64
	FreeBytes   uint64
	UsedPercent float64
}

// Open opens (creating if necessary) the store at config.Path.
func Open(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("metadata store path must not be empty")
	}
	if config.MinimumFreeBytes > 0 {
		usage, err := disk.Usage(config.Path)
		if err != nil {
			return nil, fmt.Errorf("checking free space for %s: %w", config.Path, err)
		}
		if usage.Free < config.MinimumFreeBytes {
			return nil, fmt.Errorf("%w: %d bytes free at %s", perrors.ErrInsufficientDiskSpace, usage.Free, config.Path)
		}
	}

	opts := badger.DefaultOptions(config.Path)
	// Badger's own chatter does not belong in CLI output.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening metadata store at %s: %w", config.Path, err)
	}
	config.Logger.Debugf("Opened metadata store at %s", config.Path)
	return &Store{config: config, db: db}, nil
}

// Put stores the record, overwriting any existing record for the same
// container.
func (s *Store) Put(rec *Record) error {
	data, err := rec.encode()
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFor(rec.ContainerID), data)
	})
	if err != nil {
		return fmt.Errorf("writing metadata for %s: %w", rec.ContainerID, err)
	}
	s.config.Logger.Debugf("Stored metadata record for container %s", rec.ContainerID)
	return nil
}

// Get fetches the record for a container. A missing record returns
// ErrMetadataNotFound: the container was revoked or never registered
// here, and decryption must not be attempted.
func (s *Store) Get(containerID string) (*Record, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFor(containerID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, perrors.ErrMetadataNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading metadata for %s: %w", containerID, err)
	}
	return decodeRecord(data)
}

// Delete removes the record for a container: the kill switch. Deleting
// a record that does not exist returns ErrMetadataNotFound so revoke can
// report accurately.
func (s *Store) Delete(containerID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(keyFor(containerID)); err != nil {
			return err
		}
		return txn.Delete(keyFor(containerID))
	})
	if err == badger.ErrKeyNotFound {
		return perrors.ErrMetadataNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting metadata for %s: %w", containerID, err)
	}
	s.config.Logger.Debugf("Deleted metadata record for container %s", containerID)
	return nil
}

// List returns all records in key order. Sorting is left to the caller.
func (s *Store) List() ([]*Record, error) {
	var records []*Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := decodeRecord(data)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing metadata records: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records without loading values.
func (s *Store) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting metadata records: %w", err)
	}
	return count, nil
}

// DropAll deletes every record, the mass kill switch behind store
// purge. It returns how many records were removed.
func (s *Store) DropAll() (int, error) {
	count, err := s.Count()
	if err != nil {
		return 0, err
	}
	if err := s.db.DropAll(); err != nil {
		return 0, fmt.Errorf("purging metadata store: %w", err)
	}
	s.config.Logger.Debugf("Dropped %d metadata records", count)
	return count, nil
}

// Usage reports the disk usage of the volume holding the store.
func (s *Store) Usage() (DiskUsage, error) {
	usage, err := disk.Usage(s.config.Path)
	if err != nil {
		return DiskUsage{}, fmt.Errorf("checking disk usage for %s: %w", s.config.Path, err)
	}
	return DiskUsage{
		TotalBytes:  usage.Total,
		FreeBytes:   usage.Free,
		UsedPercent: usage.UsedPercent,
	}, nil
}

// Close syncs, garbage-collects the value log, and closes the database.
func (s *Store) Close() error {
	if err := s.db.Sync(); err != nil {
		return fmt.Errorf("syncing metadata store: %w", err)
	}
	if err := s.db.RunValueLogGC(0.5); err != nil && err != badger.ErrNoRewrite {
		s.config.Logger.Warnf("Value log GC failed: %v", err)
	}
	return s.db.Close()
}

func keyFor(containerID string) []byte {
	return []byte(keyPrefix + containerID)
}
