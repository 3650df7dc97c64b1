package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	perrors "github.com/pentimento/pentimento/internal/errors"
)

const indexSchemaVersion = 1

// Entry describes one archived container image.
type Entry struct {
	ContainerID string    `json:"container_id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is a filesystem archive of container images: one <id>.png per
// container plus an index.json describing them. Keeping a copy here lets
// reveal and revoke address containers by ID after the original output
// file has been shipped elsewhere.
type Store struct {
	mu        sync.RWMutex
	dir       string
	indexPath string
	items     map[string]Entry
}

type indexPayload struct {
	SchemaVersion int              `json:"schema_version"`
	Items         map[string]Entry `json:"items"`
}

// Open loads (creating if necessary) the archive at dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	s := &Store{
		dir:       dir,
		indexPath: filepath.Join(dir, "index.json"),
		items:     make(map[string]Entry),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save stores the image bytes under the container ID, replacing any
// previous copy.
func (s *Store) Save(containerID, filename string, data []byte) (Entry, error) {
	if len(data) == 0 {
		return Entry{}, fmt.Errorf("image data is empty")
	}
	entry := Entry{
		ContainerID: containerID,
		Filename:    filename,
		Size:        int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.filePath(containerID)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Entry{}, fmt.Errorf("writing archived image: %w", err)
	}
	next := cloneEntries(s.items)
	next[containerID] = entry
	if err := s.persistLocked(next); err != nil {
		_ = os.Remove(path)
		return Entry{}, err
	}
	s.items = next
	return entry, nil
}

// Has reports whether a container has an archived image.
func (s *Store) Has(containerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[containerID]
	return ok
}

// Load returns the archived image for a container, or ErrImageNotFound.
func (s *Store) Load(containerID string) (Entry, []byte, error) {
	s.mu.RLock()
	entry, ok := s.items[containerID]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, nil, perrors.ErrImageNotFound
	}
	data, err := os.ReadFile(s.filePath(containerID))
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, nil, perrors.ErrImageNotFound
		}
		return Entry{}, nil, fmt.Errorf("reading archived image: %w", err)
	}
	return entry, data, nil
}

// Delete removes a container's archived image. Missing entries return
// ErrImageNotFound.
func (s *Store) Delete(containerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[containerID]; !ok {
		return perrors.ErrImageNotFound
	}
	if err := os.Remove(s.filePath(containerID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing archived image: %w", err)
	}
	next := cloneEntries(s.items)
	delete(next, containerID)
	if err := s.persistLocked(next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// List returns all entries, newest first.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.items))
	for _, entry := range s.items {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ContainerID < out[j].ContainerID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of archived images.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) filePath(containerID string) string {
	return filepath.Join(s.dir, containerID+".png")
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading archive index: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	var payload indexPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parsing archive index: %w", err)
	}
	if payload.SchemaVersion > indexSchemaVersion {
		return fmt.Errorf("unsupported archive index schema %d (current %d)", payload.SchemaVersion, indexSchemaVersion)
	}
	if payload.Items != nil {
		s.items = payload.Items
	}
	return nil
}

func (s *Store) persistLocked(items map[string]Entry) error {
	payload := indexPayload{
		SchemaVersion: indexSchemaVersion,
		Items:         items,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding archive index: %w", err)
	}
	if err := os.WriteFile(s.indexPath, data, 0o600); err != nil {
		return fmt.Errorf("writing archive index: %w", err)
	}
	return nil
}

func cloneEntries(in map[string]Entry) map[string]Entry {
	out := make(map[string]Entry, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
