package audit

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pentimento/pentimento/internal/configs"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Username performing the operation.
	Operation string `json:"op"`   // Operation name: hide, reveal, inspect, revoke, purge, init.

	// Optional fields depending on operation.
	ContainerID   string `json:"container_id,omitempty"`   // For hide/reveal/inspect/revoke.
	Image         string `json:"image,omitempty"`          // Image path for hide/reveal/inspect.
	Label         string `json:"label,omitempty"`          // For hide.
	RequiredBytes int    `json:"required_bytes,omitempty"` // For hide.
	RecordsCount  int    `json:"records_count,omitempty"`  // For purge.
	DryRun        bool   `json:"dry_run,omitempty"`        // For revoke/purge.
}

// Log appends an entry to the audit log under the user data directory.
// If logging fails it returns silently: operations must not fail just
// because audit logging did. The log deliberately never records
// passwords, plaintext names, or which role a reveal resolved to.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	config, err := configs.LoadUserConfig()
	if err != nil || !config.Audit.Enabled {
		return
	}

	logPath := configs.UserPentimentoSettings.AuditLogPath()
	if err := os.MkdirAll(configs.UserPentimentoSettings.UserDataPath, 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser builds an entry for op with the user field populated.
func LogWithUser(op string) Entry {
	return Entry{
		Operation: op,
		User:      configs.UserPentimentoSettings.Username,
	}
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	return configs.UserPentimentoSettings.AuditLogPath()
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
