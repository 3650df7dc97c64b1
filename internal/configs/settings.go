package configs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pentimento/pentimento/internal/utils"
)

type UserSettings struct {
	// UserConfigsPath holds config.toml.
	UserConfigsPath string
	// UserDataPath holds the metadata store, the image archive, and the
	// audit log.
	UserDataPath string
	Username     string
}

var UserPentimentoSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		log.Fatalf("error getting username: %s", err)
	}

	UserPentimentoSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "pentimento"),
		UserDataPath:    filepath.Join(dataDir, "pentimento"),
		Username:        username,
	}
}

// DefaultStorePath is where the metadata store lives unless the config
// says otherwise.
func (s *UserSettings) DefaultStorePath() string {
	return filepath.Join(s.UserDataPath, "store")
}

// DefaultArchivePath is where archived container images live unless the
// config says otherwise.
func (s *UserSettings) DefaultArchivePath() string {
	return filepath.Join(s.UserDataPath, "archive")
}

// AuditLogPath is where the JSONL audit log lives.
func (s *UserSettings) AuditLogPath() string {
	return filepath.Join(s.UserDataPath, "audit.jsonl")
}
