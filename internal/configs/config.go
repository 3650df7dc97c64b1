package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pentimento/pentimento/internal/envelope"
)

type UserConfig struct {
	Store StoreConfig `toml:"store"`
	KDF   KDFConfig   `toml:"kdf"`
	Audit AuditConfig `toml:"audit"`
}

type StoreConfig struct {
	// Path is the metadata store directory.
	Path string `toml:"path"`
	// ArchivePath is the container image archive directory.
	ArchivePath string `toml:"archive_path"`
	// MinimumFreeMB refuses store opens when the volume has less free
	// space, in megabytes. Zero disables the check.
	MinimumFreeMB uint64 `toml:"minimum_free_mb"`
}

type KDFConfig struct {
	Time     uint32 `toml:"time"`
	MemoryKB uint32 `toml:"memory_kb"`
	Threads  uint8  `toml:"threads"`
}

type AuditConfig struct {
	Enabled bool `toml:"enabled"`
}

var GlobalUserConfig *UserConfig

// DefaultUserConfig returns the configuration a fresh install runs with.
func DefaultUserConfig() *UserConfig {
	params := envelope.DefaultParams()
	return &UserConfig{
		Store: StoreConfig{
			Path:        UserPentimentoSettings.DefaultStorePath(),
			ArchivePath: UserPentimentoSettings.DefaultArchivePath(),
		},
		KDF: KDFConfig{
			Time:     params.Time,
			MemoryKB: params.MemoryKB,
			Threads:  params.Threads,
		},
		Audit: AuditConfig{Enabled: true},
	}
}

// ConfigFilePath returns the path of the user config file.
func ConfigFilePath() string {
	return filepath.Join(UserPentimentoSettings.UserConfigsPath, "config.toml")
}

// LoadUserConfig loads the user configuration, falling back to defaults
// when no config file exists. Fields left empty in the file also fall
// back to their defaults.
func LoadUserConfig() (*UserConfig, error) {
	config := DefaultUserConfig()

	configPath := ConfigFilePath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	config.fillDefaults()
	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	if err := SaveTOML(ConfigFilePath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// EnsureUserConfig loads the configuration, writing the default file on
// first use. It reports whether a new file was created.
func EnsureUserConfig() (*UserConfig, bool, error) {
	configPath := ConfigFilePath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultUserConfig()
		if err := SaveUserConfig(config); err != nil {
			return nil, false, err
		}
		return config, true, nil
	}

	config, err := LoadUserConfig()
	if err != nil {
		return nil, false, err
	}
	return config, false, nil
}

// Params returns the configured KDF cost.
func (c *UserConfig) Params() envelope.Params {
	return envelope.Params{Time: c.KDF.Time, MemoryKB: c.KDF.MemoryKB, Threads: c.KDF.Threads}
}

// MinimumFreeBytes converts the configured floor to bytes.
func (c *UserConfig) MinimumFreeBytes() uint64 {
	return c.Store.MinimumFreeMB * 1024 * 1024
}

func (c *UserConfig) fillDefaults() {
	def := DefaultUserConfig()
	if c.Store.Path == "" {
		c.Store.Path = def.Store.Path
	}
	if c.Store.ArchivePath == "" {
		c.Store.ArchivePath = def.Store.ArchivePath
	}
	if c.KDF.Time == 0 {
		c.KDF.Time = def.KDF.Time
	}
	if c.KDF.MemoryKB == 0 {
		c.KDF.MemoryKB = def.KDF.MemoryKB
	}
	if c.KDF.Threads == 0 {
		c.KDF.Threads = def.KDF.Threads
	}
}
