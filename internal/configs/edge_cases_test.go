package configs

import (
	"os"
	"strings"
	"testing"

	"github.com/pentimento/pentimento/internal/envelope"
)

// TestEdgeCases contains edge case tests for the config system.
func TestEdgeCases(t *testing.T) {
	t.Run("MalformedConfigRecovery", func(t *testing.T) {
		testMalformedConfigRecovery(t)
	})

	t.Run("UnknownKeysRejected", func(t *testing.T) {
		testUnknownKeysRejected(t)
	})

	t.Run("PartialConfigFillsDefaults", func(t *testing.T) {
		testPartialConfigFillsDefaults(t)
	})

	t.Run("ZeroKDFFieldsFallBackToDefaults", func(t *testing.T) {
		testZeroKDFFieldsFallBack(t)
	})

	t.Run("AuditCanBeDisabled", func(t *testing.T) {
		testAuditCanBeDisabled(t)
	})

	t.Run("SpecialCharactersInStorePaths", func(t *testing.T) {
		testSpecialCharactersInStorePaths(t)
	})
}

// testMalformedConfigRecovery tests handling of malformed config files.
func testMalformedConfigRecovery(t *testing.T) {
	tempDir := t.TempDir()
	oldUserConfigsPath := UserPentimentoSettings.UserConfigsPath
	UserPentimentoSettings.UserConfigsPath = tempDir
	defer func() { UserPentimentoSettings.UserConfigsPath = oldUserConfigsPath }()

	// Write malformed TOML.
	malformedContent := `[store
path = "broken"
`
	if err := os.WriteFile(ConfigFilePath(), []byte(malformedContent), 0600); err != nil {
		t.Fatalf("Failed to create malformed config: %v", err)
	}

	// Loading should fail with an error.
	if _, err := LoadUserConfig(); err == nil {
		t.Fatal("Expected error when loading malformed config")
	}

	// Write valid TOML to recover.
	validContent := `[store]
path = "/tmp/recovered-store"
`
	if err := os.WriteFile(ConfigFilePath(), []byte(validContent), 0600); err != nil {
		t.Fatalf("Failed to create valid config: %v", err)
	}

	// Loading should now succeed.
	config, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("Failed to load recovered config: %v", err)
	}
	if config.Store.Path != "/tmp/recovered-store" {
		t.Errorf("Expected store path '/tmp/recovered-store', got %q", config.Store.Path)
	}
}

// testUnknownKeysRejected tests that a typo in the config file surfaces
// as an error instead of being silently ignored.
func testUnknownKeysRejected(t *testing.T) {
	tempDir := t.TempDir()
	oldUserConfigsPath := UserPentimentoSettings.UserConfigsPath
	UserPentimentoSettings.UserConfigsPath = tempDir
	defer func() { UserPentimentoSettings.UserConfigsPath = oldUserConfigsPath }()

	content := `[store]
path = "/tmp/store"
minimum_free_gb = 1
`
	if err := os.WriteFile(ConfigFilePath(), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	_, err := LoadUserConfig()
	if err == nil {
		t.Fatal("Expected error for unknown config key")
	}
	if !strings.Contains(err.Error(), "minimum_free_gb") {
		t.Errorf("Expected error to name the unknown key, got: %v", err)
	}
}

// testPartialConfigFillsDefaults tests that a config file which only sets
// some fields still yields a complete config.
func testPartialConfigFillsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	oldUserConfigsPath := UserPentimentoSettings.UserConfigsPath
	UserPentimentoSettings.UserConfigsPath = tempDir
	defer func() { UserPentimentoSettings.UserConfigsPath = oldUserConfigsPath }()

	content := `[kdf]
time = 5
`
	if err := os.WriteFile(ConfigFilePath(), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	config, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	if config.KDF.Time != 5 {
		t.Errorf("Expected KDF time 5, got %d", config.KDF.Time)
	}

	defaults := envelope.DefaultParams()
	if config.KDF.MemoryKB != defaults.MemoryKB {
		t.Errorf("Expected default KDF memory %d KB, got %d", defaults.MemoryKB, config.KDF.MemoryKB)
	}
	if config.KDF.Threads != defaults.Threads {
		t.Errorf("Expected default KDF threads %d, got %d", defaults.Threads, config.KDF.Threads)
	}
	if config.Store.Path == "" {
		t.Error("Expected default store path to be filled in")
	}
	if config.Store.ArchivePath == "" {
		t.Error("Expected default archive path to be filled in")
	}
}

// testZeroKDFFieldsFallBack tests that explicit zeros in the KDF section
// fall back to the defaults instead of producing an unusable cost.
func testZeroKDFFieldsFallBack(t *testing.T) {
	tempDir := t.TempDir()
	oldUserConfigsPath := UserPentimentoSettings.UserConfigsPath
	UserPentimentoSettings.UserConfigsPath = tempDir
	defer func() { UserPentimentoSettings.UserConfigsPath = oldUserConfigsPath }()

	content := `[kdf]
time = 0
memory_kb = 0
threads = 0
`
	if err := os.WriteFile(ConfigFilePath(), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	config, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	defaults := envelope.DefaultParams()
	if config.KDF.Time != defaults.Time {
		t.Errorf("Expected zero KDF time to fall back to %d, got %d", defaults.Time, config.KDF.Time)
	}
	if config.KDF.MemoryKB != defaults.MemoryKB {
		t.Errorf("Expected zero KDF memory to fall back to %d KB, got %d", defaults.MemoryKB, config.KDF.MemoryKB)
	}
	if config.KDF.Threads != defaults.Threads {
		t.Errorf("Expected zero KDF threads to fall back to %d, got %d", defaults.Threads, config.KDF.Threads)
	}
}

// testAuditCanBeDisabled tests that the audit log can be switched off in
// the config file.
func testAuditCanBeDisabled(t *testing.T) {
	tempDir := t.TempDir()
	oldUserConfigsPath := UserPentimentoSettings.UserConfigsPath
	UserPentimentoSettings.UserConfigsPath = tempDir
	defer func() { UserPentimentoSettings.UserConfigsPath = oldUserConfigsPath }()

	content := `[audit]
enabled = false
`
	if err := os.WriteFile(ConfigFilePath(), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	config, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	if config.Audit.Enabled {
		t.Error("Expected audit to be disabled")
	}
	if config.Store.Path == "" {
		t.Error("Expected default store path to be filled in")
	}
}

// testSpecialCharactersInStorePaths tests handling of special characters
// in configured paths.
func testSpecialCharactersInStorePaths(t *testing.T) {
	tempDir := t.TempDir()
	oldUserConfigsPath := UserPentimentoSettings.UserConfigsPath
	UserPentimentoSettings.UserConfigsPath = tempDir
	defer func() { UserPentimentoSettings.UserConfigsPath = oldUserConfigsPath }()

	// Test various special characters in store paths.
	specialPaths := []string{
		"/data/pentimento-store",
		"/data/pentimento_store",
		"/data/store.v2",
		"/data/store with spaces",
		"/data/store@2026",
		"/data/格納庫", // Japanese characters.
	}

	for _, path := range specialPaths {
		t.Run(path, func(t *testing.T) {
			config := DefaultUserConfig()
			config.Store.Path = path

			// Save config.
			if err := SaveUserConfig(config); err != nil {
				t.Fatalf("Failed to save config with path %q: %v", path, err)
			}

			// Load config.
			loadedConfig, err := LoadUserConfig()
			if err != nil {
				t.Fatalf("Failed to load config with path %q: %v", path, err)
			}

			// Verify path was preserved.
			if loadedConfig.Store.Path != path {
				t.Errorf("Path not preserved: expected %q, got %q", path, loadedConfig.Store.Path)
			}
		})
	}
}
