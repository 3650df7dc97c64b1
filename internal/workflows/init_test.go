package workflows

import (
	"context"
	"errors"
	"os"
	"testing"

	perrors "github.com/pentimento/pentimento/internal/errors"
)

func TestInitStoreCreatesEverything(t *testing.T) {
	setupBareEnv(t)

	result, err := InitStore(context.Background(), InitStoreOptions{})
	if err != nil {
		t.Fatalf("InitStore failed: %v", err)
	}

	if !result.ConfigCreated {
		t.Error("Init did not create a config file")
	}
	if _, err := os.Stat(result.ConfigPath); err != nil {
		t.Errorf("Config file missing: %v", err)
	}
	if _, err := os.Stat(result.StorePath); err != nil {
		t.Errorf("Store directory missing: %v", err)
	}
	if _, err := os.Stat(result.ArchivePath); err != nil {
		t.Errorf("Archive directory missing: %v", err)
	}
}

func TestInitStoreKeepsExistingConfig(t *testing.T) {
	setupWorkflowEnv(t)

	result, err := InitStore(context.Background(), InitStoreOptions{})
	if err != nil {
		t.Fatalf("InitStore failed: %v", err)
	}
	if result.ConfigCreated {
		t.Error("Init replaced an existing config file")
	}
}

func TestInitStoreAlreadyInitialized(t *testing.T) {
	setupBareEnv(t)

	if _, err := InitStore(context.Background(), InitStoreOptions{}); err != nil {
		t.Fatalf("First InitStore failed: %v", err)
	}

	_, err := InitStore(context.Background(), InitStoreOptions{})
	if !errors.Is(err, perrors.ErrStoreAlreadyInitialized) {
		t.Errorf("Expected ErrStoreAlreadyInitialized, got %v", err)
	}
}

func TestInitStoreForce(t *testing.T) {
	tempDir := setupWorkflowEnv(t)
	hidden, _ := hideFixture(t, tempDir, false)

	result, err := InitStore(context.Background(), InitStoreOptions{Force: true})
	if err != nil {
		t.Fatalf("Forced InitStore failed: %v", err)
	}

	// Force re-initializes without dropping existing records.
	if result.StorePath == "" {
		t.Error("Result does not report the store path")
	}
	if _, err := Revoke(context.Background(), RevokeOptions{ContainerID: hidden.ContainerID, DryRun: true}); err != nil {
		t.Errorf("Existing record lost after forced init: %v", err)
	}
}
